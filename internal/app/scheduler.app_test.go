package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"themeradar/internal/repository"
	mock_repository "themeradar/internal/repository/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingApp struct {
	inputs []RunInput
	err    error
}

func (a *recordingApp) Run(ctx context.Context, in RunInput) (*RunResult, error) {
	a.inputs = append(a.inputs, in)
	if a.err != nil {
		return nil, a.err
	}
	return &RunResult{Run: RunSummary{TotalMovers: 1}}, nil
}

func TestScreeningScheduler(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	t.Run("empty schedule is idle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := NewScreeningScheduler(&recordingApp{}, mock_repository.NewMockUniverseRepository(ctrl), tokyo)

		require.NoError(t, s.Start(""))
		require.True(t, s.Next().IsZero())
		s.Stop()
	})

	t.Run("bad schedule", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := NewScreeningScheduler(&recordingApp{}, mock_repository.NewMockUniverseRepository(ctrl), tokyo)

		require.Error(t, s.Start("every day at close"))
	})

	t.Run("next run is in market time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := NewScreeningScheduler(&recordingApp{}, mock_repository.NewMockUniverseRepository(ctrl), tokyo)

		require.NoError(t, s.Start("30 15 * * 1-5"))
		defer s.Stop()

		next := s.Next().In(tokyo)
		require.False(t, next.IsZero())
		require.Equal(t, 15, next.Hour())
		require.Equal(t, 30, next.Minute())
		require.NotEqual(t, time.Saturday, next.Weekday())
		require.NotEqual(t, time.Sunday, next.Weekday())
	})

	t.Run("run now screens the universe and notifies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		universe := mock_repository.NewMockUniverseRepository(ctrl)
		screeningApp := &recordingApp{}
		s := NewScreeningScheduler(screeningApp, universe, tokyo)

		universe.EXPECT().List().Return([]repository.UniverseMember{
			{Symbol: "7203.T", Name: "Toyota"},
			{Symbol: "6758.T", Name: "Sony"},
		}, nil)

		result, err := s.RunNow(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, result.Run.TotalMovers)
		require.Len(t, screeningApp.inputs, 1)
		require.Equal(t, []string{"7203.T", "6758.T"}, screeningApp.inputs[0].Symbols)
		require.True(t, screeningApp.inputs[0].Notify)
	})

	t.Run("universe failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		universe := mock_repository.NewMockUniverseRepository(ctrl)
		screeningApp := &recordingApp{}
		s := NewScreeningScheduler(screeningApp, universe, tokyo)

		listErr := errors.New("universe.csv missing")
		universe.EXPECT().List().Return(nil, listErr)

		_, err := s.RunNow(context.Background())
		require.ErrorIs(t, err, listErr)
		require.Empty(t, screeningApp.inputs)
	})
}
