package service

import (
	"context"
	"errors"
	"testing"
	"time"

	mock_repository "themeradar/internal/repository/mocks"
	"themeradar/internal/serialize"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sampleReportJSON() serialize.ReportJSON {
	return serialize.ReportJSON{
		GeneratedAt: time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC),
		Summary: serialize.SummaryJSON{
			TotalMovers:    2,
			ThemesDetected: 1,
			TopThemeNames:  []string{"AI"},
		},
		Themes: []serialize.ThemeJSON{
			{
				Name:       "AI",
				StockCount: 2,
				Stocks: []serialize.RankedStockJSON{
					{Rank: 1, Symbol: "A", Name: "Alpha", Role: "leader", Score: 0.8},
					{Rank: 2, Symbol: "B", Name: "Beta", Role: "follower", Score: 0.36},
				},
			},
		},
		TopGainers: []serialize.GainerJSON{},
		Watchlist:  []serialize.WatchlistJSON{},
	}
}

func Test_notificationServiceHandler_RenderReportEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewNotificationService(mock_repository.NewMockEmailRepository(ctrl))

	email, err := handler.RenderReportEmail(sampleReportJSON())
	require.NoError(t, err)

	require.Equal(t, "Theme report 2026-03-02: AI", email.Subject)
	require.Contains(t, email.HtmlBody, "<h2>AI</h2>")
	require.Contains(t, email.HtmlBody, "<table>")
	require.Contains(t, email.HtmlBody, "<td>leader</td>")
	require.Contains(t, email.TextBody, "## AI")
}

func Test_notificationServiceHandler_SendReport(t *testing.T) {
	t.Run("sends to all recipients", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		emailRepository := mock_repository.NewMockEmailRepository(ctrl)
		handler := NewNotificationService(emailRepository)

		emailRepository.EXPECT().
			SendEmail(gomock.Any(), []string{"a@example.com", "b@example.com"}, "Theme report 2026-03-02: AI", gomock.Any(), gomock.Any()).
			Return("msg-1", nil)

		err := handler.SendReport(context.Background(), []string{"a@example.com", "b@example.com"}, sampleReportJSON())
		require.NoError(t, err)
	})

	t.Run("no recipients is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		handler := NewNotificationService(mock_repository.NewMockEmailRepository(ctrl))

		require.NoError(t, handler.SendReport(context.Background(), nil, sampleReportJSON()))
	})

	t.Run("send failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		emailRepository := mock_repository.NewMockEmailRepository(ctrl)
		handler := NewNotificationService(emailRepository)

		sesErr := errors.New("throttled")
		emailRepository.EXPECT().
			SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", sesErr)

		err := handler.SendReport(context.Background(), []string{"a@example.com"}, sampleReportJSON())
		require.ErrorIs(t, err, sesErr)
	})
}
