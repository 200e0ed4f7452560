package domain

import (
	"errors"
	"fmt"
)

var ErrNoReport = errors.New("no report found")

// ConfigError fails a run before any input is processed
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

type Stage string

const (
	StageMoverFilter    Stage = "mover_filter"
	StageNewsAggregator Stage = "news_aggregator"
)

// SkippedRecord is a data error. The offending record is dropped and the
// run carries on.
type SkippedRecord struct {
	Stage  Stage
	Symbol string
	Reason string
}

func (s SkippedRecord) String() string {
	return fmt.Sprintf("%s: skipped %q: %s", s.Stage, s.Symbol, s.Reason)
}
