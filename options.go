package cfg

import (
	"context"
	"log/slog"
)

// Option configures the normalizer, the recognizer and the Parser
type Option func(*options)

type options struct {
	strict bool
	logger *slog.Logger
}

// WithStrict makes TransformToWellFormed repeat its four passes until a whole
// round leaves the grammar unchanged. By default the passes run once
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithLogger sets the logger for stage-by-stage debug records
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(slog.String("component", "cfg"))
	return o
}

// debugStage logs the grammar after a pipeline stage
func (o *options) debugStage(g *Grammar, round int, stage string, removed any) {
	if !o.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	o.logger.Debug(stage,
		slog.Int("round", round),
		slog.Any("removed", removed),
		slog.String("grammar", g.String()))
}
