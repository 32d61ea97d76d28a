package main

import (
	"fmt"
	"log/slog"
	"os"

	"seqtrace/internal/tracer"
)

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("bad -log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func tracerLogger(log *slog.Logger) tracer.Option {
	return tracer.WithLogger(log.With("component", "tracer"))
}
