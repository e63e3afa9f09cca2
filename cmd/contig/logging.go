package main

import (
	"io"

	"golang.org/x/exp/slog"
)

const levelDebug = slog.LevelDebug

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
