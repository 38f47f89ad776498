// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package logger provides a log/slog based logger used across the service.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to w with the given level.
// Level is parsed from its textual representation (debug, info, warn, error).
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return nil, fmt.Errorf("failed to parse log level %q: %w", levelText, err)
	}

	logHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(logHandler), nil
}

// ExitWithError terminates the process with the given exit code. It is
// meant to be deferred from main so that deferred cleanups still run
// before the process exits.
func ExitWithError(exitCode *int) {
	os.Exit(*exitCode)
}
