// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package simlog builds the zap.SugaredLogger shared by every
// simulation component, following the ISO8601 time encoding the
// teacher's binder command configures for its own zap logger.
package simlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded zap.SugaredLogger. verbose selects
// debug-level output; otherwise only info-and-above is logged.
func New(verbose bool) *zap.SugaredLogger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            level,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		// zap.Config.Build only fails on a malformed config we control
		// above; surface it as a panic rather than threading an error
		// through every caller of simlog.New.
		panic("simlog: failed to build logger: " + err.Error())
	}

	return logger.Sugar()
}
