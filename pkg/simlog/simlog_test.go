// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package simlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openb-trace/gpu-sched-sim/pkg/simlog"
)

func TestNewReturnsUsableLogger(t *testing.T) {
	log := simlog.New(false)
	assert.NotNil(t, log)
	log.Infow("test message", "key", "value")
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	log := simlog.New(true)
	assert.NotNil(t, log)
	log.Debugw("debug message")
}
