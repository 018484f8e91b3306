// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package simspec holds the immutable domain types shared by the
// cluster, workload, and evaluator engines: GpuSpec, NodeSpec, PodSpec,
// and the mutable per-round NodeInfo.
package simspec

import (
	"fmt"
	"strings"
)

// GpuSpec is a bitset over the closed enum of GPU models. The zero
// value is the empty set ("no preference" on a PodSpec, "unmodelled"
// on a NodeSpec).
type GpuSpec uint8

const (
	GpuA10 GpuSpec = 1 << iota
	GpuG2
	GpuG3
	GpuP100
	GpuT4
	GpuV100M16
	GpuV100M32
)

var gpuSpecNames = []struct {
	bit  GpuSpec
	name string
}{
	{GpuA10, "A10"},
	{GpuG2, "G2"},
	{GpuG3, "G3"},
	{GpuP100, "P100"},
	{GpuT4, "T4"},
	{GpuV100M16, "V100M16"},
	{GpuV100M32, "V100M32"},
}

// ParseGpuSpec parses a `|`-separated list of model names (empty
// string means the empty set) into a GpuSpec. Unknown names are a
// parse error, per spec.md §6.1.
func ParseGpuSpec(s string) (GpuSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var spec GpuSpec
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		bit, ok := gpuSpecByName(part)
		if !ok {
			return 0, fmt.Errorf("unknown gpu_spec model %q", part)
		}
		spec |= bit
	}
	return spec, nil
}

func gpuSpecByName(name string) (GpuSpec, bool) {
	for _, entry := range gpuSpecNames {
		if entry.name == name {
			return entry.bit, true
		}
	}
	return 0, false
}

// IsEmpty reports whether the set has no members.
func (g GpuSpec) IsEmpty() bool { return g == 0 }

// Intersects reports whether g and other share at least one model.
func (g GpuSpec) Intersects(other GpuSpec) bool { return g&other != 0 }

// Union returns the set union of g and other.
func (g GpuSpec) Union(other GpuSpec) GpuSpec { return g | other }

// String renders the set as a `|`-joined list of model names, or "_"
// when empty, matching the original source's Display impl.
func (g GpuSpec) String() string {
	if g.IsEmpty() {
		return "_"
	}

	var names []string
	for _, entry := range gpuSpecNames {
		if g&entry.bit != 0 {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, "|")
}
