// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package simspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGpuSpec(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    GpuSpec
		wantErr bool
	}{
		{name: "empty", in: "", want: 0},
		{name: "single", in: "P100", want: GpuP100},
		{name: "union", in: "V100M16|V100M32", want: GpuV100M16 | GpuV100M32},
		{name: "whitespace tolerant", in: " T4 | A10 ", want: GpuT4 | GpuA10},
		{name: "unknown model", in: "RTX4090", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseGpuSpec(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGpuSpecIntersects(t *testing.T) {
	assert.True(t, GpuSpec(GpuT4|GpuA10).Intersects(GpuA10))
	assert.False(t, GpuSpec(GpuT4).Intersects(GpuA10))
	assert.False(t, GpuSpec(0).Intersects(GpuA10))
}

func TestGpuSpecEmptyStringsUnderscore(t *testing.T) {
	assert.Equal(t, "_", GpuSpec(0).String())
	assert.Equal(t, "A10", GpuA10.String())
}
