// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package simspec

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// NodeInfo is the mutable, per-round residual view of a node. It is
// created fresh from its NodeSpec at the start of every round and
// discarded on reset; all mutation goes through Cluster.Bind.
type NodeInfo struct {
	Spec *NodeSpec

	CPURem int64
	MemRem int64

	// GPURem holds one entry per GPU, each a residual share in
	// [0, GpuMilli]. Index order is the node's natural GPU order.
	GPURem []int64

	GPUFull        int   // count of entries == GpuMilli
	GPUPart        int64 // max entry strictly < GpuMilli, 0 if none
	GPUUnallocated int64 // sum(GPURem)
	GPUFrag        int64 // sum of residuals stranded below the catalog's smallest single-GPU request
}

// NewNodeInfo builds a fresh NodeInfo from spec: full residuals, every
// GPU entry at GpuMilli.
func NewNodeInfo(spec *NodeSpec) *NodeInfo {
	gpuRem := make([]int64, spec.NumGPU)
	for i := range gpuRem {
		gpuRem[i] = GpuMilli
	}

	return &NodeInfo{
		Spec:           spec,
		CPURem:         spec.CPUMilli,
		MemRem:         spec.MemoryMiB,
		GPURem:         gpuRem,
		GPUFull:        spec.NumGPU,
		GPUPart:        0,
		GPUUnallocated: spec.GPUMilli,
	}
}

// RecomputeGPUCounters rebuilds GPUFull, GPUPart, GPUUnallocated, and
// GPUFrag from GPURem, maintaining invariants 1-3 of spec.md §3 after
// any mutation of GPURem. minFragThreshold is the smallest single-GPU
// gpu_milli request known to the workload catalog (see
// SPEC_FULL.md's fragmentation decision); a residual below it but
// above zero can satisfy no task in the catalog and counts as
// fragmented.
func (n *NodeInfo) RecomputeGPUCounters(minFragThreshold int64) {
	var full int
	var part int64
	var unallocated int64
	var frag int64

	for _, rem := range n.GPURem {
		unallocated += rem
		if rem == GpuMilli {
			full++
		} else if rem > part {
			part = rem
		}
		if rem > 0 && rem < minFragThreshold {
			frag += rem
		}
	}

	n.GPUFull = full
	n.GPUPart = part
	n.GPUUnallocated = unallocated
	n.GPUFrag = frag
}

// String renders the residual summary plus a per-GPU usage bar,
// matching the original source's Display impl for NodeInfoStruct.
func (n *NodeInfo) String() string {
	var b strings.Builder
	b.WriteString("SPECS:\t")
	b.WriteString(n.Spec.String())
	b.WriteString("\nREMAIN:\t")
	b.WriteString(humanize.Comma(n.CPURem/CPUMilliPerCore) + " cpu\t" +
		humanize.Comma(n.MemRem/1024) + " GiB\t" +
		humanize.FtoaWithDigits(float64(n.GPUUnallocated)/GpuMilli, 1) + " GPU\t" +
		n.Spec.Model.String())
	b.WriteString("\n")

	for _, rem := range n.GPURem {
		b.WriteString(gpuBar(rem))
	}
	return b.String()
}

// gpuBar renders a residual in tenths as a used/free glyph bar, e.g.
// "▇▇▇▇▇▇▇▒▒▒" for a GPU with 700/1000 milli used.
func gpuBar(residualMilli int64) string {
	free := int(residualMilli / (GpuMilli / 10))
	used := 10 - free

	var b strings.Builder
	b.WriteString("[\t")
	for i := 0; i < used; i++ {
		b.WriteRune('▇')
	}
	for i := 0; i < free; i++ {
		b.WriteRune('▒')
	}
	b.WriteString("\t]")
	return b.String()
}
