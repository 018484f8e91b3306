// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package cluster

// NodeMetrics aggregates cluster-wide GPU allocation and fragmentation
// counters, reset at the start of every round.
//
// Fragmentation follows the Weng et al. ("Beware of Fragmentation:
// Scheduling GPU-Sharing Workloads with Fragmentation Gradient
// Descent", NSDI 2023) notion of stranded capacity: a GPU's residual
// share is fragmented when it is nonzero but smaller than the
// smallest single-GPU request the workload catalog is known to
// produce, so no task in the catalog could ever land on it. See
// SPEC_FULL.md for the rationale; spec.md §9 leaves this undefined.
type NodeMetrics struct {
	GPUTotal        int64
	GPUUnallocated  int64
	FragTotal       int64

	AllocRate float64 // 1 - GPUUnallocated/GPUTotal
	FragRate  float64 // FragTotal/GPUUnallocated
}

func (m *NodeMetrics) recompute() {
	if m.GPUTotal > 0 {
		m.AllocRate = 1 - float64(m.GPUUnallocated)/float64(m.GPUTotal)
	} else {
		m.AllocRate = 0
	}
	if m.GPUUnallocated > 0 {
		m.FragRate = float64(m.FragTotal) / float64(m.GPUUnallocated)
	} else {
		m.FragRate = 0
	}
}
