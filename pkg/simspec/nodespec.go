// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package simspec

import "github.com/dustin/go-humanize"

// GpuMilli is one whole GPU expressed in thousandths, the unit every
// fractional GPU quantity in this package is measured in.
const GpuMilli = 1000

// NodeSpec is the immutable, load-time description of a cluster host.
// Once built it is shared read-only by every NodeInfo snapshot of that
// node across every round.
type NodeSpec struct {
	ID        int
	CPUMilli  int64
	MemoryMiB int64
	NumGPU    int
	GPUMilli  int64 // NumGPU * GpuMilli
	Model     GpuSpec
}

// NewNodeSpec builds a NodeSpec from parsed record fields, deriving
// GPUMilli from NumGPU as spec.md §3 requires.
func NewNodeSpec(id int, cpuMilli, memoryMiB int64, numGPU int, model GpuSpec) *NodeSpec {
	return &NodeSpec{
		ID:        id,
		CPUMilli:  cpuMilli,
		MemoryMiB: memoryMiB,
		NumGPU:    numGPU,
		GPUMilli:  int64(numGPU) * GpuMilli,
		Model:     model,
	}
}

// String renders a one-line human-readable resource summary, matching
// the original source's Display impl for NodeSpecStruct.
func (n *NodeSpec) String() string {
	return humanize.Comma(n.CPUMilli/CPUMilliPerCore) + " cpu\t" +
		humanize.Comma(n.MemoryMiB/1024) + " GiB\t" +
		humanize.Comma(int64(n.NumGPU)) + " GPU\t" +
		n.Model.String()
}

// CPUMilliPerCore is the milli-core unit, matching PodSpec's cpu_milli.
const CPUMilliPerCore = 1000
