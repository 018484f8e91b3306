// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package simspec

import "github.com/dustin/go-humanize"

// PodSpec is the immutable, load-time description of a schedulable
// task. Instances are shared read-only; the evaluator and workload
// engine pass *PodSpec by reference instead of copying it on every
// sample.
type PodSpec struct {
	ID        int
	CPUMilli  int64
	MemoryMiB int64
	NumGPU    int
	GPUMilli  int64 // per-GPU milli-share if NumGPU==1, else NumGPU*GpuMilli
	Model     GpuSpec
}

// SingleGPU reports whether the task requests exactly one (possibly
// fractional) GPU, as opposed to an integer count of whole GPUs.
func (p *PodSpec) SingleGPU() bool { return p.NumGPU == 1 }

// NewPodSpec builds a PodSpec, normalizing GPUMilli for multi-GPU
// tasks to NumGPU*GpuMilli per spec.md §4.2's pre-processing rule.
func NewPodSpec(id int, cpuMilli, memoryMiB int64, numGPU int, gpuMilli int64, model GpuSpec) *PodSpec {
	if numGPU != 1 {
		gpuMilli = int64(numGPU) * GpuMilli
	}
	return &PodSpec{
		ID:        id,
		CPUMilli:  cpuMilli,
		MemoryMiB: memoryMiB,
		NumGPU:    numGPU,
		GPUMilli:  gpuMilli,
		Model:     model,
	}
}

// PodSpecKey is PodSpec's data payload without its identity field.
// Equality and hashing over PodSpecKey implement spec.md invariant 6:
// identical workload shapes collapse to one task-count entry
// regardless of which row they came from.
type PodSpecKey struct {
	CPUMilli  int64
	MemoryMiB int64
	NumGPU    int
	GPUMilli  int64
	Model     GpuSpec
}

// Key returns the value used to index the task-count map.
func (p *PodSpec) Key() PodSpecKey {
	return PodSpecKey{
		CPUMilli:  p.CPUMilli,
		MemoryMiB: p.MemoryMiB,
		NumGPU:    p.NumGPU,
		GPUMilli:  p.GPUMilli,
		Model:     p.Model,
	}
}

// String renders a one-line human-readable resource summary, matching
// the original source's Display impl for PodSpecStruct.
func (p *PodSpec) String() string {
	gpuQty := float64(p.NumGPU)
	if p.SingleGPU() {
		gpuQty = float64(p.GPUMilli) / GpuMilli
	}

	return humanize.Comma(p.CPUMilli/CPUMilliPerCore) + " cpu\t" +
		humanize.Comma(p.MemoryMiB/1024) + " GiB\t" +
		humanize.FtoaWithDigits(gpuQty, 1) + " GPU\t" +
		p.Model.String()
}
