// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package heuristics holds the reference Scheduler and Decider
// implementations spec.md §4.3/§4.4 names as acceptance targets:
// random placement, dot-product scoring, and best-fit.
package heuristics

import (
	"github.com/openb-trace/gpu-sched-sim/pkg/cluster"
	"github.com/openb-trace/gpu-sched-sim/pkg/evaluator"
	"github.com/openb-trace/gpu-sched-sim/pkg/simspec"
)

// ModelPenalty is subtracted from a node's score when the task has no
// model preference but the node is a model (non-empty GpuSpec) node,
// discouraging placing unconstrained tasks on specialized hardware
// (spec.md §4.3).
const ModelPenalty = 10_000

// Random implements spec.md §4.3's random reference scheduler: a
// uniformly random node from FilterNodes, then a uniformly random GPU
// (single-GPU) or the first num_gpu free GPUs (multi-GPU).
var Random = evaluator.SchedulerFunc(func(view *evaluator.View, task *simspec.PodSpec) (evaluator.Placement, bool) {
	nodes := view.Cluster.FilterNodes(task)
	if len(nodes) == 0 {
		return evaluator.Placement{}, false
	}

	node := nodes[view.Cluster.Rng().Intn(len(nodes))]
	gpus := view.Cluster.FilterGPUs(node, task)
	if len(gpus) < task.NumGPU {
		return evaluator.Placement{}, false
	}

	var chosen []int
	if task.SingleGPU() {
		chosen = []int{gpus[view.Cluster.Rng().Intn(len(gpus))].Index}
	} else {
		chosen = firstIndices(gpus, task.NumGPU)
	}

	return evaluator.Placement{NodeID: node.Spec.ID, GPUs: chosen}, true
})

// DotProduct implements spec.md §4.3's dot-product scoring scheduler:
// score each filtered node by cpu_rem*task.cpu_milli +
// mem_rem*task.memory_mib + gpu_unallocated*task.gpu_milli, apply
// ModelPenalty, and take the argmax; for single-GPU tasks, pick the
// tightest-fitting GPU (smallest residual >= requested).
var DotProduct = evaluator.SchedulerFunc(func(view *evaluator.View, task *simspec.PodSpec) (evaluator.Placement, bool) {
	nodes := view.Cluster.FilterNodes(task)
	if len(nodes) == 0 {
		return evaluator.Placement{}, false
	}

	best := nodes[0]
	bestScore := dotProductScore(best, task)
	for _, node := range nodes[1:] {
		if score := dotProductScore(node, task); score > bestScore {
			best, bestScore = node, score
		}
	}

	return placementOn(view, best, task, true)
})

func dotProductScore(node *simspec.NodeInfo, task *simspec.PodSpec) int64 {
	score := node.CPURem*task.CPUMilli + node.MemRem*task.MemoryMiB + node.GPUUnallocated*task.GPUMilli
	if task.Model.IsEmpty() && !node.Spec.Model.IsEmpty() {
		score -= ModelPenalty
	}
	return score
}

// BestFit implements spec.md §4.3's best-fit scheduler: score each
// filtered node by (cpu_rem - task.cpu_milli) + (mem_rem -
// task.memory_mib) + (gpu_unallocated - task.gpu_milli) and take the
// argmin, with the same tightest-fit GPU rule as DotProduct.
var BestFit = evaluator.SchedulerFunc(func(view *evaluator.View, task *simspec.PodSpec) (evaluator.Placement, bool) {
	nodes := view.Cluster.FilterNodes(task)
	if len(nodes) == 0 {
		return evaluator.Placement{}, false
	}

	best := nodes[0]
	bestScore := bestFitScore(best, task)
	for _, node := range nodes[1:] {
		if score := bestFitScore(node, task); score < bestScore {
			best, bestScore = node, score
		}
	}

	return placementOn(view, best, task, true)
})

func bestFitScore(node *simspec.NodeInfo, task *simspec.PodSpec) int64 {
	return (node.CPURem - task.CPUMilli) + (node.MemRem - task.MemoryMiB) + (node.GPUUnallocated - task.GPUMilli)
}

// placementOn builds a Placement on node for task, choosing GPUs by
// tightest-fit (smallest sufficient residual) for single-GPU tasks
// when tightestFit is set, or the first num_gpu free GPUs otherwise.
func placementOn(view *evaluator.View, node *simspec.NodeInfo, task *simspec.PodSpec, tightestFit bool) (evaluator.Placement, bool) {
	gpus := view.Cluster.FilterGPUs(node, task)
	if len(gpus) < task.NumGPU {
		return evaluator.Placement{}, false
	}

	var chosen []int
	if task.SingleGPU() {
		if tightestFit {
			best := gpus[0]
			for _, g := range gpus[1:] {
				if g.Residual < best.Residual {
					best = g
				}
			}
			chosen = []int{best.Index}
		} else {
			chosen = []int{gpus[0].Index}
		}
	} else {
		chosen = firstIndices(gpus, task.NumGPU)
	}

	return evaluator.Placement{NodeID: node.Spec.ID, GPUs: chosen}, true
}

func firstIndices(candidates []cluster.GPUCandidate, n int) []int {
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = candidates[i].Index
	}
	return out
}
