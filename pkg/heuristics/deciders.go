// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package heuristics

import "github.com/openb-trace/gpu-sched-sim/pkg/evaluator"

// MaxDelayedFactory builds a Decider that ends the round once the
// workload's cumulative TasksDelayed round counter reaches limit.
func MaxDelayedFactory(limit int) evaluator.Decider {
	return evaluator.DeciderFunc(func(view *evaluator.View) bool {
		return view.Workload.Metrics().TasksDelayed >= limit
	})
}

// MaxArrived builds a Decider that ends the round once the workload's
// cumulative TasksArrived round counter reaches n, with a release
// valve: if TasksDelayed has reached valveLimit the round ends early
// regardless of n, preventing a workload stuck delaying every sample
// from stalling on an arrival count it will never hit.
func MaxArrived(n, valveLimit int) evaluator.Decider {
	return evaluator.DeciderFunc(func(view *evaluator.View) bool {
		metrics := view.Workload.Metrics()
		if valveLimit > 0 && metrics.TasksDelayed >= valveLimit {
			return true
		}
		return metrics.TasksArrived >= n
	})
}

// FixedArrivals builds a Decider that ends the round after exactly n
// tasks have been drawn, with no release valve. Intended for small,
// deterministic test scenarios (SPEC_FULL.md's supplemented features)
// rather than production-scale runs, where MaxArrived's valve matters.
func FixedArrivals(n int) evaluator.Decider {
	count := 0
	return evaluator.DeciderFunc(func(_ *evaluator.View) bool {
		count++
		return count >= n
	})
}
