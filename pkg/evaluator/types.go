// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package evaluator implements the round-based driver described in
// spec.md §4.4: it invokes the pluggable Scheduler and Decider for
// each task, applies bindings, aggregates metrics, and resets the
// cluster between rounds.
package evaluator

import (
	"github.com/openb-trace/gpu-sched-sim/pkg/cluster"
	"github.com/openb-trace/gpu-sched-sim/pkg/simspec"
	"github.com/openb-trace/gpu-sched-sim/pkg/workload"
)

//go:generate go run go.uber.org/mock/mockgen -source=types.go -destination=mocks_test.go -package=evaluator_test

// Placement is a scheduler's answer for a task it accepted: the
// NodeSpec.ID to bind to and the GPU indices to consume on it.
type Placement struct {
	NodeID int
	GPUs   []int
}

// View is the read-only handle a Scheduler or Decider receives each
// call. It exposes the live Cluster and Workload without granting
// mutation access outside Cluster.Bind/Workload's own recording
// methods, per spec.md §4.3's "may read but must not mutate" contract
// and the one-way-ownership design note in spec.md §9.
type View struct {
	Cluster  *cluster.Cluster
	Workload *workload.Workload
}

// Scheduler picks a (node, gpu-set) placement for task, or reports no
// placement could be found. Implementations must only return
// placements that satisfy Cluster.FilterNodes/FilterGPUs for the same
// task; a placement that doesn't is a programmer error that Bind will
// panic on (spec.md §7).
type Scheduler interface {
	Schedule(view *View, task *simspec.PodSpec) (Placement, bool)
}

// SchedulerFunc adapts a plain function to the Scheduler interface,
// the way http.HandlerFunc adapts a function to http.Handler.
type SchedulerFunc func(view *View, task *simspec.PodSpec) (Placement, bool)

func (f SchedulerFunc) Schedule(view *View, task *simspec.PodSpec) (Placement, bool) { return f(view, task) }

// Decider reports whether the current round should end.
type Decider interface {
	Done(view *View) bool
}

// DeciderFunc adapts a plain function to the Decider interface.
type DeciderFunc func(view *View) bool

func (f DeciderFunc) Done(view *View) bool { return f(view) }
