// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package workload implements the workload engine: the sampled task
// catalog and the two-phase backlog described in spec.md §4.2.
package workload

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/openb-trace/gpu-sched-sim/pkg/simspec"
)

// Workload holds the sampled task catalog, the occurrence-count index
// used for P5, and the two-phase backlog of delayed tasks.
type Workload struct {
	name string
	log  *zap.SugaredLogger
	rng  *rand.Rand

	tasks     []*simspec.PodSpec
	taskCount map[simspec.PodSpecKey]int

	minSingleGPUMilli int64

	backlog      []*simspec.PodSpec
	drainBacklog bool

	metrics TaskMetrics
}

// New builds a Workload from a pre-loaded task catalog (e.g. from
// ingest.PodSpecs), indexing occurrence counts by value per spec.md
// invariant 6.
func New(name string, tasks []*simspec.PodSpec, rng *rand.Rand, log *zap.SugaredLogger) *Workload {
	w := &Workload{
		name:      name,
		log:       log,
		rng:       rng,
		tasks:     tasks,
		taskCount: make(map[simspec.PodSpecKey]int, len(tasks)),
	}

	var minGPU int64 = -1
	for _, t := range tasks {
		w.taskCount[t.Key()]++
		if t.SingleGPU() && t.GPUMilli > 0 && (minGPU < 0 || t.GPUMilli < minGPU) {
			minGPU = t.GPUMilli
		}
	}
	if minGPU < 0 {
		minGPU = 0
	}
	w.minSingleGPUMilli = minGPU

	return w
}

// MinSingleGPUMilli returns the smallest single-GPU gpu_milli request
// observed in the task catalog at load time, or 0 if no single-GPU
// task was loaded. Used to drive the fragmentation metric decision in
// SPEC_FULL.md.
func (w *Workload) MinSingleGPUMilli() int64 { return w.minSingleGPUMilli }

// NextTask implements spec.md §4.2: while drain_backlog is set and
// the backlog is non-empty, pop-front from the backlog (without
// counting as an arrival); otherwise sample uniformly from the
// catalog and count it as an arrival.
func (w *Workload) NextTask() *simspec.PodSpec {
	if w.drainBacklog && len(w.backlog) > 0 {
		task := w.backlog[0]
		w.backlog = w.backlog[1:]
		if len(w.backlog) == 0 {
			w.drainBacklog = false
		}
		return task
	}

	task := w.tasks[w.rng.Intn(len(w.tasks))]
	w.metrics.TasksArrived++
	return task
}

// PushBacklog adds task to the end of the backlog and clears
// drain_backlog, so an in-round delay is not immediately re-drained
// the same round (spec.md §4.2).
func (w *Workload) PushBacklog(task *simspec.PodSpec) {
	w.drainBacklog = false
	w.backlog = append(w.backlog, task)
}

// RecordScheduled accounts for a successfully bound task.
func (w *Workload) RecordScheduled(task *simspec.PodSpec) {
	w.metrics.TasksScheduled++
	w.metrics.TotalCPU += task.CPUMilli
	w.metrics.TotalMem += task.MemoryMiB
	w.metrics.TotalGPU += task.GPUMilli
}

// RecordDelayed accounts for a task that failed to schedule this
// round.
func (w *Workload) RecordDelayed(task *simspec.PodSpec) {
	w.metrics.TasksDelayed++
}

// Deploy ends the round: it arms drain_backlog for the next round
// (the backlog itself is consumed lazily, not cleared here), returns
// this round's TaskMetrics, and resets them to zero.
func (w *Workload) Deploy() TaskMetrics {
	w.drainBacklog = true

	metrics := w.metrics
	w.metrics = TaskMetrics{}

	w.log.Debugw("workload deployed",
		"arrived", metrics.TasksArrived, "scheduled", metrics.TasksScheduled, "delayed", metrics.TasksDelayed,
		"backlog_len", len(w.backlog))

	return metrics
}

// Metrics returns a snapshot of the current round's TaskMetrics, not
// yet reset by Deploy. Deciders read this to check cumulative
// round counters (e.g. tasks_delayed, tasks_arrived) mid-round.
func (w *Workload) Metrics() TaskMetrics { return w.metrics }

// TaskCount returns the number of catalog rows with the same data
// shape as task, ignoring its id (spec.md invariant 6 / P5).
func (w *Workload) TaskCount(task *simspec.PodSpec) int {
	return w.taskCount[task.Key()]
}

// TaskFrequency returns TaskCount divided by the catalog size.
func (w *Workload) TaskFrequency(task *simspec.PodSpec) float64 {
	if len(w.tasks) == 0 {
		return 0
	}
	return float64(w.TaskCount(task)) / float64(len(w.tasks))
}

// BacklogLen returns the current backlog length.
func (w *Workload) BacklogLen() int { return len(w.backlog) }

// Summary renders the backlog contents and a task-count histogram,
// ported from the original source's Display impl for Workload.
func (w *Workload) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workload (%s)\n", w.name)
	fmt.Fprintf(&b, "Backlog -- %d tasks\n", len(w.backlog))
	for _, t := range w.backlog {
		fmt.Fprintln(&b, t.String())
	}

	keys := maps.Keys(w.taskCount)
	sort.Slice(keys, func(i, j int) bool { return w.taskCount[keys[i]] > w.taskCount[keys[j]] })

	fmt.Fprintf(&b, "Task Counts -- %d total, %d unique\n", len(w.tasks), len(keys))
	for _, k := range keys {
		fmt.Fprintf(&b, "\t%-4d -->\t%+v\n", w.taskCount[k], k)
	}

	return b.String()
}
