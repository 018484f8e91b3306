// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package evaluator

import (
	"github.com/xyproto/randomstring"
	"go.uber.org/zap"

	"github.com/openb-trace/gpu-sched-sim/pkg/cluster"
	"github.com/openb-trace/gpu-sched-sim/pkg/workload"
)

// RoundReport bundles one round's task and cluster metrics, returned
// by runRound per spec.md §4.4's `(workload.deploy(), cluster.deploy())`.
type RoundReport struct {
	Task workload.TaskMetrics
	Node cluster.NodeMetrics
}

// Report is Evaluate's overall result: the running averages described
// in spec.md §4.4, plus the per-round reports in order.
type Report struct {
	RunID string

	Rounds []RoundReport

	AvgTasksScheduled float64
	AvgGPUUnallocated float64
	FinalAllocRate    float64
}

// Evaluator drives the round loop of spec.md §4.4: it owns the
// Cluster and Workload for the run, invokes the scheduler and decider
// callbacks, and aggregates metrics across NumLoops rounds.
type Evaluator struct {
	log *zap.SugaredLogger

	scheduler Scheduler
	decider   Decider

	workload *workload.Workload
	cluster  *cluster.Cluster

	numLoops int
}

// DefaultNumLoops is the spec.md §4.4 default round count.
const DefaultNumLoops = 100

// New builds an Evaluator over a shared Workload/Cluster pair. Callers
// construct the Workload and Cluster themselves (ingest -> simspec ->
// workload.New / cluster.New) so the same catalog and node vector can
// be reused across independent Evaluator instances if desired.
func New(scheduler Scheduler, decider Decider, wl *workload.Workload, cl *cluster.Cluster, numLoops int, log *zap.SugaredLogger) *Evaluator {
	if numLoops <= 0 {
		numLoops = DefaultNumLoops
	}
	return &Evaluator{
		log:       log,
		scheduler: scheduler,
		decider:   decider,
		workload:  wl,
		cluster:   cl,
		numLoops:  numLoops,
	}
}

func (e *Evaluator) view() *View {
	return &View{Cluster: e.cluster, Workload: e.workload}
}

// runRound executes spec.md §4.4's per-round algorithm once: sample
// tasks, apply the scheduler's decision or delay, and stop when the
// decider says so. It resets the cluster before returning so the next
// round starts from a clean slate.
func (e *Evaluator) runRound() RoundReport {
	view := e.view()

	for {
		task := e.workload.NextTask()

		if placement, ok := e.scheduler.Schedule(view, task); ok {
			e.cluster.Bind(task, placement.NodeID, placement.GPUs)
			e.workload.RecordScheduled(task)
		} else {
			e.workload.PushBacklog(task)
			e.workload.RecordDelayed(task)
		}

		if e.decider.Done(view) {
			break
		}
	}

	report := RoundReport{
		Task: e.workload.Deploy(),
		Node: e.cluster.Metrics(),
	}

	e.cluster.Reset()

	return report
}

// Evaluate runs NumLoops rounds and returns the averaged report
// described in spec.md §4.4, using the incremental running-average
// update avg <- ((n-1)/n)*avg + x/n for the n-th round, with avg := x
// at n==1.
func (e *Evaluator) Evaluate() Report {
	runID := randomstring.HumanFriendlyEnglishString(8)
	e.log.Infow("starting evaluation", "run_id", runID, "rounds", e.numLoops)

	var report Report
	report.RunID = runID
	report.Rounds = make([]RoundReport, 0, e.numLoops)

	var avgScheduled, avgUnallocated float64
	var gpuTotal int64

	for n := 1; n <= e.numLoops; n++ {
		round := e.runRound()
		report.Rounds = append(report.Rounds, round)
		gpuTotal = round.Node.GPUTotal

		scheduled := float64(round.Task.TasksScheduled)
		unallocated := float64(round.Node.GPUUnallocated)

		if n == 1 {
			avgScheduled = scheduled
			avgUnallocated = unallocated
		} else {
			weight := float64(n-1) / float64(n)
			avgScheduled = weight*avgScheduled + scheduled/float64(n)
			avgUnallocated = weight*avgUnallocated + unallocated/float64(n)
		}

		e.log.Debugw("round complete", "run_id", runID, "round", n,
			"scheduled", round.Task.TasksScheduled, "delayed", round.Task.TasksDelayed)
	}

	report.AvgTasksScheduled = avgScheduled
	report.AvgGPUUnallocated = avgUnallocated
	if gpuTotal > 0 {
		report.FinalAllocRate = 1 - avgUnallocated/float64(gpuTotal)
	}

	e.log.Infow("evaluation complete", "run_id", runID,
		"avg_scheduled", report.AvgTasksScheduled, "final_alloc_rate", report.FinalAllocRate)

	return report
}
