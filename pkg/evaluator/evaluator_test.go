// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package evaluator_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/openb-trace/gpu-sched-sim/pkg/cluster"
	"github.com/openb-trace/gpu-sched-sim/pkg/evaluator"
	"github.com/openb-trace/gpu-sched-sim/pkg/simspec"
	"github.com/openb-trace/gpu-sched-sim/pkg/workload"
)

func newFixture(t *testing.T) (*cluster.Cluster, *workload.Workload) {
	t.Helper()

	specs := []*simspec.NodeSpec{
		simspec.NewNodeSpec(0, 64000, 262144, 2, 0),
	}
	tasks := []*simspec.PodSpec{
		simspec.NewPodSpec(0, 1000, 1000, 1, 300, 0),
	}

	rng := rand.New(rand.NewSource(7))
	log := zap.NewNop().Sugar()

	wl := workload.New("w", tasks, rng, log)
	cl := cluster.New("c", specs, wl.MinSingleGPUMilli(), rng, log)
	return cl, wl
}

func TestEvaluatorRunsDecidedRounds(t *testing.T) {
	cl, wl := newFixture(t)
	log := zap.NewNop().Sugar()

	ctrl := gomock.NewController(t)
	scheduler := NewMockScheduler(ctrl)
	decider := NewMockDecider(ctrl)

	// Accept every task on node 0, gpu 0.
	scheduler.EXPECT().Schedule(gomock.Any(), gomock.Any()).
		Return(evaluator.Placement{NodeID: 0, GPUs: []int{0}}, true).
		Times(3)

	// End the round after exactly 3 tasks.
	calls := 0
	decider.EXPECT().Done(gomock.Any()).DoAndReturn(func(_ *evaluator.View) bool {
		calls++
		return calls >= 3
	}).Times(3)

	ev := evaluator.New(scheduler, decider, wl, cl, 1, log)
	report := ev.Evaluate()

	require.Len(t, report.Rounds, 1)
	assert.Equal(t, 3, report.Rounds[0].Task.TasksScheduled)
	assert.Equal(t, 0, report.Rounds[0].Task.TasksDelayed)
}

func TestEvaluatorDelaysPushToBacklog(t *testing.T) {
	cl, wl := newFixture(t)
	log := zap.NewNop().Sugar()

	ctrl := gomock.NewController(t)
	scheduler := NewMockScheduler(ctrl)
	decider := NewMockDecider(ctrl)

	scheduler.EXPECT().Schedule(gomock.Any(), gomock.Any()).
		Return(evaluator.Placement{}, false).
		Times(2)
	decider.EXPECT().Done(gomock.Any()).Return(false).Times(1)
	decider.EXPECT().Done(gomock.Any()).Return(true).Times(1)

	ev := evaluator.New(scheduler, decider, wl, cl, 1, log)
	report := ev.Evaluate()

	assert.Equal(t, 2, report.Rounds[0].Task.TasksDelayed)
	assert.Equal(t, 0, report.Rounds[0].Task.TasksScheduled)
	assert.Equal(t, 2, wl.BacklogLen())
}

func TestEvaluatorResetsClusterBetweenRounds(t *testing.T) {
	cl, wl := newFixture(t)
	log := zap.NewNop().Sugar()

	ctrl := gomock.NewController(t)
	scheduler := NewMockScheduler(ctrl)
	decider := NewMockDecider(ctrl)

	scheduler.EXPECT().Schedule(gomock.Any(), gomock.Any()).
		Return(evaluator.Placement{NodeID: 0, GPUs: []int{0}}, true).
		AnyTimes()
	decider.EXPECT().Done(gomock.Any()).Return(true).AnyTimes()

	ev := evaluator.New(scheduler, decider, wl, cl, 2, log)
	report := ev.Evaluate()

	require.Len(t, report.Rounds, 2)
	// Every round starts from a fresh cluster, so each round's final
	// unallocated reading should be identical.
	assert.Equal(t, report.Rounds[0].Node.GPUUnallocated, report.Rounds[1].Node.GPUUnallocated)
}
