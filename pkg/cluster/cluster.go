// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package cluster implements the cluster state engine: per-node
// residual tracking, the node/GPU filtering predicates, and binding,
// per spec.md §4.1.
package cluster

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/openb-trace/gpu-sched-sim/pkg/simspec"
)

// GPUCandidate is one entry yielded by FilterGPUs: a GPU index on a
// node, paired with its current residual share.
type GPUCandidate struct {
	Index    int
	Residual int64
}

// Cluster holds the mutable per-round NodeInfo vector for one
// simulation run, plus the aggregate NodeMetrics spec.md §4.1
// describes. It is owned by the Evaluator for the run's duration.
type Cluster struct {
	name string
	log  *zap.SugaredLogger

	specs []*simspec.NodeSpec
	nodes []*simspec.NodeInfo

	// minFragThreshold is the smallest single-GPU gpu_milli request in
	// the workload catalog, used to classify stranded GPU capacity.
	// See SPEC_FULL.md's fragmentation decision.
	minFragThreshold int64

	rng *rand.Rand

	metrics NodeMetrics
}

// New builds a Cluster from a fixed NodeSpec vector. minFragThreshold
// is the workload's smallest single-GPU request (Workload.MinSingleGPUMilli);
// pass 0 to disable fragmentation accounting entirely.
func New(name string, specs []*simspec.NodeSpec, minFragThreshold int64, rng *rand.Rand, log *zap.SugaredLogger) *Cluster {
	c := &Cluster{
		name:             name,
		log:              log,
		specs:            specs,
		minFragThreshold: minFragThreshold,
		rng:              rng,
	}
	c.Reset()
	return c
}

// Name returns the cluster's display name.
func (c *Cluster) Name() string { return c.name }

// Rng returns the cluster's PRNG, shared by schedulers that need
// randomness when evaluating a task against this cluster snapshot.
func (c *Cluster) Rng() *rand.Rand { return c.rng }

// Nodes returns the current per-round node vector, in NodeSpec
// insertion order. Callers must not mutate entries directly; all
// mutation goes through Bind.
func (c *Cluster) Nodes() []*simspec.NodeInfo { return c.nodes }

// Metrics returns a snapshot of the current aggregate NodeMetrics.
func (c *Cluster) Metrics() NodeMetrics { return c.metrics }

// FilterNodes returns the nodes capable of hosting task: those
// passing the scalar, GPU-capacity, and model predicates of spec.md
// §4.1. The result is a fresh slice in node insertion order; it does
// not alias Cluster state, so it may be kept across mutations of the
// cluster (though the NodeInfo pointers it holds will reflect later
// binds, by design).
func (c *Cluster) FilterNodes(task *simspec.PodSpec) []*simspec.NodeInfo {
	var out []*simspec.NodeInfo
	for _, node := range c.nodes {
		if nodeFits(node, task) {
			out = append(out, node)
		}
	}
	return out
}

func nodeFits(node *simspec.NodeInfo, task *simspec.PodSpec) bool {
	scalarFits := task.CPUMilli <= node.CPURem && task.MemoryMiB <= node.MemRem
	if !scalarFits {
		return false
	}

	if !gpuCapacityFits(node, task) {
		return false
	}

	return task.Model.IsEmpty() || task.Model.Intersects(node.Spec.Model)
}

func gpuCapacityFits(node *simspec.NodeInfo, task *simspec.PodSpec) bool {
	if task.SingleGPU() {
		for _, rem := range node.GPURem {
			if rem >= task.GPUMilli {
				return true
			}
		}
		return false
	}
	return node.GPUFull >= task.NumGPU
}

// FilterGPUs returns the GPU entries on node capable of hosting task:
// for a single-GPU task, every entry with enough residual share; for
// a multi-GPU task, every fully-free entry. Index order is the node's
// natural GPU order.
func (c *Cluster) FilterGPUs(node *simspec.NodeInfo, task *simspec.PodSpec) []GPUCandidate {
	var out []GPUCandidate
	for i, rem := range node.GPURem {
		if task.SingleGPU() {
			if rem >= task.GPUMilli {
				out = append(out, GPUCandidate{Index: i, Residual: rem})
			}
		} else if rem == simspec.GpuMilli {
			out = append(out, GPUCandidate{Index: i, Residual: rem})
		}
	}
	return out
}

// Bind applies a scheduling decision to the cluster: task is placed
// on the node with the given NodeSpec.ID, consuming the given GPU
// indices. gpus must have exactly task.NumGPU entries and must
// satisfy the same predicates FilterGPUs would report; any violation
// is a programmer error in the calling scheduler (spec.md §7) and
// Bind panics rather than returning a recoverable error.
func (c *Cluster) Bind(task *simspec.PodSpec, nodeID int, gpus []int) {
	node := c.nodeByID(nodeID)
	if node == nil {
		panic(fmt.Sprintf("cluster: bind: no such node id %d", nodeID))
	}
	if len(gpus) != task.NumGPU {
		panic(fmt.Sprintf("cluster: bind: task %d wants %d gpus, got %d indices", task.ID, task.NumGPU, len(gpus)))
	}
	if task.CPUMilli > node.CPURem || task.MemoryMiB > node.MemRem {
		panic(fmt.Sprintf("cluster: bind: task %d does not fit node %d on cpu/mem", task.ID, nodeID))
	}

	node.CPURem -= task.CPUMilli
	node.MemRem -= task.MemoryMiB

	if task.SingleGPU() {
		g := gpus[0]
		if g < 0 || g >= len(node.GPURem) || node.GPURem[g] < task.GPUMilli {
			panic(fmt.Sprintf("cluster: bind: task %d gpu index %d has insufficient residual on node %d", task.ID, g, nodeID))
		}
		node.GPURem[g] -= task.GPUMilli
	} else {
		for _, g := range gpus {
			if g < 0 || g >= len(node.GPURem) || node.GPURem[g] != simspec.GpuMilli {
				panic(fmt.Sprintf("cluster: bind: task %d gpu index %d is not fully free on node %d", task.ID, g, nodeID))
			}
		}
		for _, g := range gpus {
			node.GPURem[g] = 0
		}
	}

	fragBefore := node.GPUFrag
	node.RecomputeGPUCounters(c.minFragThreshold)

	c.metrics.GPUUnallocated -= task.GPUMilli
	c.metrics.FragTotal += node.GPUFrag - fragBefore
	c.metrics.recompute()

	c.log.Debugw("bound task",
		"task", task.ID, "node", nodeID, "gpus", gpus,
		"alloc_rate", c.metrics.AllocRate, "frag_rate", c.metrics.FragRate)
}

// Reset rebuilds every NodeInfo from its NodeSpec and zeroes the
// mutable metrics, preserving node vector order and ids.
func (c *Cluster) Reset() {
	nodes := make([]*simspec.NodeInfo, len(c.specs))

	var metrics NodeMetrics
	for i, spec := range c.specs {
		node := simspec.NewNodeInfo(spec)
		node.RecomputeGPUCounters(c.minFragThreshold)
		nodes[i] = node

		metrics.GPUTotal += spec.GPUMilli
		metrics.GPUUnallocated += spec.GPUMilli
	}
	metrics.recompute()

	c.nodes = nodes
	c.metrics = metrics
}

func (c *Cluster) nodeByID(id int) *simspec.NodeInfo {
	for _, n := range c.nodes {
		if n.Spec.ID == id {
			return n
		}
	}
	return nil
}

// Summary renders a multi-line dump of every node's residual state,
// ported from the original source's Display impl for ClusterStruct.
func (c *Cluster) Summary() string {
	s := fmt.Sprintf("Cluster (%s)\n", c.name)
	for _, node := range c.nodes {
		s += node.String() + "\n"
	}
	return s
}
