// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package cluster_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/openb-trace/gpu-sched-sim/pkg/cluster"
	"github.com/openb-trace/gpu-sched-sim/pkg/simspec"
)

func newTestCluster(specs []*simspec.NodeSpec, minFrag int64) *cluster.Cluster {
	return cluster.New("test", specs, minFrag, rand.New(rand.NewSource(1)), zap.NewNop().Sugar())
}

var _ = Describe("Cluster", func() {

	Describe("scenario 1: single-node single-GPU fractional bind", func() {
		It("matches spec.md §8 scenario 1 exactly", func() {
			spec := simspec.NewNodeSpec(0, 64000, 262144, 2, simspec.GpuP100)
			c := newTestCluster([]*simspec.NodeSpec{spec}, 0)

			task := simspec.NewPodSpec(0, 4000, 10600, 1, 810, 0)

			c.Bind(task, 0, []int{0})

			node := c.Nodes()[0]
			Expect(node.GPURem).To(Equal([]int64{190, 1000}))
			Expect(node.GPUFull).To(Equal(1))
			Expect(node.GPUPart).To(Equal(int64(190)))
			Expect(node.GPUUnallocated).To(Equal(int64(1190)))
		})
	})

	Describe("scenario 2: multi-GPU whole bind", func() {
		It("matches spec.md §8 scenario 2 exactly", func() {
			spec := simspec.NewNodeSpec(0, 128000, 786432, 8, simspec.GpuG3)
			c := newTestCluster([]*simspec.NodeSpec{spec}, 0)

			task := simspec.NewPodSpec(0, 32200, 132096, 4, 1000, 0)

			c.Bind(task, 0, []int{0, 1, 2, 3})

			node := c.Nodes()[0]
			Expect(node.GPURem).To(Equal([]int64{0, 0, 0, 0, 1000, 1000, 1000, 1000}))
			Expect(node.GPUFull).To(Equal(4))
			Expect(node.GPUPart).To(Equal(int64(0)))
			Expect(node.GPUUnallocated).To(Equal(int64(4000)))
		})
	})

	Describe("scenario 3: model filter reject", func() {
		It("excludes a node whose model doesn't intersect the task's", func() {
			spec := simspec.NewNodeSpec(0, 64000, 262144, 2, simspec.GpuP100)
			c := newTestCluster([]*simspec.NodeSpec{spec}, 0)

			task := simspec.NewPodSpec(0, 1000, 1000, 1, 500, simspec.GpuT4)

			Expect(c.FilterNodes(task)).To(BeEmpty())
		})
	})

	Describe("FilterNodes (P3)", func() {
		It("only yields nodes satisfying all three predicates", func() {
			fits := simspec.NewNodeSpec(0, 64000, 262144, 2, simspec.GpuP100)
			tooSmallCPU := simspec.NewNodeSpec(1, 100, 262144, 2, 0)
			wrongModel := simspec.NewNodeSpec(2, 64000, 262144, 2, simspec.GpuT4)

			c := newTestCluster([]*simspec.NodeSpec{fits, tooSmallCPU, wrongModel}, 0)
			task := simspec.NewPodSpec(0, 4000, 1000, 1, 500, simspec.GpuP100)

			got := c.FilterNodes(task)
			Expect(got).To(HaveLen(1))
			Expect(got[0].Spec.ID).To(Equal(0))
		})
	})

	Describe("Bind then FilterGPUs (P1, P2)", func() {
		It("keeps residuals in range and counters consistent after a bind", func() {
			spec := simspec.NewNodeSpec(0, 64000, 262144, 3, 0)
			c := newTestCluster([]*simspec.NodeSpec{spec}, 0)

			task := simspec.NewPodSpec(0, 1000, 1000, 1, 700, 0)
			c.Bind(task, 0, []int{0})

			node := c.Nodes()[0]
			for _, r := range node.GPURem {
				Expect(r).To(BeNumerically(">=", 0))
				Expect(r).To(BeNumerically("<=", simspec.GpuMilli))
			}
			var sum int64
			for _, r := range node.GPURem {
				sum += r
			}
			Expect(sum).To(Equal(node.GPUUnallocated))
			Expect(node.CPURem).To(BeNumerically(">=", 0))
			Expect(node.MemRem).To(BeNumerically(">=", 0))
		})
	})

	Describe("Reset (P6, R1)", func() {
		It("restores full residuals and is idempotent", func() {
			spec := simspec.NewNodeSpec(0, 64000, 262144, 2, 0)
			c := newTestCluster([]*simspec.NodeSpec{spec}, 0)

			task := simspec.NewPodSpec(0, 4000, 1000, 1, 500, 0)
			c.Bind(task, 0, []int{0})

			c.Reset()
			c.Reset()

			node := c.Nodes()[0]
			Expect(node.CPURem).To(Equal(spec.CPUMilli))
			Expect(node.MemRem).To(Equal(spec.MemoryMiB))
			Expect(node.GPURem).To(Equal([]int64{1000, 1000}))
		})
	})

	Describe("Bind (R2)", func() {
		It("reduces cluster gpu_unallocated by exactly the task's gpu_milli", func() {
			specs := []*simspec.NodeSpec{
				simspec.NewNodeSpec(0, 64000, 262144, 4, 0),
			}
			c := newTestCluster(specs, 0)

			before := c.Metrics().GPUUnallocated
			task := simspec.NewPodSpec(0, 1000, 1000, 2, 1000, 0)
			c.Bind(task, 0, []int{0, 1})
			after := c.Metrics().GPUUnallocated

			Expect(before - after).To(Equal(task.GPUMilli))
		})
	})

	Describe("Bind preconditions", func() {
		It("panics when the gpu index list has the wrong length", func() {
			spec := simspec.NewNodeSpec(0, 64000, 262144, 2, 0)
			c := newTestCluster([]*simspec.NodeSpec{spec}, 0)
			task := simspec.NewPodSpec(0, 1000, 1000, 2, 1000, 0)

			Expect(func() { c.Bind(task, 0, []int{0}) }).To(Panic())
		})

		It("panics when a multi-gpu index is not fully free", func() {
			spec := simspec.NewNodeSpec(0, 64000, 262144, 2, 0)
			c := newTestCluster([]*simspec.NodeSpec{spec}, 0)
			task := simspec.NewPodSpec(0, 1000, 1000, 1, 500, 0)
			c.Bind(task, 0, []int{0})

			multi := simspec.NewPodSpec(1, 1000, 1000, 2, 1000, 0)
			Expect(func() { c.Bind(multi, 0, []int{0, 1}) }).To(Panic())
		})
	})

	Describe("fragmentation accounting", func() {
		It("counts a nonzero residual below the catalog's smallest single-GPU request as fragmented", func() {
			spec := simspec.NewNodeSpec(0, 64000, 262144, 1, 0)
			minFrag := int64(500)
			c := newTestCluster([]*simspec.NodeSpec{spec}, minFrag)

			task := simspec.NewPodSpec(0, 1000, 1000, 1, 900, 0)
			c.Bind(task, 0, []int{0})

			Expect(c.Nodes()[0].GPUFrag).To(Equal(int64(100)))
			Expect(c.Metrics().FragTotal).To(Equal(int64(100)))
		})

		It("does not count a residual at or above the threshold", func() {
			spec := simspec.NewNodeSpec(0, 64000, 262144, 1, 0)
			minFrag := int64(100)
			c := newTestCluster([]*simspec.NodeSpec{spec}, minFrag)

			task := simspec.NewPodSpec(0, 1000, 1000, 1, 900, 0)
			c.Bind(task, 0, []int{0})

			Expect(c.Nodes()[0].GPUFrag).To(Equal(int64(0)))
		})
	})
})
