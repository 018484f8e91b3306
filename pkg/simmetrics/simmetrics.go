// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package simmetrics exposes per-round cluster and workload metrics as
// Prometheus gauges, served over HTTP when a scenario enables it
// (SPEC_FULL.md's DOMAIN STACK section).
package simmetrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openb-trace/gpu-sched-sim/pkg/evaluator"
)

const namespace = "gpu_sched_sim"

// Registry owns the collectors for one Evaluator run and the HTTP
// server (if any) exposing them.
type Registry struct {
	registry *prometheus.Registry

	round          prometheus.Gauge
	tasksScheduled prometheus.Gauge
	tasksDelayed   prometheus.Gauge
	tasksArrived   prometheus.Gauge
	gpuUnallocated prometheus.Gauge
	gpuFragmented  prometheus.Gauge
	allocRate      prometheus.Gauge
	fragRate       prometheus.Gauge
	backlogLen     prometheus.Gauge
}

// NewRegistry builds a fresh Registry with its own prometheus.Registry,
// so multiple Evaluator runs in the same process never collide on
// collector names.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.round = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "round", Help: "Index of the most recently completed round.",
	})
	r.tasksScheduled = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "tasks_scheduled", Help: "Tasks scheduled in the most recent round.",
	})
	r.tasksDelayed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "tasks_delayed", Help: "Tasks delayed in the most recent round.",
	})
	r.tasksArrived = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "tasks_arrived", Help: "Tasks arrived in the most recent round.",
	})
	r.gpuUnallocated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "gpu_unallocated_milli", Help: "Residual GPU milli-share left unallocated.",
	})
	r.gpuFragmented = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "gpu_fragmented_milli", Help: "Residual GPU milli-share stranded below the catalog's smallest request.",
	})
	r.allocRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "alloc_rate", Help: "Fraction of total GPU capacity currently allocated.",
	})
	r.fragRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "frag_rate", Help: "Fraction of unallocated GPU capacity stranded as fragmentation.",
	})
	r.backlogLen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "backlog_length", Help: "Tasks currently parked in the workload backlog.",
	})

	r.registry.MustRegister(
		r.round, r.tasksScheduled, r.tasksDelayed, r.tasksArrived,
		r.gpuUnallocated, r.gpuFragmented, r.allocRate, r.fragRate, r.backlogLen,
	)

	return r
}

// Observe updates every gauge except the backlog length from one
// round's report.
func (r *Registry) Observe(roundIndex int, report evaluator.RoundReport) {
	r.round.Set(float64(roundIndex))
	r.tasksScheduled.Set(float64(report.Task.TasksScheduled))
	r.tasksDelayed.Set(float64(report.Task.TasksDelayed))
	r.tasksArrived.Set(float64(report.Task.TasksArrived))
	r.gpuUnallocated.Set(float64(report.Node.GPUUnallocated))
	r.gpuFragmented.Set(float64(report.Node.FragTotal))
	r.allocRate.Set(report.Node.AllocRate)
	r.fragRate.Set(report.Node.FragRate)
}

// ObserveBacklog records the workload's current backlog length,
// separate from Observe since it is sampled outside a RoundReport.
func (r *Registry) ObserveBacklog(n int) {
	r.backlogLen.Set(float64(n))
}

// Serve starts an HTTP server exposing the registry's collectors at
// /metrics on addr. It runs until ctx is canceled, at which point it
// shuts the server down gracefully.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
