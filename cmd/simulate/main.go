// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// simulate runs an offline GPU-cluster scheduling simulation: it
// ingests a node/pod CSV scenario, drives the evaluator's round loop
// against a chosen scheduler/decider pair, and prints the aggregated
// report, per spec.md §6.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/openb-trace/gpu-sched-sim/pkg/cluster"
	"github.com/openb-trace/gpu-sched-sim/pkg/evaluator"
	"github.com/openb-trace/gpu-sched-sim/pkg/heuristics"
	"github.com/openb-trace/gpu-sched-sim/pkg/ingest"
	"github.com/openb-trace/gpu-sched-sim/pkg/runconfig"
	"github.com/openb-trace/gpu-sched-sim/pkg/simlog"
	"github.com/openb-trace/gpu-sched-sim/pkg/simmetrics"
	"github.com/openb-trace/gpu-sched-sim/pkg/workload"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	options := runconfig.InitOptions(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if err := runconfig.Load(options, fs); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}

	log := simlog.New(options.Verbose)
	defer log.Sync() //nolint:errcheck

	if err := run(options, log); err != nil {
		log.Errorw("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(options *runconfig.Options, log *zap.SugaredLogger) error {
	nodeFile, err := os.Open(options.NodeCSVPath)
	if err != nil {
		return fmt.Errorf("open node csv: %w", err)
	}
	defer nodeFile.Close()

	podFile, err := os.Open(options.PodCSVPath)
	if err != nil {
		return fmt.Errorf("open pod csv: %w", err)
	}
	defer podFile.Close()

	nodeSpecs, err := ingest.NodeSpecs(nodeFile)
	if err != nil {
		return fmt.Errorf("parse node csv: %w", err)
	}
	podSpecs, err := ingest.PodSpecs(podFile)
	if err != nil {
		return fmt.Errorf("parse pod csv: %w", err)
	}

	seed := options.Seed
	if !options.HasSeed {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	wl := workload.New("scenario", podSpecs, rng, log)
	cl := cluster.New("scenario", nodeSpecs, wl.MinSingleGPUMilli(), rng, log)

	scheduler, err := heuristics.Scheduler(options.Scheduler)
	if err != nil {
		return err
	}
	decider, err := heuristics.Decider(options.Decider, options.DeciderArg, options.ValveLimit)
	if err != nil {
		return err
	}

	ev := evaluator.New(scheduler, decider, wl, cl, options.NumLoops, log)

	if options.MetricsAddr != "" {
		reg := simmetrics.NewRegistry()
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		go func() {
			if err := reg.Serve(ctx, options.MetricsAddr); err != nil {
				log.Errorw("metrics server stopped", "error", err)
			}
		}()

		report := ev.Evaluate()
		for i, round := range report.Rounds {
			reg.Observe(i, round)
		}
		printReport(report)
		return nil
	}

	report := ev.Evaluate()
	printReport(report)
	return nil
}

func printReport(report evaluator.Report) {
	fmt.Printf("run %s: %d rounds\n", report.RunID, len(report.Rounds))
	fmt.Printf("avg tasks scheduled/round: %.2f\n", report.AvgTasksScheduled)
	fmt.Printf("avg gpu unallocated/round: %.2f\n", report.AvgGPUUnallocated)
	fmt.Printf("final allocation rate:     %.4f\n", report.FinalAllocRate)
}
