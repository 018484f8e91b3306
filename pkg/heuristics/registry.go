// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package heuristics

import (
	"fmt"

	"github.com/openb-trace/gpu-sched-sim/pkg/evaluator"
)

// Scheduler name constants, selected on the command line per spec.md
// §6.2.
const (
	SchedulerRandom     = "random"
	SchedulerDotProduct = "dot-product"
	SchedulerBestFit    = "best-fit"
)

// schedulers maps the CLI-facing name to the evaluator.Scheduler it
// selects. Kept as a plain map (rather than a switch) so cmd/simulate
// can also list the available names for --help and validation errors.
var schedulers = map[string]evaluator.Scheduler{
	SchedulerRandom:     Random,
	SchedulerDotProduct: DotProduct,
	SchedulerBestFit:    BestFit,
}

// Scheduler looks up a reference scheduler by its CLI name.
func Scheduler(name string) (evaluator.Scheduler, error) {
	s, ok := schedulers[name]
	if !ok {
		return nil, fmt.Errorf("heuristics: unknown scheduler %q (want one of %v)", name, SchedulerNames())
	}
	return s, nil
}

// SchedulerNames returns the registered scheduler names, for --help
// text and flag validation.
func SchedulerNames() []string {
	names := make([]string, 0, len(schedulers))
	for name := range schedulers {
		names = append(names, name)
	}
	return names
}

// Decider name constants, selected on the command line per spec.md
// §6.2. MaxDelayed and MaxArrived take a numeric argument
// (decider-arg on the CLI); FixedArrivals is intended for small,
// deterministic test scenarios (SPEC_FULL.md's supplemented features).
const (
	DeciderMaxDelayed    = "max-delayed"
	DeciderMaxArrived    = "max-arrived"
	DeciderFixedArrivals = "fixed-arrivals"
)

// Decider builds a named Decider with the given numeric argument.
// MaxArrived additionally takes a release-valve TasksDelayed limit;
// pass 0 to disable the valve.
func Decider(name string, arg, valveLimit int) (evaluator.Decider, error) {
	switch name {
	case DeciderMaxDelayed:
		return MaxDelayedFactory(arg), nil
	case DeciderMaxArrived:
		return MaxArrived(arg, valveLimit), nil
	case DeciderFixedArrivals:
		return FixedArrivals(arg), nil
	default:
		return nil, fmt.Errorf("heuristics: unknown decider %q (want one of %v)", name, DeciderNames())
	}
}

// DeciderNames returns the registered decider names, for --help text
// and flag validation.
func DeciderNames() []string {
	return []string{DeciderMaxDelayed, DeciderMaxArrived, DeciderFixedArrivals}
}
