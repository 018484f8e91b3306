// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package runconfig loads a simulation scenario: node/pod CSV paths,
// the scheduler and decider to run, and the round count, from a YAML
// file overridden by command-line flags, per SPEC_FULL.md's ambient
// configuration section.
package runconfig

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/openb-trace/gpu-sched-sim/pkg/evaluator"
	"github.com/openb-trace/gpu-sched-sim/pkg/heuristics"
)

// Options is one simulation scenario's full configuration.
type Options struct {
	NodeCSVPath string `yaml:"node_csv_path"`
	PodCSVPath  string `yaml:"pod_csv_path"`

	Scheduler  string `yaml:"scheduler"`
	Decider    string `yaml:"decider"`
	DeciderArg int    `yaml:"decider_arg"`
	ValveLimit int    `yaml:"valve_limit"`

	NumLoops int   `yaml:"num_loops"`
	Seed     int64 `yaml:"seed"`
	HasSeed  bool  `yaml:"-"`

	MetricsAddr string `yaml:"metrics_addr"`
	Verbose     bool   `yaml:"verbose"`

	ConfigPath string `yaml:"-"`
}

// InitOptions registers the scenario's flags on fs, mirroring the
// teacher's InitOptions pattern: every field gets a flag default, and
// an optional --config file can override or supplement them.
func InitOptions(fs *pflag.FlagSet) *Options {
	options := &Options{}

	fs.StringVar(&options.ConfigPath, "config", "",
		"Path to a YAML scenario file; flags below override its values")
	fs.StringVar(&options.NodeCSVPath, "nodes", "",
		"Path to the node CSV file")
	fs.StringVar(&options.PodCSVPath, "pods", "",
		"Path to the pod CSV file")
	fs.StringVar(&options.Scheduler, "scheduler", heuristics.SchedulerDotProduct,
		"Scheduler heuristic: random, dot-product, or best-fit")
	fs.StringVar(&options.Decider, "decider", heuristics.DeciderMaxArrived,
		"Round-end decider: max-delayed, max-arrived, or fixed-arrivals")
	fs.IntVar(&options.DeciderArg, "decider-arg", 1000,
		"Numeric argument to the decider (delayed-task count or arrival count)")
	fs.IntVar(&options.ValveLimit, "valve-limit", 0,
		"Release-valve delayed-task limit for max-arrived (0 disables it)")
	fs.IntVar(&options.NumLoops, "rounds", evaluator.DefaultNumLoops,
		"Number of evaluation rounds to run")
	fs.Int64Var(&options.Seed, "seed", 0,
		"PRNG seed; if unset, the current time is used as the seed")
	fs.StringVar(&options.MetricsAddr, "metrics-addr", "",
		"Address to serve Prometheus metrics on; empty disables the server")
	fs.BoolVar(&options.Verbose, "verbose", false,
		"Enable debug-level logging")

	return options
}

// Load reads options.ConfigPath (if set) and merges its values under
// the already-parsed flags: a flag explicitly set on the command line
// wins, otherwise the YAML file's value is used, otherwise the flag's
// own default stands.
func Load(options *Options, fs *pflag.FlagSet) error {
	if options.ConfigPath == "" {
		options.HasSeed = fs.Changed("seed")
		return options.Validate()
	}

	f, err := os.Open(options.ConfigPath)
	if err != nil {
		return errors.Wrapf(err, "runconfig: open %s", options.ConfigPath)
	}
	defer f.Close()

	var fromFile Options
	if err := yaml.NewDecoder(f).Decode(&fromFile); err != nil {
		return errors.Wrapf(err, "runconfig: parse %s", options.ConfigPath)
	}

	mergeUnlessFlagSet(fs, "nodes", &options.NodeCSVPath, fromFile.NodeCSVPath)
	mergeUnlessFlagSet(fs, "pods", &options.PodCSVPath, fromFile.PodCSVPath)
	mergeUnlessFlagSet(fs, "scheduler", &options.Scheduler, fromFile.Scheduler)
	mergeUnlessFlagSet(fs, "decider", &options.Decider, fromFile.Decider)
	mergeUnlessFlagSet(fs, "metrics-addr", &options.MetricsAddr, fromFile.MetricsAddr)

	if !fs.Changed("decider-arg") && fromFile.DeciderArg != 0 {
		options.DeciderArg = fromFile.DeciderArg
	}
	if !fs.Changed("valve-limit") && fromFile.ValveLimit != 0 {
		options.ValveLimit = fromFile.ValveLimit
	}
	if !fs.Changed("rounds") && fromFile.NumLoops != 0 {
		options.NumLoops = fromFile.NumLoops
	}
	if !fs.Changed("verbose") && fromFile.Verbose {
		options.Verbose = true
	}
	if !fs.Changed("seed") && fromFile.Seed != 0 {
		options.Seed = fromFile.Seed
		options.HasSeed = true
	} else {
		options.HasSeed = fs.Changed("seed")
	}

	return options.Validate()
}

func mergeUnlessFlagSet(fs *pflag.FlagSet, name string, dst *string, fromFile string) {
	if !fs.Changed(name) && fromFile != "" {
		*dst = fromFile
	}
}

// Validate checks that the required paths and names are present and
// the selected scheduler/decider are registered, failing fast with a
// descriptive error rather than a panic deep in ingest or heuristics.
func (o *Options) Validate() error {
	var errs error

	if o.NodeCSVPath == "" {
		errs = multierr.Append(errs, errors.New("runconfig: --nodes is required"))
	}
	if o.PodCSVPath == "" {
		errs = multierr.Append(errs, errors.New("runconfig: --pods is required"))
	}
	if _, err := heuristics.Scheduler(o.Scheduler); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := heuristics.Decider(o.Decider, o.DeciderArg, o.ValveLimit); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}
