// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package ingest consumes the node and pod CSV trace files into
// simspec records. It is an external collaborator of the core engines
// (spec.md §1): callers are expected to treat its output as
// pre-validated and the engines never re-validate it.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/openb-trace/gpu-sched-sim/pkg/simspec"
)

// nodeHeader and podHeader are the expected CSV headers, per spec.md
// §6.1. Only the first six pod columns are semantically consumed; the
// rest (qos, pod_phase, creation_time, deletion_time, scheduled_time)
// are ignored per the Non-goals on task timelines.
var (
	nodeHeader = []string{"sn", "cpu_milli", "memory_mib", "gpu", "model"}
	podHeader  = []string{"name", "cpu_milli", "memory_mib", "num_gpu", "gpu_milli", "gpu_spec"}
)

// NodeSpecs reads a node CSV from r and returns one NodeSpec per
// record, in file order, with sequential ids assigned at read time.
func NodeSpecs(r io.Reader) ([]*simspec.NodeSpec, error) {
	rows, err := readRows(r, nodeHeader, len(nodeHeader))
	if err != nil {
		return nil, errors.Wrap(err, "reading node csv")
	}

	specs := make([]*simspec.NodeSpec, 0, len(rows))
	var errs error

	for i, row := range rows {
		spec, err := parseNodeRow(i, row)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "node row %d", i))
			continue
		}
		specs = append(specs, spec)
	}

	if errs != nil {
		return nil, errs
	}
	return specs, nil
}

// PodSpecs reads a pod CSV from r and returns one PodSpec per record,
// preserving input order, with sequential ids assigned at read time.
func PodSpecs(r io.Reader) ([]*simspec.PodSpec, error) {
	rows, err := readRows(r, podHeader, 11)
	if err != nil {
		return nil, errors.Wrap(err, "reading pod csv")
	}

	specs := make([]*simspec.PodSpec, 0, len(rows))
	var errs error

	for i, row := range rows {
		spec, err := parsePodRow(i, row)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "pod row %d", i))
			continue
		}
		specs = append(specs, spec)
	}

	if errs != nil {
		return nil, errs
	}
	return specs, nil
}

// readRows parses a CSV with a header row, tolerating leading
// whitespace on each field (spec.md §6.1), and returns the data rows
// with at least minFields columns.
func readRows(r io.Reader, wantHeader []string, minFields int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing csv")
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv: missing header")
	}

	header := records[0]
	for i, want := range wantHeader {
		if i >= len(header) || strings.TrimSpace(header[i]) != want {
			return nil, errors.Errorf("unexpected csv header, want column %d to be %q, got %q", i, want, header)
		}
	}

	rows := records[1:]
	for i, row := range rows {
		if len(row) < minFields {
			return nil, errors.Errorf("row %d has %d fields, want at least %d", i, len(row), minFields)
		}
	}
	return rows, nil
}

func parseNodeRow(id int, row []string) (*simspec.NodeSpec, error) {
	cpuMilli, err := parseInt64(row[1])
	if err != nil {
		return nil, errors.Wrap(err, "cpu_milli")
	}
	memMiB, err := parseInt64(row[2])
	if err != nil {
		return nil, errors.Wrap(err, "memory_mib")
	}
	numGPU, err := parseInt(row[3])
	if err != nil {
		return nil, errors.Wrap(err, "gpu")
	}
	model, err := simspec.ParseGpuSpec(row[4])
	if err != nil {
		return nil, errors.Wrap(err, "model")
	}

	return simspec.NewNodeSpec(id, cpuMilli, memMiB, numGPU, model), nil
}

func parsePodRow(id int, row []string) (*simspec.PodSpec, error) {
	cpuMilli, err := parseInt64(row[1])
	if err != nil {
		return nil, errors.Wrap(err, "cpu_milli")
	}
	memMiB, err := parseInt64(row[2])
	if err != nil {
		return nil, errors.Wrap(err, "memory_mib")
	}
	numGPU, err := parseInt(row[3])
	if err != nil {
		return nil, errors.Wrap(err, "num_gpu")
	}
	gpuMilli, err := parseInt64(row[4])
	if err != nil {
		return nil, errors.Wrap(err, "gpu_milli")
	}
	model, err := simspec.ParseGpuSpec(row[5])
	if err != nil {
		return nil, errors.Wrap(err, "gpu_spec")
	}

	return simspec.NewPodSpec(id, cpuMilli, memMiB, numGPU, gpuMilli, model), nil
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	return v, err
}
