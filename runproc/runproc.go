// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runproc aggregates parsed benchmark runs into a clean
// tabular dataset and derives the groupings the charts are drawn
// from.
//
// The flow is Collect -> Table -> Clean. Collect joins each result
// file's name parameters with its content totals and drops files that
// can't contribute a complete record. Clean collapses repeated runs
// of the same configuration into their mean and fixes a canonical row
// order. Everything downstream (pivots, series, CSV) reads from the
// cleaned table.
package runproc

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/mcc-bench/hashreport/runfmt"
)

// Column names of the dataset table.
const (
	ColDataset    = "dataset"
	ColThreads    = "threads"
	ColTable      = "tsize"
	ColTime       = "time"       // execution time, float64 milliseconds
	ColCollisions = "collisions" // handled collisions, float64
	ColFile       = "file"
)

// A Record is one benchmark run: the parameters decoded from the file
// name joined with the measurement totals read from the file content.
// Records are immutable once built.
type Record struct {
	DatasetSize int64
	Threads     int64
	TableSize   int64
	ExecTime    int64 // milliseconds
	Collisions  int64
	File        string
}

// Collect reads every result file in dir and returns the complete
// records, in file name order. A file contributes a record only if
// its name decodes under format and its content carried both
// measurement markers; anything less is reported through warn (if
// non-nil) and dropped. The returned error is non-nil only if the
// directory itself cannot be read.
func Collect(dir string, format runfmt.NameFormat, warn func(format string, args ...interface{})) ([]Record, error) {
	warnf := func(f string, args ...interface{}) {
		if warn != nil {
			warn(f, args...)
		}
	}

	files := &runfmt.Files{Dir: dir, Format: format, Warn: warnf}
	var recs []Record
	for files.Scan() {
		e := files.Entry()
		if !e.Totals.Complete() {
			if e.Totals.Empty() {
				warnf("%s: no measurements, skipping", e.Name)
			} else {
				warnf("%s: incomplete measurements (ExecutionTime=%v, NumberOfHandledCollision=%v), skipping",
					e.Name, e.Totals.HaveExecTime, e.Totals.HaveCollisions)
			}
			continue
		}
		recs = append(recs, Record{
			DatasetSize: e.Params.DatasetSize,
			Threads:     e.Params.Threads,
			TableSize:   e.Params.TableSize,
			ExecTime:    e.Totals.ExecTime,
			Collisions:  e.Totals.Collisions,
			File:        e.Name,
		})
	}
	if err := files.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Table materializes recs as a go-gg table with one row per record.
// Key columns are int64; measurement columns are float64 so they
// aggregate cleanly.
func Table(recs []Record) *table.Table {
	ds := make([]int64, len(recs))
	th := make([]int64, len(recs))
	ts := make([]int64, len(recs))
	times := make([]float64, len(recs))
	colls := make([]float64, len(recs))
	files := make([]string, len(recs))
	for i, r := range recs {
		ds[i] = r.DatasetSize
		th[i] = r.Threads
		ts[i] = r.TableSize
		times[i] = float64(r.ExecTime)
		colls[i] = float64(r.Collisions)
		files[i] = r.File
	}
	return new(table.Builder).
		Add(ColDataset, ds).
		Add(ColThreads, th).
		Add(ColTable, ts).
		Add(ColTime, times).
		Add(ColCollisions, colls).
		Add(ColFile, files).
		Done()
}

// Clean canonicalizes the dataset: rows are sorted by (dataset,
// threads, tsize) and repeated runs of the same configuration
// collapse into the mean of their measurements. The source file
// column does not survive cleaning. The row count never grows.
func Clean(t *table.Table) *table.Table {
	if t.Len() == 0 {
		return new(table.Table)
	}
	g := table.Remove(t, ColFile)
	g = table.SortBy(g, ColDataset, ColThreads, ColTable)
	g = ggstat.Agg(ColDataset, ColThreads, ColTable)(ggstat.AggMean(ColTime, ColCollisions)).F(g)
	g = table.Rename(g, "mean "+ColTime, ColTime)
	g = table.Rename(g, "mean "+ColCollisions, ColCollisions)
	return table.Flatten(g)
}

// A DatasetGroup is the slice of a cleaned table belonging to one
// dataset size.
type DatasetGroup struct {
	Dataset int64
	Table   *table.Table
}

// ByDataset splits a cleaned table into per-dataset groups, sorted by
// dataset size.
func ByDataset(t *table.Table) []DatasetGroup {
	var out []DatasetGroup
	g := table.GroupBy(t, ColDataset)
	for _, gid := range g.Tables() {
		sub := g.Table(gid)
		if sub.Len() == 0 {
			continue
		}
		ds := sub.MustColumn(ColDataset).([]int64)[0]
		out = append(out, DatasetGroup{Dataset: ds, Table: sub})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dataset < out[j].Dataset })
	return out
}

// A Series is the execution-time curve for one (dataset size, table
// size) pair: one value per thread count, sorted by thread count.
type Series struct {
	Dataset   int64
	TableSize int64
	Threads   []int64
	Values    []float64
}

// TimeSeries extracts one execution-time Series per unique (dataset,
// tsize) pair from a cleaned table, sorted by (dataset, tsize).
func TimeSeries(t *table.Table) []Series {
	var out []Series
	g := table.GroupBy(t, ColDataset, ColTable)
	for _, gid := range g.Tables() {
		sub := g.Table(gid)
		if sub.Len() == 0 {
			continue
		}
		s := Series{
			Dataset:   sub.MustColumn(ColDataset).([]int64)[0],
			TableSize: sub.MustColumn(ColTable).([]int64)[0],
			Threads:   append([]int64(nil), sub.MustColumn(ColThreads).([]int64)...),
			Values:    append([]float64(nil), sub.MustColumn(ColTime).([]float64)...),
		}
		sortSeries(&s)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dataset != out[j].Dataset {
			return out[i].Dataset < out[j].Dataset
		}
		return out[i].TableSize < out[j].TableSize
	})
	return out
}

func sortSeries(s *Series) {
	perm := make([]int, len(s.Threads))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(i, j int) bool { return s.Threads[perm[i]] < s.Threads[perm[j]] })
	th := make([]int64, len(perm))
	vs := make([]float64, len(perm))
	for i, p := range perm {
		th[i] = s.Threads[p]
		vs[i] = s.Values[p]
	}
	s.Threads, s.Values = th, vs
}

// A Pivot is a matrix view of one value column: rows indexed by
// thread count, one column per table size. Cells with no underlying
// run hold NaN, which the renderer must skip rather than draw as
// zero.
type Pivot struct {
	Index []int64     // thread counts, ascending
	Cols  []int64     // table sizes, ascending
	Cells [][]float64 // Cells[i][j] is the value at (Index[i], Cols[j])
}

// NewPivot pivots valueCol of t (typically one dataset's group) into
// a threads x tsize matrix.
func NewPivot(t *table.Table, valueCol string) *Pivot {
	p := &Pivot{}
	if t == nil || t.Len() == 0 {
		return p
	}

	threads := t.MustColumn(ColThreads).([]int64)
	tsizes := t.MustColumn(ColTable).([]int64)
	values := t.MustColumn(valueCol).([]float64)

	p.Index = uniqueSorted(threads)
	p.Cols = uniqueSorted(tsizes)

	rowOf := make(map[int64]int, len(p.Index))
	for i, th := range p.Index {
		rowOf[th] = i
	}
	colOf := make(map[int64]int, len(p.Cols))
	for j, ts := range p.Cols {
		colOf[ts] = j
	}

	p.Cells = make([][]float64, len(p.Index))
	for i := range p.Cells {
		row := make([]float64, len(p.Cols))
		for j := range row {
			row[j] = math.NaN()
		}
		p.Cells[i] = row
	}
	for k := range values {
		p.Cells[rowOf[threads[k]]][colOf[tsizes[k]]] = values[k]
	}
	return p
}

// Empty reports whether the pivot has no defined cells.
func (p *Pivot) Empty() bool {
	for _, row := range p.Cells {
		for _, v := range row {
			if !math.IsNaN(v) {
				return false
			}
		}
	}
	return true
}

func uniqueSorted(xs []int64) []int64 {
	seen := make(map[int64]bool, len(xs))
	var out []int64
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WriteCSV writes a cleaned table to w with a fixed header, one line
// per row. Measurements that are integer-valued print without a
// decimal point.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"dataset", "threads", "tsize", "time_ms", "collisions"}); err != nil {
		return err
	}
	if t.Len() > 0 {
		ds := t.MustColumn(ColDataset).([]int64)
		th := t.MustColumn(ColThreads).([]int64)
		ts := t.MustColumn(ColTable).([]int64)
		times := t.MustColumn(ColTime).([]float64)
		colls := t.MustColumn(ColCollisions).([]float64)
		for i := 0; i < t.Len(); i++ {
			row := []string{
				strconv.FormatInt(ds[i], 10),
				strconv.FormatInt(th[i], 10),
				strconv.FormatInt(ts[i], 10),
				strof(times[i]),
				strof(colls[i]),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func strof(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("%g", v)
}
