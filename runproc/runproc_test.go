// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"

	"github.com/mcc-bench/hashreport/runfmt"
)

func rec(ds, th, ts, time, coll int64, file string) Record {
	return Record{DatasetSize: ds, Threads: th, TableSize: ts, ExecTime: time, Collisions: coll, File: file}
}

// testTable is a cleaned table with two dataset sizes, two table
// sizes, and a hole at (150K, 16 threads, 150K).
func testTable() *table.Table {
	return Clean(Table([]Record{
		rec(150000, 8, 90000, 300, 12, "a.txt"),
		rec(150000, 16, 90000, 150, 5, "b.txt"),
		rec(150000, 8, 150000, 500, 20, "c.txt"),
		rec(2000000, 8, 90000, 700, 30, "d.txt"),
	}))
}

func TestCleanMean(t *testing.T) {
	// Two runs of the (150K, 8, 150K) configuration collapse into
	// their mean; rows come out sorted by (dataset, threads, tsize).
	tab := Clean(Table([]Record{
		rec(150000, 16, 150000, 100, 4, "b.txt"),
		rec(150000, 8, 150000, 300, 12, "a.txt"),
		rec(150000, 8, 150000, 100, 6, "a2.txt"),
	}))

	if want := 2; tab.Len() != want {
		t.Fatalf("got %d rows, want %d", tab.Len(), want)
	}
	checkCol := func(name string, want interface{}) {
		t.Helper()
		if got := tab.MustColumn(name); !reflect.DeepEqual(got, want) {
			t.Errorf("column %s: got %v, want %v", name, got, want)
		}
	}
	checkCol(ColDataset, []int64{150000, 150000})
	checkCol(ColThreads, []int64{8, 16})
	checkCol(ColTable, []int64{150000, 150000})
	checkCol(ColTime, []float64{200, 100})
	checkCol(ColCollisions, []float64{9, 4})
}

func TestCleanDropsFileColumn(t *testing.T) {
	tab := Clean(Table([]Record{rec(150000, 8, 150000, 300, 12, "a.txt")}))
	for _, c := range tab.Columns() {
		if c == ColFile {
			t.Errorf("column %q survived cleaning", ColFile)
		}
	}
}

func TestCleanEmpty(t *testing.T) {
	if tab := Clean(Table(nil)); tab.Len() != 0 {
		t.Errorf("got %d rows, want 0", tab.Len())
	}
}

func TestByDataset(t *testing.T) {
	groups := ByDataset(testTable())
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	check := func(i int, dataset int64, rows int) {
		t.Helper()
		if groups[i].Dataset != dataset {
			t.Errorf("group %d: dataset %d, want %d", i, groups[i].Dataset, dataset)
		}
		if groups[i].Table.Len() != rows {
			t.Errorf("group %d: %d rows, want %d", i, groups[i].Table.Len(), rows)
		}
	}
	check(0, 150000, 3)
	check(1, 2000000, 1)
}

func TestTimeSeries(t *testing.T) {
	got := TimeSeries(testTable())
	want := []Series{
		{Dataset: 150000, TableSize: 90000, Threads: []int64{8, 16}, Values: []float64{300, 150}},
		{Dataset: 150000, TableSize: 150000, Threads: []int64{8}, Values: []float64{500}},
		{Dataset: 2000000, TableSize: 90000, Threads: []int64{8}, Values: []float64{700}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got series %v, want %v", got, want)
	}
}

func TestNewPivot(t *testing.T) {
	groups := ByDataset(testTable())
	p := NewPivot(groups[0].Table, ColTime)

	if want := []int64{8, 16}; !reflect.DeepEqual(p.Index, want) {
		t.Errorf("index: got %v, want %v", p.Index, want)
	}
	if want := []int64{90000, 150000}; !reflect.DeepEqual(p.Cols, want) {
		t.Errorf("cols: got %v, want %v", p.Cols, want)
	}
	cell := func(i, j int) float64 { return p.Cells[i][j] }
	if cell(0, 0) != 300 || cell(0, 1) != 500 || cell(1, 0) != 150 {
		t.Errorf("cells: got %v", p.Cells)
	}
	// No run at (16 threads, 150K): the cell is a hole, not a zero.
	if !math.IsNaN(cell(1, 1)) {
		t.Errorf("missing cell: got %v, want NaN", cell(1, 1))
	}
	if p.Empty() {
		t.Errorf("Empty() = true for pivot with data")
	}

	if !NewPivot(new(table.Table), ColTime).Empty() {
		t.Errorf("Empty() = false for pivot of empty table")
	}
}

func TestWriteCSV(t *testing.T) {
	tab := Clean(Table([]Record{
		rec(150000, 8, 90000, 300, 12, "a.txt"),
		rec(150000, 8, 90000, 301, 12, "b.txt"), // mean time 300.5
	}))
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tab); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "dataset,threads,tsize,time_ms,collisions\n" +
		"150000,8,90000,300.5,12\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestCollect(t *testing.T) {
	var warnings []string
	recs, err := Collect("testdata/results", runfmt.FormatLoose, func(f string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(f, args...))
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []Record{
		rec(150000, 16, 150000, 150, 5, "Results_HW2_MCC_030402_401106039_150K_16_150K_insert.txt"),
		rec(150000, 8, 150000, 300, 12, "Results_HW2_MCC_030402_401106039_150K_8_150K_insert.txt"),
	}
	if !reflect.DeepEqual(recs, want) {
		t.Errorf("got records %v, want %v", recs, want)
	}

	// The 32-thread file carries only an ExecutionTime marker and
	// must be dropped with a warning.
	if len(warnings) != 1 || !strings.Contains(warnings[0], "150K_32_150K_insert.txt") {
		t.Errorf("got warnings %q, want one mentioning the 32-thread file", warnings)
	}
}

func TestCollectMissingDir(t *testing.T) {
	if _, err := Collect("testdata/no-such-dir", runfmt.FormatLoose, nil); err == nil {
		t.Errorf("got nil error for missing directory")
	}
}

// TestEndToEnd follows two result files through the whole pipeline
// and checks the pivot cells the charts are drawn from.
func TestEndToEnd(t *testing.T) {
	recs, err := Collect("testdata/results", runfmt.FormatLoose, nil)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	tab := Clean(Table(recs))

	groups := ByDataset(tab)
	if len(groups) != 1 || groups[0].Dataset != 150000 {
		t.Fatalf("got groups %v, want one group for 150K", groups)
	}

	times := NewPivot(groups[0].Table, ColTime)
	colls := NewPivot(groups[0].Table, ColCollisions)
	if want := []int64{8, 16}; !reflect.DeepEqual(times.Index, want) {
		t.Fatalf("index: got %v, want %v", times.Index, want)
	}
	if times.Cells[0][0] != 300 || times.Cells[1][0] != 150 {
		t.Errorf("time cells: got %v, want [[300] [150]]", times.Cells)
	}
	if colls.Cells[0][0] != 12 || colls.Cells[1][0] != 5 {
		t.Errorf("collision cells: got %v, want [[12] [5]]", colls.Cells)
	}
}
