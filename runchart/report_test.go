// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runchart

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"

	"github.com/mcc-bench/hashreport/runproc"
)

func testTable(t *testing.T) *table.Table {
	t.Helper()
	rec := func(ds, th, ts, time, coll int64) runproc.Record {
		return runproc.Record{DatasetSize: ds, Threads: th, TableSize: ts, ExecTime: time, Collisions: coll}
	}
	return runproc.Clean(runproc.Table([]runproc.Record{
		rec(150000, 8, 90000, 300, 12),
		rec(150000, 16, 90000, 150, 5),
		rec(150000, 8, 150000, 500, 20),
		rec(2000000, 8, 90000, 700, 30),
	}))
}

func TestGeneratorRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	g := &Generator{Dir: dir, Warn: t.Logf}

	written, err := g.Run(testTable(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"collisions_dataset_150000.png",
		"collisions_dataset_2000000.png",
		"exectime_dataset_150000_tsize_90000.png",
		"exectime_dataset_150000_tsize_150000.png",
		"exectime_dataset_2000000_tsize_90000.png",
		"exectime_grouped_dataset_150000.png",
		"exectime_grouped_dataset_2000000.png",
	}
	gotSorted := append([]string(nil), written...)
	sort.Strings(gotSorted)
	wantSorted := append([]string(nil), want...)
	sort.Strings(wantSorted)
	if !reflect.DeepEqual(gotSorted, wantSorted) {
		t.Errorf("got files %q, want %q", gotSorted, wantSorted)
	}

	for _, name := range written {
		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if fi.Size() == 0 {
			t.Errorf("%s: empty file", name)
		}
	}
}

func TestGeneratorHTMLIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	g := &Generator{Dir: dir, HTMLIndex: true}

	written, err := g.Run(testTable(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(written) == 0 || written[len(written)-1] != "report.html" {
		t.Fatalf("got files %q, want report.html last", written)
	}
	b, err := os.ReadFile(filepath.Join(dir, "report.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for _, name := range written[:len(written)-1] {
		if !strings.Contains(string(b), name) {
			t.Errorf("index does not mention %s", name)
		}
	}
}

func TestGeneratorClearsStaleFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	if err := os.MkdirAll(dir, 0777); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "collisions_dataset_999.png")
	if err := os.WriteFile(stale, []byte("old"), 0666); err != nil {
		t.Fatal(err)
	}

	g := &Generator{Dir: dir}
	if _, err := g.Run(testTable(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale image survived a rerun")
	}
}

func TestGeneratorRerunIdentical(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	g := &Generator{Dir: dir}
	tab := testTable(t)

	first, err := g.Run(tab)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := g.Run(tab)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reruns differ:\nfirst  %q\nsecond %q", first, second)
	}
}

func TestGeneratorEmptyTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	g := &Generator{Dir: dir}

	written, err := g.Run(new(table.Table))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(written) != 0 {
		t.Errorf("got files %q for empty table, want none", written)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output directory missing: %v", err)
	}
}
