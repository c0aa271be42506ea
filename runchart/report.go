// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runchart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aclements/go-gg/table"

	"github.com/mcc-bench/hashreport/runproc"
	"github.com/mcc-bench/hashreport/sizeunit"
)

// A Generator writes the full set of report charts for a cleaned
// result table into an output directory.
type Generator struct {
	// Dir is the output directory. Run recreates it from scratch,
	// so stale images from earlier runs never survive.
	Dir string

	// HTMLIndex, if true, adds a report.html page linking every
	// generated image.
	HTMLIndex bool

	// Warn is called for each chart that is skipped. If nil,
	// warnings are dropped.
	Warn func(format string, args ...interface{})
}

func (g *Generator) warnf(format string, args ...interface{}) {
	if g.Warn != nil {
		g.Warn(format, args...)
	}
}

// Run renders every chart the table supports and returns the names of
// the files written to g.Dir, in the order they were written.
//
// Per dataset size it writes a clustered collision chart and a
// clustered execution time chart; per (dataset, table size) pair it
// writes a gradient-colored execution time chart. Groups with no
// usable values are skipped with a warning rather than rendered
// empty.
func (g *Generator) Run(t *table.Table) ([]string, error) {
	if err := os.RemoveAll(g.Dir); err != nil {
		return nil, fmt.Errorf("reset plot directory: %w", err)
	}
	if err := os.MkdirAll(g.Dir, 0777); err != nil {
		return nil, fmt.Errorf("create plot directory: %w", err)
	}

	var written []string
	for _, dg := range runproc.ByDataset(t) {
		ds := sizeunit.Format(dg.Dataset)

		pv := runproc.NewPivot(dg.Table, runproc.ColCollisions)
		if pv.Empty() {
			g.warnf("dataset %s: no collision data, skipping chart", ds)
		} else {
			pl := Grouped(pv,
				fmt.Sprintf("Collisions vs. Threads for Dataset Size %s", ds),
				"Number of Handled Collisions")
			name := fmt.Sprintf("collisions_dataset_%d.png", dg.Dataset)
			if err := SavePNG(pl, nil, filepath.Join(g.Dir, name)); err != nil {
				return written, fmt.Errorf("write %s: %w", name, err)
			}
			written = append(written, name)
		}
	}

	for _, s := range runproc.TimeSeries(t) {
		ds, ts := sizeunit.Format(s.Dataset), sizeunit.Format(s.TableSize)
		if len(s.Values) == 0 {
			g.warnf("dataset %s table %s: no execution times, skipping chart", ds, ts)
			continue
		}
		pl, bar := Gradient(s,
			fmt.Sprintf("Execution Time vs. Threads (Dataset %s, Table Size %s)", ds, ts),
			"Execution Time (ms)")
		name := fmt.Sprintf("exectime_dataset_%d_tsize_%d.png", s.Dataset, s.TableSize)
		if err := SavePNG(pl, bar, filepath.Join(g.Dir, name)); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
	}

	for _, dg := range runproc.ByDataset(t) {
		ds := sizeunit.Format(dg.Dataset)

		pv := runproc.NewPivot(dg.Table, runproc.ColTime)
		if pv.Empty() {
			g.warnf("dataset %s: no execution times, skipping grouped chart", ds)
			continue
		}
		pl := Grouped(pv,
			fmt.Sprintf("Execution Time vs. Threads by Table Size (Dataset %s)", ds),
			"Execution Time (ms)")
		name := fmt.Sprintf("exectime_grouped_dataset_%d.png", dg.Dataset)
		if err := SavePNG(pl, nil, filepath.Join(g.Dir, name)); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
	}

	if g.HTMLIndex {
		const name = "report.html"
		if err := writeHTMLIndex(filepath.Join(g.Dir, name), written); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}
