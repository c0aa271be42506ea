// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hashreport reads concurrent hash table benchmark result files from
// a results directory, aggregates them by dataset size, thread count,
// and table size, and writes bar chart images summarizing execution
// times and handled collisions.
//
// Result files are named like
//
//	Results_HW2_MCC_030402_401106039_150K_8_150K_insert.txt
//
// where the trailing parameters are dataset size, thread count, and
// table size. Each file carries "ExecutionTime: N ms" and
// "NumberOfHandledCollision: N" marker lines, summed per file.
// Malformed files and files missing either marker are reported to
// stderr and skipped; only a missing results directory is fatal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aclements/go-gg/table"

	"github.com/mcc-bench/hashreport/runchart"
	"github.com/mcc-bench/hashreport/runfmt"
	"github.com/mcc-bench/hashreport/runproc"
	"github.com/mcc-bench/hashreport/sizeunit"
)

var (
	resultsDir = flag.String("results", "results", "read result files from `dir`")
	plotsDir   = flag.String("plots", "plots", "write chart images to `dir` (recreated on every run)")
	nameFormat = flag.String("format", "loose", "file name `format`: loose or strict")
	csvPath    = flag.String("csv", "", "also write the aggregated table as CSV to `file` (- for stdout)")
	htmlIndex  = flag.Bool("html", false, "also write an HTML index page next to the images")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: hashreport [flags]

hashreport reads benchmark result files named
Results_..._<dataset>_<threads>_<tablesize>_....txt from the results
directory, sums their ExecutionTime and NumberOfHandledCollision
markers, and writes per-dataset bar charts to the plots directory.
`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("")
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() > 0 {
		usage()
		os.Exit(2)
	}

	format, err := runfmt.ParseNameFormat(*nameFormat)
	if err != nil {
		log.Print(err)
		usage()
		os.Exit(2)
	}

	warn := func(f string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, "hashreport: "+f+"\n", args...)
	}

	recs, err := runproc.Collect(*resultsDir, format, warn)
	if err != nil {
		log.Fatal(err)
	}
	if len(recs) == 0 {
		warn("no usable result files in %s", *resultsDir)
	}
	tab := runproc.Clean(runproc.Table(recs))
	log.Printf("%d runs kept (%d after aggregation)", len(recs), tab.Len())
	if groups := runproc.ByDataset(tab); len(groups) > 0 {
		datasets := make([]int64, len(groups))
		for i, dg := range groups {
			datasets[i] = dg.Dataset
		}
		log.Printf("dataset sizes: %s", sizeunit.FormatList(datasets))
	}

	if *csvPath != "" {
		if err := writeCSV(*csvPath, tab); err != nil {
			log.Fatal("writing CSV: ", err)
		}
	}

	gen := &runchart.Generator{Dir: *plotsDir, HTMLIndex: *htmlIndex, Warn: warn}
	written, err := gen.Run(tab)
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range written {
		log.Printf("wrote %s", filepath.Join(*plotsDir, name))
	}
}

func writeCSV(path string, tab *table.Table) error {
	if path == "-" {
		return runproc.WriteCSV(os.Stdout, tab)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := runproc.WriteCSV(f, tab); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
