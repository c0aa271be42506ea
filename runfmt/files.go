// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// A Files reads per-file parameters and measurement totals from every
// result file in a directory.
//
// Files whose names don't carry the result prefix and suffix are
// ignored outright. Candidate files whose names don't decode under
// the selected NameFormat are skipped silently: a mismatch signals
// "not part of this experiment", not an error. Files that fail to
// read are skipped with a diagnostic through Warn, and scanning
// continues; only the absence of the directory itself stops the scan.
type Files struct {
	// Dir is the results directory to scan.
	Dir string

	// Format selects the file naming convention to decode.
	Format NameFormat

	// Warn, if non-nil, is called with a diagnostic for each file
	// that was a candidate but could not contribute data.
	Warn func(format string, args ...interface{})

	// names is the sorted list of remaining candidate file names,
	// or nil if this Files has not started yet.
	names   []string
	started bool

	entry Entry
	err   error
}

// An Entry is one successfully read result file: its file name
// (relative to Dir), the parameters decoded from the name, and the
// summed measurements from its content. Totals may be partial or
// empty; retention policy belongs to the caller.
type Entry struct {
	Name   string
	Params Params
	Totals Totals
}

// init lists the candidate files. Results are sorted by name so a
// scan is deterministic regardless of directory order.
func (f *Files) init() {
	f.started = true
	ents, err := os.ReadDir(f.Dir)
	if err != nil {
		f.err = fmt.Errorf("results directory: %w", err)
		return
	}
	for _, ent := range ents {
		if ent.IsDir() || !IsCandidate(ent.Name()) {
			continue
		}
		f.names = append(f.names, ent.Name())
	}
	sort.Strings(f.names)
}

// Scan advances to the next readable result file and reports whether
// one was read. The caller should use the Entry method to get the
// entry. If Scan exhausts the directory or the directory cannot be
// listed, it returns false; the caller should then use the Err method
// to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if !f.started {
		f.init()
		if f.err != nil {
			return false
		}
	}

	for len(f.names) > 0 {
		name := f.names[0]
		f.names = f.names[1:]

		params, ok := ParseName(name, f.Format)
		if !ok {
			continue
		}
		tot, err := ReadFile(filepath.Join(f.Dir, name), func(serr *SyntaxError) {
			f.warnf("%v", serr)
		})
		if err != nil {
			f.warnf("reading %s: %v", name, err)
			continue
		}
		f.entry = Entry{Name: name, Params: params, Totals: tot}
		return true
	}
	return false
}

// Entry returns the entry that was just read by Scan.
func (f *Files) Entry() Entry {
	return f.entry
}

// Err returns the error that stopped Scan, if any. Per-file read
// failures are not errors; they are reported through Warn.
func (f *Files) Err() error {
	return f.err
}

func (f *Files) warnf(format string, args ...interface{}) {
	if f.Warn != nil {
		f.Warn(format, args...)
	}
}
