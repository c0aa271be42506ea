// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcc-bench/hashreport/sizeunit"
)

// Params holds the benchmark parameters encoded in a result file
// name: the dataset size, the worker thread count, and the hash table
// size. Sizes are absolute element counts (a "150K" token decodes to
// 150000).
type Params struct {
	DatasetSize int64
	Threads     int64
	TableSize   int64
}

// A NameFormat selects one of the file naming conventions used by the
// benchmark harness. The conventions drifted across harness versions,
// so the format is an explicit input rather than a guess.
type NameFormat int

const (
	// FormatLoose matches names whose last underscore-delimited
	// tokens before the free-form operation suffix are
	// <size>_<threads>_<size>, where size tokens may carry a K or
	// M magnitude suffix. The rightmost such triple wins.
	FormatLoose NameFormat = iota

	// FormatStrict matches the older convention: a "Results_"
	// prefix followed by harness identification tokens and then
	// <digits>K_<threads>_<digits>K. Sizes are always expressed
	// in units of K.
	FormatStrict
)

var nameFormats = map[string]NameFormat{
	"loose":  FormatLoose,
	"strict": FormatStrict,
}

func (f NameFormat) String() string {
	switch f {
	case FormatLoose:
		return "loose"
	case FormatStrict:
		return "strict"
	}
	return fmt.Sprintf("NameFormat(%d)", int(f))
}

// ParseNameFormat converts a format name from the command line into a
// NameFormat.
func ParseNameFormat(s string) (NameFormat, error) {
	f, ok := nameFormats[s]
	if !ok {
		return 0, fmt.Errorf("unknown name format %q (want loose or strict)", s)
	}
	return f, nil
}

// namePrefix and nameSuffix bound the candidate file names. Files
// that don't carry both are not result files at all and are ignored
// without diagnostics.
const (
	namePrefix = "Results_"
	nameSuffix = ".txt"
)

// IsCandidate reports whether name looks like a result file produced
// by the benchmark harness. It is a cheap pre-filter; ParseName makes
// the real decision.
func IsCandidate(name string) bool {
	return strings.HasPrefix(name, namePrefix) && strings.HasSuffix(name, nameSuffix)
}

var strictNameRE = regexp.MustCompile(`^Results(?:_[^_]+)*?_([0-9]+)K_([0-9]+)_([0-9]+)K(?:_[^_]+)+\.txt$`)

// ParseName extracts the benchmark parameters from a result file
// name. The boolean result reports whether the name matched the
// convention; a mismatch means "skip this file" and is not an error.
// A name that matches structurally but carries an unparseable numeric
// token is also a mismatch.
func ParseName(name string, f NameFormat) (Params, bool) {
	if !IsCandidate(name) {
		return Params{}, false
	}
	switch f {
	case FormatStrict:
		return parseStrict(name)
	default:
		return parseLoose(name)
	}
}

func parseStrict(name string) (Params, bool) {
	m := strictNameRE.FindStringSubmatch(name)
	if m == nil {
		return Params{}, false
	}
	ds, err1 := sizeunit.Parse(m[1] + "K")
	th, err2 := strconv.ParseInt(m[2], 10, 64)
	ts, err3 := sizeunit.Parse(m[3] + "K")
	if err1 != nil || err2 != nil || err3 != nil {
		return Params{}, false
	}
	return Params{DatasetSize: ds, Threads: th, TableSize: ts}, true
}

// parseLoose scans the underscore-delimited tokens from the right for
// a <size>_<threads>_<size> triple followed by at least one
// free-form suffix token. Scanning right to left keeps harness
// identification tokens near the front (dates, IDs) from being
// mistaken for the parameter triple.
func parseLoose(name string) (Params, bool) {
	base := strings.TrimSuffix(name, nameSuffix)
	toks := strings.Split(base, "_")
	// Triple at i..i+2, suffix at i+3 or later, prefix before i.
	for i := len(toks) - 4; i >= 1; i-- {
		ds, err1 := sizeunit.Parse(toks[i])
		th, err2 := strconv.ParseInt(toks[i+1], 10, 64)
		ts, err3 := sizeunit.Parse(toks[i+2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		return Params{DatasetSize: ds, Threads: th, TableSize: ts}, true
	}
	return Params{}, false
}
