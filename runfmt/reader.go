// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runfmt reads the result files written by the hash-table
// collision benchmark harness.
//
// A result file is plain text. Interspersed with free-form output,
// the harness writes one measurement block per operation type, each
// containing marker lines of the form
//
//	ExecutionTime: 300 ms
//	NumberOfHandledCollision: 12
//
// The benchmark parameters for a run are not in the file content;
// they are encoded in the file name (see ParseName).
//
// The Reader is structured as a streaming scanner, modeled on
// bufio.Scanner: marker lines become records, malformed marker lines
// become non-fatal *SyntaxError records, and everything else is
// ignored. Most callers want the per-file sums and should use
// ReadFile instead.
package runfmt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// A MarkerKind identifies which measurement a marker line carries.
type MarkerKind int

const (
	// ExecTime is an "ExecutionTime: <n> ms" marker. Values are
	// integer milliseconds.
	ExecTime MarkerKind = iota
	// Collisions is a "NumberOfHandledCollision: <n>" marker.
	Collisions
)

func (k MarkerKind) String() string {
	switch k {
	case ExecTime:
		return "ExecutionTime"
	case Collisions:
		return "NumberOfHandledCollision"
	}
	return fmt.Sprintf("MarkerKind(%d)", int(k))
}

// A Marker is a single measurement line read from a result file.
type Marker struct {
	Kind  MarkerKind
	Value int64

	fileName string
	line     int
}

// Pos returns the position of this marker as a file name and a
// 1-based line number.
func (m *Marker) Pos() (fileName string, line int) {
	return m.fileName, m.line
}

// A SyntaxError represents a malformed marker line. It is non-fatal:
// the Reader keeps scanning after returning one.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A Record is a single record read from a result file. It is either a
// *Marker or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and
	// a 1-based line number within that file.
	Pos() (fileName string, line int)
}

var _ Record = (*Marker)(nil)
var _ Record = (*SyntaxError)(nil)

var noRecord = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// A Reader reads measurement markers from a result file.
//
// Its API is modeled on bufio.Scanner. The Reader retains ownership
// of the record it returns; a caller should copy anything it needs to
// retain across calls to Scan.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int

	marker Marker
	rec    Record
	err    error
}

// NewReader constructs a reader that scans r for measurement markers.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.line = 0
	r.rec = nil
	r.err = nil
}

const (
	execPrefix      = "ExecutionTime:"
	collisionPrefix = "NumberOfHandledCollision:"
)

// Scan advances the reader to the next marker and reports whether one
// was read. The caller should use the Result method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		line := strings.TrimSpace(r.s.Text())
		switch {
		case strings.HasPrefix(line, execPrefix):
			r.rec = r.parseExecTime(line[len(execPrefix):])
			return true
		case strings.HasPrefix(line, collisionPrefix):
			r.rec = r.parseCollisions(line[len(collisionPrefix):])
			return true
		}
		// Free-form harness output. Ignore the line.
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// parseExecTime parses the remainder of an "ExecutionTime:" line,
// which must be an integer followed by a "ms" unit.
func (r *Reader) parseExecTime(rest string) Record {
	f := strings.Fields(rest)
	if len(f) != 2 || f[1] != "ms" {
		return r.newSyntaxError("expected ExecutionTime: <n> ms")
	}
	v, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil {
		return r.newSyntaxError("parsing execution time: " + err.Error())
	}
	r.marker = Marker{ExecTime, v, r.fileName, r.line}
	return &r.marker
}

// parseCollisions parses the remainder of a
// "NumberOfHandledCollision:" line, which must be a bare integer.
func (r *Reader) parseCollisions(rest string) Record {
	f := strings.Fields(rest)
	if len(f) != 1 {
		return r.newSyntaxError("expected NumberOfHandledCollision: <n>")
	}
	v, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil {
		return r.newSyntaxError("parsing collision count: " + err.Error())
	}
	r.marker = Marker{Collisions, v, r.fileName, r.line}
	return &r.marker
}

func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

// Result returns the record that was just read by Scan: either a
// *Marker or a *SyntaxError indicating a malformed marker line.
//
// Syntax errors are non-fatal, so the caller can continue to call
// Scan.
func (r *Reader) Result() Record {
	if r.rec == nil {
		return noRecord
	}
	return r.rec
}

// Err returns the first I/O error that was encountered by the Reader.
func (r *Reader) Err() error {
	return r.err
}

// Totals holds the per-file measurement sums. When a file contains
// one measurement block per operation type, the totals cover the
// whole run.
type Totals struct {
	ExecTime   int64 // milliseconds
	Collisions int64

	// HaveExecTime and HaveCollisions record whether the
	// corresponding marker appeared at all. A zero sum from a
	// present marker is meaningful; an absent marker is not.
	HaveExecTime   bool
	HaveCollisions bool
}

// Complete reports whether both markers were present.
func (t Totals) Complete() bool {
	return t.HaveExecTime && t.HaveCollisions
}

// Empty reports whether neither marker was present.
func (t Totals) Empty() bool {
	return !t.HaveExecTime && !t.HaveCollisions
}

// ReadFile opens the result file at path and sums all marker
// occurrences into per-file totals. Malformed marker lines are
// reported through sink if it is non-nil and do not contribute to the
// sums. The error is non-nil only for I/O failures.
func ReadFile(path string, sink func(err *SyntaxError)) (Totals, error) {
	f, err := os.Open(path)
	if err != nil {
		return Totals{}, err
	}
	defer f.Close()
	return ReadAll(f, path, sink)
}

// ReadAll is like ReadFile but reads from an open reader. name is
// used in diagnostics.
func ReadAll(ior io.Reader, name string, sink func(err *SyntaxError)) (Totals, error) {
	var tot Totals
	r := NewReader(ior, name)
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *SyntaxError:
			if sink != nil {
				sink(rec)
			}
		case *Marker:
			switch rec.Kind {
			case ExecTime:
				tot.ExecTime += rec.Value
				tot.HaveExecTime = true
			case Collisions:
				tot.Collisions += rec.Value
				tot.HaveCollisions = true
			}
		}
	}
	if err := r.Err(); err != nil {
		return Totals{}, err
	}
	return tot, nil
}
