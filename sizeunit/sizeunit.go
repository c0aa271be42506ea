// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sizeunit parses and formats benchmark size tokens.
//
// The hash-table benchmark encodes dataset and table sizes in file
// names as decimal integers with an optional magnitude suffix: "K"
// for thousands and "M" for millions. "150K" is 150000 elements and
// "2M" is 2000000. Suffixes are accepted in either case.
package sizeunit

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a size token to its absolute integer value.
// It returns an error if tok is empty, carries an unknown suffix, or
// does not contain a decimal integer.
func Parse(tok string) (int64, error) {
	if tok == "" {
		return 0, fmt.Errorf("parsing size %q: empty token", tok)
	}

	factor := int64(1)
	digits := tok
	switch tok[len(tok)-1] {
	case 'K', 'k':
		factor = 1000
		digits = tok[:len(tok)-1]
	case 'M', 'm':
		factor = 1000000
		digits = tok[:len(tok)-1]
	}
	if digits == "" {
		return 0, fmt.Errorf("parsing size %q: missing digits", tok)
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("parsing size %q: not a decimal integer", tok)
	}
	return n * factor, nil
}

// Format renders n in the shortest token form that Parse accepts:
// multiples of one million use the "M" suffix, multiples of one
// thousand use "K", and everything else is plain digits. It is the
// inverse of Parse for canonical tokens.
func Format(n int64) string {
	switch {
	case n != 0 && n%1000000 == 0:
		return strconv.FormatInt(n/1000000, 10) + "M"
	case n != 0 && n%1000 == 0:
		return strconv.FormatInt(n/1000, 10) + "K"
	}
	return strconv.FormatInt(n, 10)
}

// FormatList formats each value in ns with Format and joins them with
// ", ". It is a convenience for chart titles and diagnostics.
func FormatList(ns []int64) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = Format(n)
	}
	return strings.Join(parts, ", ")
}
