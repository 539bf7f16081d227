// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timing

import (
	"fmt"
	"slices"
	"strings"
)

// A Pattern matches a set of scanline or dot numbers.
type Pattern interface {
	Matches(v int) bool
	String() string
}

// Value matches a single number.
type Value int

// Range matches every number from Lo to Hi, inclusive.
type Range struct {
	Lo, Hi int
}

// Cycle matches First, Step and every number after them spaced by
// Step-First, up to Last. Step is the second matching value, not the
// stride.
type Cycle struct {
	First, Step, Last int
}

func (p Value) Matches(v int) bool {
	return int(p) == v
}

func (p Range) Matches(v int) bool {
	return v >= p.Lo && v <= p.Hi
}

func (p Cycle) Matches(v int) bool {
	return v >= p.First && v <= p.Last && (v-p.First)%(p.Step-p.First) == 0
}

func (p Value) String() string {
	return fmt.Sprintf("%d", int(p))
}

func (p Range) String() string {
	return fmt.Sprintf("%d..%d", p.Lo, p.Hi)
}

func (p Cycle) String() string {
	return fmt.Sprintf("%d..%d..%d", p.First, p.Step, p.Last)
}

// A PatternList matches a number if any of its patterns does.
type PatternList []Pattern

// Matches returns true if any pattern in the list matches v.
func (l PatternList) Matches(v int) bool {
	for _, p := range l {
		if p.Matches(v) {
			return true
		}
	}
	return false
}

// key returns a canonical form of the list that ignores pattern order
// and duplicates.
func (l PatternList) key() string {
	s := make([]string, len(l))
	for i, p := range l {
		s[i] = p.String()
	}
	slices.Sort(s)
	return strings.Join(slices.Compact(s), ",")
}
