// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/beevik/nesgen/timing"
)

func repeatRow(period, n int) []string {
	row := make([]string, n)
	for i := range row {
		row[i] = fmt.Sprintf("a%d", i%period)
	}
	return row
}

func expandChunks(chunks []ChunkRun) []string {
	var row []string
	for _, c := range chunks {
		for range c.Times {
			row = append(row, c.Actions...)
		}
	}
	return row
}

func checkChunks(t *testing.T, name string, row []string, exp []ChunkRun) {
	t.Helper()
	got := CompressChunks(row, DefaultReduceLimit)
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("%s: chunks incorrect.\nexp: %v\ngot: %v", name, exp, got)
	}
	if !slices.Equal(expandChunks(got), row) {
		t.Errorf("%s: chunks do not expand to the original row", name)
	}
}

func TestCompressUniformRow(t *testing.T) {
	row := repeatRow(1, 341)
	checkChunks(t, "uniform", row, []ChunkRun{{Times: 341, Actions: []string{"a0"}}})
}

func TestCompressPeriodAtLimit(t *testing.T) {
	row := repeatRow(DefaultReduceLimit, 341)
	checkChunks(t, "period 8", row, []ChunkRun{
		{Times: 42, Actions: repeatRow(8, 8)},
		{Times: 1, Actions: repeatRow(8, 5)},
	})
}

func TestCompressPeriodBeyondLimit(t *testing.T) {
	row := repeatRow(DefaultReduceLimit+1, 341)
	checkChunks(t, "period 9", row, []ChunkRun{{Times: 1, Actions: row}})
}

func TestCompressNoRepetition(t *testing.T) {
	row := repeatRow(341, 341)
	checkChunks(t, "distinct", row, []ChunkRun{{Times: 1, Actions: row}})
}

func TestCompressChunkBoundaries(t *testing.T) {
	checkChunks(t, "shortest period wins",
		[]string{"x", "x", "y", "x", "x", "y"},
		[]ChunkRun{
			{Times: 2, Actions: []string{"x"}},
			{Times: 1, Actions: []string{"y", "x", "x", "y"}},
		})

	checkChunks(t, "partial window",
		[]string{"x", "y", "x", "y", "x", "z"},
		[]ChunkRun{
			{Times: 2, Actions: []string{"x", "y"}},
			{Times: 1, Actions: []string{"x", "z"}},
		})

	checkChunks(t, "repeating chunk stays closed",
		[]string{"A", "A", "B", "C"},
		[]ChunkRun{
			{Times: 2, Actions: []string{"A"}},
			{Times: 1, Actions: []string{"B", "C"}},
		})

	checkChunks(t, "single window absorbs literals",
		[]string{"A", "B", "A", "C"},
		[]ChunkRun{{Times: 1, Actions: []string{"A", "B", "A", "C"}}})
}

func TestCompressScanlines(t *testing.T) {
	m := timing.NewMatrix([][]string{
		{"a", "b"},
		{"a", "b"},
		{"c", "b"},
		{"a", "b"},
	})
	runs := CompressScanlines(m)
	exp := []int{2, 1, 1}
	if len(runs) != len(exp) {
		t.Fatalf("expected %d runs, got %d", len(exp), len(runs))
	}
	for i, r := range runs {
		if r.Times != exp[i] {
			t.Errorf("run %d times incorrect. exp: %d, got: %d", i, exp[i], r.Times)
		}
	}
}

func TestInternOrder(t *testing.T) {
	m := timing.NewMatrix([][]string{
		{"b", "a", "b", "c"},
		{"c", "d", "a", "a"},
	})
	s := Compile(m, DefaultReduceLimit, &bytes.Buffer{}, 0)
	if exp := []string{"b", "a", "c", "d"}; !slices.Equal(s.Actions, exp) {
		t.Errorf("interned actions incorrect. exp: %v, got: %v", exp, s.Actions)
	}
}

func randomRules(rng *rand.Rand, frame timing.Frame) []*timing.Rule {
	pattern := func(n int) timing.Pattern {
		switch rng.IntN(3) {
		case 0:
			return timing.Value(rng.IntN(n))
		case 1:
			lo := rng.IntN(n)
			return timing.Range{Lo: lo, Hi: lo + rng.IntN(n-lo)}
		default:
			first := rng.IntN(n / 2)
			step := first + 1 + rng.IntN(12)
			return timing.Cycle{First: first, Step: step, Last: step + rng.IntN(n)}
		}
	}

	codes := []string{"fetch();", "shift();", "inc_hori();", "inc_vert();", "sprite();"}
	rules := make([]*timing.Rule, 3+rng.IntN(10))
	for i := range rules {
		rules[i] = &timing.Rule{
			Scanlines: timing.PatternList{pattern(frame.Scanlines)},
			Dots:      timing.PatternList{pattern(frame.Dots), pattern(frame.Dots)},
			Code:      codes[rng.IntN(len(codes))],
		}
	}
	return rules
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(6502, 2002))
	for iter := range 20 {
		m := timing.BuildMatrix(randomRules(rng, timing.NTSC), timing.NTSC)
		s := Compile(m, DefaultReduceLimit, &bytes.Buffer{}, 0)

		if !reflect.DeepEqual(s.Expand(), m.Rows()) {
			t.Fatalf("iteration %d: expanded schedule differs from matrix", iter)
		}

		tables := Link(s)
		for scanline := range timing.NTSC.Scanlines {
			for dot := range timing.NTSC.Dots {
				got, ok := tables.ActionAt(scanline, dot)
				if !ok || got != m.At(scanline, dot) {
					t.Fatalf("iteration %d: action at (%d,%d) incorrect. exp: %q, got: %q",
						iter, scanline, dot, m.At(scanline, dot), got)
				}
			}
		}
	}
}

func TestCursor(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	m := timing.BuildMatrix(randomRules(rng, timing.NTSC), timing.NTSC)
	tables := Link(Compile(m, DefaultReduceLimit, &bytes.Buffer{}, 0))

	c := tables.NewCursor()
	for pass := range 2 {
		for scanline := range timing.NTSC.Scanlines {
			for dot := range timing.NTSC.Dots {
				if exp := tables.Locate(scanline, dot); c.Action() != exp {
					t.Fatalf("pass %d: cursor at (%d,%d) incorrect. exp: %d, got: %d",
						pass, scanline, dot, exp, c.Action())
				}
				if tables.Actions[c.ActionID()] != m.At(scanline, dot) {
					t.Fatalf("pass %d: cursor action at (%d,%d) incorrect", pass, scanline, dot)
				}
				c.Advance()
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	rules := randomRules(rng, timing.NTSC)

	a := Link(Compile(timing.BuildMatrix(rules, timing.NTSC), DefaultReduceLimit, &bytes.Buffer{}, 0))
	b := Link(Compile(timing.BuildMatrix(rules, timing.NTSC), DefaultReduceLimit, &bytes.Buffer{}, 0))
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input produced different tables")
	}
}

func TestLinkRanges(t *testing.T) {
	m := timing.NewMatrix([][]string{
		{"a", "a", "a", "b", "c"},
		{"a", "a", "a", "b", "c"},
		{"d", "e", "d", "e", "d"},
	})
	tables := Link(Compile(m, DefaultReduceLimit, &bytes.Buffer{}, 0))

	expScanlines := []ScanlineEntry{
		{Times: 2, FirstChunk: 0, LastChunk: 1},
		{Times: 1, FirstChunk: 2, LastChunk: 3},
	}
	expChunks := []ChunkEntry{
		{Times: 3, FirstAction: 0, LastAction: 0},
		{Times: 1, FirstAction: 1, LastAction: 2},
		{Times: 2, FirstAction: 3, LastAction: 4},
		{Times: 1, FirstAction: 5, LastAction: 5},
	}
	if !reflect.DeepEqual(tables.Scanlines, expScanlines) {
		t.Errorf("scanline table incorrect.\nexp: %v\ngot: %v", expScanlines, tables.Scanlines)
	}
	if !reflect.DeepEqual(tables.Chunks, expChunks) {
		t.Errorf("chunk table incorrect.\nexp: %v\ngot: %v", expChunks, tables.Chunks)
	}
	if exp := []int{0, 1, 2, 3, 4, 3}; !slices.Equal(tables.ActionIDs, exp) {
		t.Errorf("action ids incorrect. exp: %v, got: %v", exp, tables.ActionIDs)
	}
	if tables.Locate(3, 0) != -1 || tables.Locate(0, 5) != -1 {
		t.Error("Locate accepted a coordinate outside the frame")
	}
}

func TestVerboseAndDump(t *testing.T) {
	m := timing.NewMatrix([][]string{{"x();", "x();\ny();", ""}})

	var log bytes.Buffer
	s := Compile(m, DefaultReduceLimit, &log, Verbose)
	for _, section := range []string{"-- Compressing scanlines --", "-- Compressing chunks --", "-- Interning actions --"} {
		if !strings.Contains(log.String(), section) {
			t.Errorf("verbose output missing %q", section)
		}
	}

	var quiet bytes.Buffer
	Compile(m, DefaultReduceLimit, &quiet, 0)
	if quiet.Len() != 0 {
		t.Errorf("non-verbose compile produced output: %q", quiet.String())
	}

	var dump bytes.Buffer
	s.Dump(&dump)
	for _, want := range []string{"scanlines 0..0 (1x)", "1x dots 0..2", "[1] x(); ; y();", "[2] <idle>"} {
		if !strings.Contains(dump.String(), want) {
			t.Errorf("dump missing %q:\n%s", want, dump.String())
		}
	}
}
