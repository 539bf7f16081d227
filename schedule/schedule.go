// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedule compresses a per-cycle action matrix into the
// three-level scanline, chunk and action tables consumed by the video
// emulator at runtime.
//
// Compilation runs in three steps. Identical consecutive scanlines are
// collapsed into runs, each run's dot actions are split into repeating
// chunks, and every distinct action string is interned into a table of
// unique actions. The result can be linked into flat index tables (see
// Link) or expanded back into the original matrix.
package schedule

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/nesgen/timing"
)

// Option type used by the Compile function.
type Option uint

// Options for the Compile function.
const (
	Verbose Option = 1 << iota // verbose output during compilation
)

// A Chunk is a pattern of interned action ids repeated Times times.
type Chunk struct {
	Times   int
	Actions []int
}

// A Scanline is a run of identical scanlines split into chunks.
type Scanline struct {
	Times  int
	Chunks []Chunk
}

// A Schedule is the compressed form of an action matrix.
type Schedule struct {
	Frame     timing.Frame
	Scanlines []Scanline
	Actions   []string // unique actions, indexed by id
}

// The compiler is a state object used during compilation.
type compiler struct {
	matrix  *timing.Matrix
	limit   int
	runs    []ScanlineRun
	chunks  [][]ChunkRun // chunks of each run
	sched   *Schedule
	out     io.Writer
	verbose bool
}

// Compile compresses an action matrix using repeating windows of at most
// limit actions. Identical matrices always produce identical schedules.
func Compile(m *timing.Matrix, limit int, out io.Writer, options Option) *Schedule {
	if out == nil {
		out = os.Stdout
	}
	if limit < 1 {
		limit = DefaultReduceLimit
	}

	c := &compiler{
		matrix:  m,
		limit:   limit,
		sched:   &Schedule{Frame: m.Frame},
		out:     out,
		verbose: (options & Verbose) != 0,
	}

	// Compilation consists of the following steps
	steps := []func(c *compiler){
		(*compiler).compressScanlines, // Collapse identical scanlines
		(*compiler).compressChunks,    // Split each scanline into chunks
		(*compiler).internActions,     // Assign ids to unique actions
	}
	for _, step := range steps {
		step(c)
	}
	return c.sched
}

func (c *compiler) compressScanlines() {
	c.logSection("Compressing scanlines")

	c.runs = CompressScanlines(c.matrix)
	first := 0
	for _, r := range c.runs {
		c.log("%3d..%-3d %dx", first, first+r.Times-1, r.Times)
		first += r.Times
	}
}

func (c *compiler) compressChunks() {
	c.logSection("Compressing chunks")

	c.chunks = make([][]ChunkRun, len(c.runs))
	for i, r := range c.runs {
		c.chunks[i] = CompressChunks(r.Actions, c.limit)
		c.log("run %-3d %3d chunks", i, len(c.chunks[i]))
	}
}

func (c *compiler) internActions() {
	c.logSection("Interning actions")

	ids := make(map[string]int)
	for i, r := range c.runs {
		sl := Scanline{Times: r.Times, Chunks: make([]Chunk, len(c.chunks[i]))}
		for j, cr := range c.chunks[i] {
			ch := Chunk{Times: cr.Times, Actions: make([]int, len(cr.Actions))}
			for k, action := range cr.Actions {
				id, ok := ids[action]
				if !ok {
					id = len(c.sched.Actions)
					ids[action] = id
					c.sched.Actions = append(c.sched.Actions, action)
					c.log("%3d  %s", id, oneLine(action))
				}
				ch.Actions[k] = id
			}
			sl.Chunks[j] = ch
		}
		c.sched.Scanlines = append(c.sched.Scanlines, sl)
	}
}

// In verbose mode, log a string to the output.
func (c *compiler) log(format string, args ...any) {
	if c.verbose {
		fmt.Fprintf(c.out, format, args...)
		fmt.Fprintf(c.out, "\n")
	}
}

// In verbose mode, output a section header.
func (c *compiler) logSection(name string) {
	if c.verbose {
		fmt.Fprintln(c.out, strings.Repeat("-", len(name)+6))
		fmt.Fprintf(c.out, "-- %s --\n", name)
		fmt.Fprintln(c.out, strings.Repeat("-", len(name)+6))
	}
}

// Expand rebuilds the full action matrix from the schedule.
func (s *Schedule) Expand() [][]string {
	var rows [][]string
	for _, sl := range s.Scanlines {
		row := make([]string, 0, s.Frame.Dots)
		for _, ch := range sl.Chunks {
			for range ch.Times {
				for _, id := range ch.Actions {
					row = append(row, s.Actions[id])
				}
			}
		}
		for range sl.Times {
			rows = append(rows, row)
		}
	}
	return rows
}

// ChunkCount returns the total number of chunks in the schedule.
func (s *Schedule) ChunkCount() int {
	n := 0
	for _, sl := range s.Scanlines {
		n += len(sl.Chunks)
	}
	return n
}

// Dump writes a human-readable listing of every scanline run, chunk and
// action in the schedule.
func (s *Schedule) Dump(w io.Writer) {
	first := 0
	for _, sl := range s.Scanlines {
		fmt.Fprintf(w, "scanlines %d..%d (%dx)\n", first, first+sl.Times-1, sl.Times)
		first += sl.Times

		dot := 0
		for _, ch := range sl.Chunks {
			n := ch.Times * len(ch.Actions)
			fmt.Fprintf(w, "    %dx dots %d..%d\n", ch.Times, dot, dot+n-1)
			for _, id := range ch.Actions {
				fmt.Fprintf(w, "        [%d] %s\n", id, oneLine(s.Actions[id]))
			}
			dot += n
		}
	}
}

// Join the statements of a multi-line action for single-line display.
func oneLine(action string) string {
	if action == "" {
		return "<idle>"
	}
	return strings.ReplaceAll(action, "\n", " ; ")
}
