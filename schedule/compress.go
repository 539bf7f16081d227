// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import (
	"slices"

	"github.com/beevik/nesgen/timing"
)

// DefaultReduceLimit is the longest repeating window the chunk compressor
// searches for.
const DefaultReduceLimit = 8

// A ScanlineRun is a run of consecutive scanlines sharing the same
// sequence of dot actions.
type ScanlineRun struct {
	Times   int
	Actions []string
}

// A ChunkRun is a pattern of dot actions repeated Times times.
type ChunkRun struct {
	Times   int
	Actions []string
}

// Len returns the number of dots covered by the chunk.
func (c *ChunkRun) Len() int {
	return c.Times * len(c.Actions)
}

// CompressScanlines collapses consecutive identical rows of the matrix.
func CompressScanlines(m *timing.Matrix) []ScanlineRun {
	var runs []ScanlineRun
	for _, row := range m.Rows() {
		if n := len(runs); n > 0 && slices.Equal(runs[n-1].Actions, row) {
			runs[n-1].Times++
			continue
		}
		runs = append(runs, ScanlineRun{Times: 1, Actions: row})
	}
	return runs
}

// CompressChunks splits a row of actions into repeating chunks. At each
// position the smallest period L in 1..limit whose action L dots ahead
// equals the current one is chosen, and the L-action pattern is repeated
// for as long as whole windows match. Actions without a period are
// accumulated into the previous chunk if it does not repeat.
func CompressChunks(row []string, limit int) []ChunkRun {
	if limit < 1 {
		limit = DefaultReduceLimit
	}

	var chunks []ChunkRun
	for i := 0; i < len(row); {
		period := 0
		for l := 1; l <= limit && i+l < len(row); l++ {
			if row[i+l] == row[i] {
				period = l
				break
			}
		}

		if period == 0 {
			if n := len(chunks); n > 0 && chunks[n-1].Times == 1 {
				chunks[n-1].Actions = append(chunks[n-1].Actions, row[i])
			} else {
				chunks = append(chunks, ChunkRun{Times: 1, Actions: []string{row[i]}})
			}
			i++
			continue
		}

		pattern := row[i : i+period]
		times := 0
		for j := i; j+period <= len(row) && slices.Equal(row[j:j+period], pattern); j += period {
			times++
		}
		chunks = append(chunks, ChunkRun{Times: times, Actions: slices.Clone(pattern)})
		i += times * period
	}
	return chunks
}
