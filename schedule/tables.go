// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import "github.com/beevik/nesgen/timing"

// A ScanlineEntry is one row of the linked scanline table. Its chunks
// are Chunks[FirstChunk] through Chunks[LastChunk].
type ScanlineEntry struct {
	Times      int
	FirstChunk int
	LastChunk  int
}

// A ChunkEntry is one row of the linked chunk table. Its actions are
// ActionIDs[FirstAction] through ActionIDs[LastAction].
type ChunkEntry struct {
	Times       int
	FirstAction int
	LastAction  int
}

// Tables hold a schedule flattened into index ranges. A flat action
// index addresses ActionIDs, which holds the id of the unique action in
// Actions executed at that position.
type Tables struct {
	Frame     timing.Frame
	Scanlines []ScanlineEntry
	Chunks    []ChunkEntry
	ActionIDs []int
	Actions   []string
	entries   []int // scanline number -> scanline entry index
}

// Link flattens a schedule into tables, computing every index range from
// running totals over the scanline and chunk lists.
func Link(s *Schedule) *Tables {
	t := &Tables{
		Frame:   s.Frame,
		Actions: s.Actions,
	}

	for i, sl := range s.Scanlines {
		first := len(t.Chunks)
		for _, ch := range sl.Chunks {
			t.Chunks = append(t.Chunks, ChunkEntry{
				Times:       ch.Times,
				FirstAction: len(t.ActionIDs),
				LastAction:  len(t.ActionIDs) + len(ch.Actions) - 1,
			})
			t.ActionIDs = append(t.ActionIDs, ch.Actions...)
		}
		t.Scanlines = append(t.Scanlines, ScanlineEntry{
			Times:      sl.Times,
			FirstChunk: first,
			LastChunk:  len(t.Chunks) - 1,
		})
		for range sl.Times {
			t.entries = append(t.entries, i)
		}
	}
	return t
}

// Locate returns the flat action index executed at a coordinate, or -1 if
// the coordinate lies outside the frame.
func (t *Tables) Locate(scanline, dot int) int {
	if scanline < 0 || scanline >= len(t.entries) || dot < 0 {
		return -1
	}

	e := &t.Scanlines[t.entries[scanline]]
	for i := e.FirstChunk; i <= e.LastChunk; i++ {
		ch := &t.Chunks[i]
		width := ch.LastAction - ch.FirstAction + 1
		if n := width * ch.Times; dot >= n {
			dot -= n
			continue
		}
		return ch.FirstAction + dot%width
	}
	return -1
}

// ActionAt returns the action code executed at a coordinate.
func (t *Tables) ActionAt(scanline, dot int) (string, bool) {
	i := t.Locate(scanline, dot)
	if i < 0 {
		return "", false
	}
	return t.Actions[t.ActionIDs[i]], true
}

// A Cursor walks the tables one dot at a time, the way the emulator
// steps through them at runtime. After the last dot of the frame it
// wraps to the first.
type Cursor struct {
	t             *Tables
	scanline      int // scanline entry index
	scanlineCount int
	chunk         int
	chunkCount    int
	action        int
}

// NewCursor returns a cursor positioned on the first dot of the frame.
func (t *Tables) NewCursor() *Cursor {
	c := &Cursor{t: t}
	c.reset()
	return c
}

func (c *Cursor) reset() {
	c.scanline, c.scanlineCount = 0, 0
	c.chunkCount = 0
	c.chunk = c.t.Scanlines[0].FirstChunk
	c.action = c.t.Chunks[c.chunk].FirstAction
}

// Action returns the flat action index at the cursor.
func (c *Cursor) Action() int {
	return c.action
}

// ActionID returns the unique action id at the cursor.
func (c *Cursor) ActionID() int {
	return c.t.ActionIDs[c.action]
}

// Advance moves the cursor to the next dot.
func (c *Cursor) Advance() {
	c.action++

	ch := &c.t.Chunks[c.chunk]
	if c.action <= ch.LastAction {
		return
	}

	c.chunkCount++
	if c.chunkCount != ch.Times {
		c.action = ch.FirstAction
		return
	}

	c.chunkCount = 0
	c.chunk++

	sl := &c.t.Scanlines[c.scanline]
	if c.chunk <= sl.LastChunk {
		c.action = c.t.Chunks[c.chunk].FirstAction
		return
	}

	c.scanlineCount++
	if c.scanlineCount != sl.Times {
		c.chunk = sl.FirstChunk
		c.action = c.t.Chunks[c.chunk].FirstAction
		return
	}

	c.scanlineCount = 0
	c.scanline++
	if c.scanline >= len(c.t.Scanlines) {
		c.scanline = 0
	}
	c.chunk = c.t.Scanlines[c.scanline].FirstChunk
	c.action = c.t.Chunks[c.chunk].FirstAction
}
