// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/nesgen/schedule"
)

// Scheduler renders the scheduler artifact: the scanline and chunk index
// tables, the flat action index table, one callback per unique action and
// the actionFor lookup function.
//
// The generated file expects its package to declare a Scheduler interface
// providing every method named in the timing table's code.
func Scheduler(b *Builder, t *schedule.Tables, opts Options) error {
	if err := checkRange(t); err != nil {
		return err
	}

	bodies := make([][]string, len(t.Actions))
	for id, action := range t.Actions {
		calls, err := actionCalls(action)
		if err != nil {
			return fmt.Errorf("action %d: %w", id, err)
		}
		bodies[id] = calls
	}

	header(b, opts)

	b.Blank()
	b.Block("const (", func() {
		b.Linef("frameScanlines = %d", t.Frame.Scanlines)
		b.Linef("frameDots      = %d", t.Frame.Dots)
	}, ")")

	b.Blank()
	b.Line("// A scanlineEntry is a run of identical scanlines. Its chunks are")
	b.Line("// chunks[firstChunk] through chunks[lastChunk].")
	b.Block("type scanlineEntry struct {", func() {
		b.Line("times      uint16")
		b.Line("firstChunk uint16")
		b.Line("lastChunk  uint16")
	}, "}")
	b.Blank()
	b.Line("// A chunkEntry is a repeated pattern of actions. Its actions are")
	b.Line("// actionIDs[firstAction] through actionIDs[lastAction].")
	b.Block("type chunkEntry struct {", func() {
		b.Line("times       uint16")
		b.Line("firstAction uint16")
		b.Line("lastAction  uint16")
	}, "}")

	b.Blank()
	b.Block("var scanlines = [...]scanlineEntry{", func() {
		for _, e := range t.Scanlines {
			b.Linef("{times: %d, firstChunk: %d, lastChunk: %d},", e.Times, e.FirstChunk, e.LastChunk)
		}
	}, "}")

	b.Blank()
	b.Block("var chunks = [...]chunkEntry{", func() {
		for _, e := range t.Chunks {
			b.Linef("{times: %d, firstAction: %d, lastAction: %d},", e.Times, e.FirstAction, e.LastAction)
		}
	}, "}")

	ids := make([]string, len(t.ActionIDs))
	for i, id := range t.ActionIDs {
		ids[i] = strconv.Itoa(id)
	}
	b.Blank()
	b.Line("// actionIDs maps a flat action index to a unique action.")
	b.Block("var actionIDs = [...]uint16{", func() {
		valueLines(b, ids, 16)
	}, "}")

	for id, calls := range bodies {
		b.Blank()
		b.Block(fmt.Sprintf("func action%d[T Scheduler](ppu T) {", id), func() {
			for _, call := range calls {
				b.Line(call)
			}
		}, "}")
	}

	b.Blank()
	b.Line("// actionFor returns the callback executed at a flat action index.")
	b.Block("func actionFor[T Scheduler](index int) func(T) {", func() {
		b.Block("switch actionIDs[index] {", func() {
			for id := range bodies {
				b.Linef("case %d:", id)
				b.Indent()
				b.Linef("return action%d[T]", id)
				b.Dedent()
			}
		}, "}")
		b.Line(`panic("invalid action index")`)
	}, "}")
	return nil
}

// Check that every table value fits into the uint16 fields of the
// generated tables.
func checkRange(t *schedule.Tables) error {
	const limit = 0xffff
	for i, e := range t.Scanlines {
		if e.Times > limit || e.LastChunk > limit {
			return fmt.Errorf("%w: scanline entry %d", ErrRange, i)
		}
	}
	for i, e := range t.Chunks {
		if e.Times > limit || e.LastAction > limit {
			return fmt.Errorf("%w: chunk entry %d", ErrRange, i)
		}
	}
	if len(t.Actions) > limit+1 {
		return fmt.Errorf("%w: %d unique actions", ErrRange, len(t.Actions))
	}
	return nil
}

// Split an action into method calls on the video unit. Rules contributing
// to an action are separated by newlines and their statements by
// semicolons.
func actionCalls(action string) ([]string, error) {
	var calls []string
	for _, line := range strings.Split(action, "\n") {
		for _, stmt := range strings.Split(line, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			call, err := methodCall("ppu", stmt)
			if err != nil {
				return nil, err
			}
			calls = append(calls, call)
		}
	}
	return calls, nil
}
