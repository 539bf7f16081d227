// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timing

import "strings"

// A Frame describes the dimensions of a video frame in scanlines and dots.
type Frame struct {
	Scanlines int
	Dots      int
}

// NTSC is the frame of the NES picture processing unit.
var NTSC = Frame{Scanlines: 262, Dots: 341}

// A Matrix holds the action executed at every (scanline, dot) coordinate
// of a frame. An action is the code of every rule matching the coordinate,
// joined by newlines in rule declaration order.
type Matrix struct {
	Frame Frame
	rows  [][]string
}

// BuildMatrix evaluates every rule at every coordinate of the frame.
func BuildMatrix(rules []*Rule, frame Frame) *Matrix {
	m := &Matrix{Frame: frame, rows: make([][]string, frame.Scanlines)}

	var matching []*Rule
	var codes []string
	for scanline := range frame.Scanlines {
		matching = matching[:0]
		for _, r := range rules {
			if r.Scanlines.Matches(scanline) {
				matching = append(matching, r)
			}
		}

		row := make([]string, frame.Dots)
		for dot := range frame.Dots {
			codes = codes[:0]
			for _, r := range matching {
				if r.Dots.Matches(dot) {
					codes = append(codes, r.Code)
				}
			}
			row[dot] = strings.Join(codes, "\n")
		}
		m.rows[scanline] = row
	}
	return m
}

// NewMatrix wraps precomputed rows. Every row must have the same length.
func NewMatrix(rows [][]string) *Matrix {
	m := &Matrix{rows: rows}
	m.Frame.Scanlines = len(rows)
	if len(rows) > 0 {
		m.Frame.Dots = len(rows[0])
	}
	return m
}

// At returns the action at a coordinate.
func (m *Matrix) At(scanline, dot int) string {
	return m.rows[scanline][dot]
}

// Row returns the actions of one scanline. The slice must not be
// modified.
func (m *Matrix) Row(scanline int) []string {
	return m.rows[scanline]
}

// Rows returns every scanline of the matrix.
func (m *Matrix) Rows() [][]string {
	return m.rows
}
