// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit renders compiled decoder and scheduler tables as Go
// source files for the emulator runtime.
//
// Rendering writes into a Builder, which tracks indentation and the
// accumulated text. Source formats the result with go/format; a
// rendering that does not format is an error and yields no output.
package emit

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"strings"
)

// Errors returned by the renderers.
var (
	ErrStatement = errors.New("statement is not a call expression")
	ErrFormat    = errors.New("generated source does not format")
	ErrRange     = errors.New("table value does not fit in 16 bits")
)

// Options control the header of a generated file.
type Options struct {
	Package string // package clause of the generated file
	Source  string // name of the input file, mentioned in the header
}

// A Builder accumulates generated source text line by line.
type Builder struct {
	buf    bytes.Buffer
	indent int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Line writes one line at the current indentation.
func (b *Builder) Line(s string) {
	if s != "" {
		b.buf.WriteString(strings.Repeat("\t", b.indent))
		b.buf.WriteString(s)
	}
	b.buf.WriteByte('\n')
}

// Linef writes one formatted line at the current indentation.
func (b *Builder) Linef(format string, args ...any) {
	b.Line(fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (b *Builder) Blank() {
	b.buf.WriteByte('\n')
}

// Indent increases the indentation of subsequent lines.
func (b *Builder) Indent() {
	b.indent++
}

// Dedent decreases the indentation of subsequent lines.
func (b *Builder) Dedent() {
	if b.indent > 0 {
		b.indent--
	}
}

// Block writes an opening line, the lines produced by body one level
// deeper, and a closing line.
func (b *Builder) Block(open string, body func(), close string) {
	b.Line(open)
	b.Indent()
	body()
	b.Dedent()
	b.Line(close)
}

// Bytes returns the accumulated text.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// Source returns the accumulated text formatted by gofmt.
func Source(b *Builder) ([]byte, error) {
	src, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return src, nil
}

// Write the generated-file header and package clause.
func header(b *Builder, opts Options) {
	b.Linef("// Code generated by nesgen from %s; DO NOT EDIT.", opts.Source)
	b.Blank()
	b.Linef("package %s", opts.Package)
}

// Write a list of values several to a line inside a composite literal.
func valueLines(b *Builder, values []string, perLine int) {
	for i := 0; i < len(values); i += perLine {
		j := min(i+perLine, len(values))
		b.Line(strings.Join(values[i:j], ", ") + ",")
	}
}
