// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timing parses per-cycle video timing rules and expands them into
// a dense (scanline, dot) action matrix.
//
// A timing table row has three columns separated by two or more spaces:
//
//	SCANLINES  DOTS  CODE
//
// Each pattern column is a comma-separated list of values (v), ranges
// (lo..hi) or cycles (first..step..last). A row with a single column
// attaches more code to the patterns of the previous row, and
//
//	define NAME VALUE
//
// declares an alias that may be used inside pattern columns.
package timing

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// A Rule maps a set of (scanline, dot) coordinates to code executed at
// each of them.
type Rule struct {
	Scanlines PatternList
	Dots      PatternList
	Code      string
	Line      int // line of the first row contributing to the rule
}

// Matches returns true if the rule applies to the coordinate.
func (r *Rule) Matches(scanline, dot int) bool {
	return r.Scanlines.Matches(scanline) && r.Dots.Matches(dot)
}

// A symbol is a textual alias declared with define.
type symbol struct {
	name  string
	value string
}

var (
	defineLeadExpr = regexp.MustCompile(`^%?define(\s|$)`)
	defineExpr     = regexp.MustCompile(`^%?define\s+(\S+)\s+(\S+)$`)
	columnExpr     = regexp.MustCompile(`\s{2,}`)
	cycleExpr      = regexp.MustCompile(`^(\d+)\.\.(\d+)\.\.(\d+)$`)
	rangeExpr      = regexp.MustCompile(`^(\d+)\.\.(\d+)$`)
	valueExpr      = regexp.MustCompile(`^(\d+)$`)
)

// The parser is a state object used while reading a timing table.
type parser struct {
	name    string
	symbols []symbol // sorted longest name first
	rules   []*Rule
	index   map[string]*Rule // pattern set key -> rule
	last    []string         // pattern columns of the previous row
	errors  ErrorList
}

// Parse reads a timing table. Rules with identical scanline and dot
// pattern sets are merged, their code joined in declaration order. All
// malformed lines are reported; if there are any, the returned error is
// an ErrorList and no rules are returned.
func Parse(r io.Reader, name string) ([]*Rule, error) {
	p := &parser{name: name, index: make(map[string]*Rule)}

	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p.parseLine(row, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return p.rules, nil
}

func (p *parser) addError(row int, text string, err error, format string, args ...any) {
	p.errors = append(p.errors, &Error{
		File: p.name,
		Line: row,
		Text: text,
		Err:  err,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// Parse a single non-empty line of the timing table.
func (p *parser) parseLine(row int, text string) {
	if defineLeadExpr.MatchString(text) {
		m := defineExpr.FindStringSubmatch(text)
		if m == nil {
			p.addError(row, text, ErrDefine, "expected 'define NAME VALUE'")
			return
		}
		p.define(m[1], m[2])
		return
	}

	columns := columnExpr.Split(text, -1)
	if len(columns) == 1 {
		if p.last == nil {
			p.addError(row, text, ErrColumns, "no previous row to take patterns from on line %d", row)
			return
		}
		columns = []string{p.last[0], p.last[1], columns[0]}
	}
	if len(columns) != 3 {
		p.addError(row, text, ErrColumns, "expected 1 or 3 columns on line %d, found %d", row, len(columns))
		p.last = nil
		return
	}
	p.last = columns[:2]

	scanlines, ok1 := p.translate(row, text, columns[0])
	dots, ok2 := p.translate(row, text, columns[1])
	if !ok1 || !ok2 {
		return
	}

	rule := &Rule{Scanlines: scanlines, Dots: dots, Code: columns[2], Line: row}
	key := scanlines.key() + "|" + dots.key()
	if prev, ok := p.index[key]; ok {
		prev.Code += "\n" + rule.Code
		return
	}
	p.index[key] = rule
	p.rules = append(p.rules, rule)
}

// Register an alias, replacing any previous definition of the name.
func (p *parser) define(name, value string) {
	for i := range p.symbols {
		if p.symbols[i].name == name {
			p.symbols[i].value = value
			return
		}
	}
	p.symbols = append(p.symbols, symbol{name, value})
	slices.SortStableFunc(p.symbols, func(a, b symbol) int {
		return len(b.name) - len(a.name)
	})
}

// Translate a comma-separated pattern column into a pattern list.
func (p *parser) translate(row int, text, column string) (PatternList, bool) {
	var list PatternList
	ok := true
	for _, item := range strings.Split(column, ",") {
		item = strings.TrimSpace(item)
		for _, s := range p.symbols {
			item = strings.ReplaceAll(item, s.name, s.value)
		}

		pattern, err := parsePattern(item)
		if err != nil {
			p.addError(row, text, ErrPattern, "%v", err)
			ok = false
			continue
		}
		list = append(list, pattern)
	}
	return list, ok
}

// ParsePattern parses a single value, range or cycle pattern.
func ParsePattern(s string) (Pattern, error) {
	return parsePattern(strings.TrimSpace(s))
}

func parsePattern(s string) (Pattern, error) {
	if m := cycleExpr.FindStringSubmatch(s); m != nil {
		v, err := atoi(s, m[1:])
		if err != nil {
			return nil, err
		}
		c := Cycle{First: v[0], Step: v[1], Last: v[2]}
		if c.Step <= c.First {
			return nil, fmt.Errorf("cycle '%s' must have its step after its first value", s)
		}
		return c, nil
	}
	if m := rangeExpr.FindStringSubmatch(s); m != nil {
		v, err := atoi(s, m[1:])
		if err != nil {
			return nil, err
		}
		return Range{Lo: v[0], Hi: v[1]}, nil
	}
	if m := valueExpr.FindStringSubmatch(s); m != nil {
		v, err := atoi(s, m[1:])
		if err != nil {
			return nil, err
		}
		return Value(v[0]), nil
	}
	return nil, fmt.Errorf("'%s'", s)
}

// Convert the decimal fields of a pattern.
func atoi(s string, fields []string) ([]int, error) {
	v := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("'%s' is out of range", s)
		}
		v[i] = n
	}
	return v, nil
}
