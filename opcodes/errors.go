// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories reported by the opcode table parser.
var (
	ErrParse           = errors.New("malformed opcode row")
	ErrDuplicateOpcode = errors.New("duplicate opcode")
	ErrAddressingMode  = errors.New("unknown addressing mode")
)

// An Error describes a single problem found on one row of an opcode table.
type Error struct {
	File string // name of the opcode table
	Line int    // 1-based line number
	Text string // the offending row
	Err  error  // error category
	Msg  string // detail
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s line %d: %v: %s\n    %s", e.File, e.Line, e.Err, e.Msg, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// An ErrorList contains every error encountered while parsing an opcode
// table. A table with a non-empty error list produces no output.
type ErrorList []*Error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap allows errors.Is to match any of the contained categories.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
