// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timing

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories reported by the timing table parser.
var (
	ErrColumns = errors.New("messed up spacing between columns")
	ErrPattern = errors.New("unparsable pattern")
	ErrDefine  = errors.New("malformed define")
)

// An Error describes a problem found on one line of a timing table.
type Error struct {
	File string
	Line int
	Text string
	Err  error
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s line %d: %v: %s\n    %s", e.File, e.Line, e.Err, e.Msg, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// An ErrorList holds every error found in a timing table.
type ErrorList []*Error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
