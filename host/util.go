// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNumber = errors.New("invalid number")

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

// Parse a number written as $hex, 0xhex, 0bbinary, 0ddecimal or decimal.
func parseNumber(s string) (int64, error) {
	base, num := 10, s

	switch {
	case strings.HasPrefix(num, "$"):
		base, num = 16, num[1:]
	case len(num) > 2 && num[0] == '0':
		switch num[1] {
		case 'x', 'X':
			base, num = 16, num[2:]
		case 'b', 'B':
			base, num = 2, num[2:]
		case 'd', 'D':
			base, num = 10, num[2:]
		}
	}

	if num == "" || num[0] == '-' || num[0] == '+' {
		return 0, fmt.Errorf("%w '%s'", errNumber, s)
	}
	v, err := strconv.ParseInt(num, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w '%s'", errNumber, s)
	}
	return v, nil
}

// Parse a number that must fit into a byte.
func parseByte(s string) (byte, error) {
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v > 0xff {
		return 0, fmt.Errorf("value '%s' does not fit in a byte", s)
	}
	return byte(v), nil
}
