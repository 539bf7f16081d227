// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opcodes compiles a textual CPU opcode table into the decoder,
// attribute and dispatch tables used by a cycle-accurate emulator.
//
// Each row of an opcode table has the form
//
//	0xHH ACCESS MNEMONIC ADDRESSING CODE
//
// where ACCESS is one of R, RW, W, ? or _, ADDRESSING is a mode token or a
// pair of tokens "emulation|disassembly", and CODE is a ';'-separated list
// of operation statements executed by the instruction.
package opcodes

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Access describes how an instruction uses its memory operand.
type Access byte

// Memory access kinds.
const (
	AccessNone Access = iota // _
	AccessRead               // R
	AccessWrite              // W
	AccessReadWrite          // RW
	AccessUnknown            // ?
)

var accessTokens = map[string]Access{
	"_":  AccessNone,
	"R":  AccessRead,
	"W":  AccessWrite,
	"RW": AccessReadWrite,
	"?":  AccessUnknown,
}

var accessName = []string{"_", "R", "W", "RW", "?"}

func (a Access) String() string {
	return accessName[a]
}

// Reads returns true if the instruction loads its operand from memory.
func (a Access) Reads() bool {
	return a == AccessRead || a == AccessReadWrite
}

// An Instruction is a single row of the opcode table.
type Instruction struct {
	Opcode     byte
	Access     Access
	Mnemonic   string
	Addressing AddressingSpec
	Code       []string // operation statements in execution order
	Line       int      // source line number

	table *Table
}

// Single returns true if no other opcode in the table shares the
// instruction's mnemonic.
func (i *Instruction) Single() bool {
	return i.table.variants[i.Mnemonic] == 1
}

// Implied returns true if the instruction is disassembled without an
// operand. A register operand is dropped only when the mnemonic is unique;
// shared mnemonics (such as ASL A and ASL $10) keep it so their variants
// remain distinguishable.
func (i *Instruction) Implied() bool {
	tok := i.Addressing.Disassembly
	if tok == ImpliedToken {
		return true
	}
	return i.Single() && strings.HasPrefix(tok, registerPrefix)
}

// EmulationMode returns the addressing mode the emulator uses to fetch the
// operand. The second result is false for instructions without one.
func (i *Instruction) EmulationMode() (AddressingMode, bool) {
	if i.Addressing.Emulation == ImpliedToken {
		return AddressingMode{}, false
	}
	return ParseMode(i.Addressing.Emulation)
}

// DisassemblyMode returns the addressing mode used to render the operand.
// The second result is false for instructions without one.
func (i *Instruction) DisassemblyMode() (AddressingMode, bool) {
	if i.Addressing.Disassembly == ImpliedToken {
		return AddressingMode{}, false
	}
	return ParseMode(i.Addressing.Disassembly)
}

// Attribute computes the packed attribute byte of the instruction.
func (i *Instruction) Attribute() (Attribute, error) {
	m, ok := i.EmulationMode()
	if !ok {
		return AttrSingleByte, nil
	}

	a, err := EncodeMode(m)
	if err != nil {
		return 0, fmt.Errorf("opcode $%02X (%s %s): %w", i.Opcode, i.Mnemonic, i.Addressing, err)
	}
	if i.Access.Reads() && !m.Immediate() && m.Kind != Register8 {
		a |= AttrFetch
	}
	if m.Kind == Register8 {
		a |= AttrSingleByte
	}
	return a, nil
}

// A Table is a parsed opcode table.
type Table struct {
	Instructions []*Instruction // instructions in declaration order

	opcodes  [256]*Instruction
	variants map[string]int // mnemonic -> number of opcodes using it
}

// Lookup returns the instruction assigned to an opcode, or nil if the
// opcode is not in the table.
func (t *Table) Lookup(opcode byte) *Instruction {
	return t.opcodes[opcode]
}

var rowExpr = regexp.MustCompile(`^0x([0-9A-Fa-f]{2})\s+(RW|R|W|\?|_)\s+(\S+)\s+(\S+)\s+(.+)$`)

// Parse reads an opcode table. The name is used only in error messages.
// All malformed rows are reported; if there are any, the returned error is
// an ErrorList and no table is returned.
func Parse(r io.Reader, name string) (*Table, error) {
	t := &Table{variants: make(map[string]int)}
	var errs ErrorList

	addError := func(line int, text string, err error, format string, args ...any) {
		errs = append(errs, &Error{
			File: name,
			Line: line,
			Text: text,
			Err:  err,
			Msg:  fmt.Sprintf(format, args...),
		})
	}

	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		m := rowExpr.FindStringSubmatch(text)
		if m == nil {
			addError(row, text, ErrParse, "expected '0xHH ACCESS MNEMONIC ADDRESSING CODE'")
			continue
		}

		opcode, _ := strconv.ParseUint(m[1], 16, 8)
		inst := &Instruction{
			Opcode:     byte(opcode),
			Access:     accessTokens[m[2]],
			Mnemonic:   m[3],
			Addressing: parseAddressingSpec(m[4]),
			Code:       splitCode(m[5]),
			Line:       row,
			table:      t,
		}

		if strings.EqualFold(inst.Mnemonic, UnknownMnemonic) {
			addError(row, text, ErrParse, "mnemonic %s is reserved for unknown opcodes", UnknownMnemonic)
			continue
		}
		if prev := t.opcodes[inst.Opcode]; prev != nil {
			addError(row, text, ErrDuplicateOpcode, "opcode $%02X already declared on line %d", inst.Opcode, prev.Line)
			continue
		}

		if tok := inst.Addressing.Emulation; tok != ImpliedToken {
			if m, ok := ParseMode(tok); !ok || !m.Encodable() {
				addError(row, text, ErrAddressingMode, "'%s' cannot be used as an emulation mode of %s", tok, inst.Mnemonic)
				continue
			}
		}
		if tok := inst.Addressing.Disassembly; tok != ImpliedToken {
			if _, ok := ParseMode(tok); !ok {
				addError(row, text, ErrAddressingMode, "'%s' is not a disassembly mode of %s", tok, inst.Mnemonic)
				continue
			}
		}
		if len(inst.Code) == 0 {
			addError(row, text, ErrParse, "instruction %s has no code", inst.Mnemonic)
			continue
		}

		t.opcodes[inst.Opcode] = inst
		t.variants[inst.Mnemonic]++
		t.Instructions = append(t.Instructions, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return t, nil
}

// Split a code column into its trimmed, non-empty statements.
func splitCode(s string) []string {
	var stmts []string
	for _, stmt := range strings.Split(s, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
