// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import (
	"fmt"
	"strings"
)

// Register identifies a CPU register used by register and indexed
// addressing modes.
type Register byte

// Registers, in attribute byte selector order.
const (
	RegA Register = iota
	RegX
	RegY
	RegSP
)

var registerName = []string{"A", "X", "Y", "SP"}

func (r Register) String() string {
	if int(r) < len(registerName) {
		return registerName[r]
	}
	return fmt.Sprintf("Register(%d)", byte(r))
}

// ModeKind describes how an instruction's operand is located.
type ModeKind byte

// All addressing mode kinds. The first eight values are also the 3-bit
// mode codes stored in an attribute byte.
const (
	ModeImm8        ModeKind = iota // 8-bit immediate
	Abs                             // absolute address
	AbsZP                           // zero page address
	IndexedZP                       // zero page address plus index register
	Indexed                         // absolute address plus index register
	IndexedIndirect                 // (zp,X)
	IndirectIndexed                 // (zp),Y
	Register8                       // register operand
	ModeImm16                       // 16-bit immediate, disassembly only
)

var modeKindName = []string{
	"imm8",
	"abs",
	"abs_zp",
	"indexed_zp",
	"indexed",
	"indexed_indirect",
	"indirect_indexed",
	"reg",
	"imm16",
}

func (k ModeKind) String() string {
	if int(k) < len(modeKindName) {
		return modeKindName[k]
	}
	return fmt.Sprintf("ModeKind(%d)", byte(k))
}

// An AddressingMode is a fully resolved addressing mode token.
type AddressingMode struct {
	Kind       ModeKind
	Reg        Register // index or operand register, when the kind uses one
	ExtraCycle bool     // the page-cross cycle is always spent
}

// Immediate returns true if the operand is the byte following the opcode.
func (m AddressingMode) Immediate() bool {
	return m.Kind == ModeImm8 || m.Kind == ModeImm16
}

// Encodable returns true if the mode fits into an attribute byte.
func (m AddressingMode) Encodable() bool {
	return m.Kind <= Register8
}

func (m AddressingMode) String() string {
	for tok, mode := range modeTokens {
		if mode == m {
			return tok
		}
	}
	return fmt.Sprintf("%v(%v)", m.Kind, m.Reg)
}

// ImpliedToken is the addressing token used by instructions without an
// operand.
const ImpliedToken = "_"

const (
	registerPrefix = "reg_"
	ecSuffix       = "_EC"
)

// All addressing mode tokens accepted in an opcode table.
var modeTokens = map[string]AddressingMode{
	"imm8":                {Kind: ModeImm8},
	"imm16":               {Kind: ModeImm16},
	"abs":                 {Kind: Abs},
	"abs_zp":              {Kind: AbsZP},
	"addx_zp":             {Kind: IndexedZP, Reg: RegX},
	"addy_zp":             {Kind: IndexedZP, Reg: RegY},
	"addx":                {Kind: Indexed, Reg: RegX},
	"addy":                {Kind: Indexed, Reg: RegY},
	"addx_EC":             {Kind: Indexed, Reg: RegX, ExtraCycle: true},
	"addy_EC":             {Kind: Indexed, Reg: RegY, ExtraCycle: true},
	"indexed_indirect":    {Kind: IndexedIndirect},
	"indexed_indirect_EC": {Kind: IndexedIndirect, ExtraCycle: true},
	"indirect_indexed":    {Kind: IndirectIndexed},
	"indirect_indexed_EC": {Kind: IndirectIndexed, ExtraCycle: true},
	"reg_a":               {Kind: Register8, Reg: RegA},
	"reg_x":               {Kind: Register8, Reg: RegX},
	"reg_y":               {Kind: Register8, Reg: RegY},
	"reg_sp":              {Kind: Register8, Reg: RegSP},
}

// ParseMode resolves an addressing mode token.
func ParseMode(tok string) (AddressingMode, bool) {
	m, ok := modeTokens[tok]
	return m, ok
}

// An AddressingSpec holds the addressing tokens of an instruction. The
// emulator fetches operands using the emulation token while disassembly
// text is rendered from the disassembly token. Both are usually the same.
type AddressingSpec struct {
	Emulation   string
	Disassembly string
}

func parseAddressingSpec(s string) AddressingSpec {
	if i := strings.IndexByte(s, '|'); i >= 0 {
		return AddressingSpec{Emulation: s[:i], Disassembly: s[i+1:]}
	}
	return AddressingSpec{Emulation: s, Disassembly: s}
}

func (a AddressingSpec) String() string {
	if a.Emulation == a.Disassembly {
		return a.Emulation
	}
	return a.Emulation + "|" + a.Disassembly
}

// Opcode attribute encoding:
//
//	76543210
//	IFERRAAA
//	I -> single byte instruction (the PC is not advanced past an operand)
//	F -> operand is fetched from the computed address
//	E -> extra cycle always spent by indexed and indirect_indexed modes
//	R -> register (00=A 01=X 10=Y 11=SP)
//	A -> addressing mode code
const (
	AttrSingleByte Attribute = 0x80
	AttrFetch      Attribute = 0x40
	AttrExtraCycle Attribute = 0x20
	attrRegMask    Attribute = 0x18
	attrRegShift             = 3
	attrModeMask   Attribute = 0x07
)

// An Attribute is the packed per-opcode attribute byte consumed by the
// emulator's fetch logic.
type Attribute uint8

// EncodeMode returns the low six bits of an attribute byte for the mode.
func EncodeMode(m AddressingMode) (Attribute, error) {
	if !m.Encodable() {
		return 0, fmt.Errorf("%w: %v has no attribute encoding", ErrAddressingMode, m)
	}
	a := Attribute(m.Kind) & attrModeMask
	switch m.Kind {
	case IndexedZP, Indexed, Register8:
		a |= Attribute(m.Reg) << attrRegShift
	}
	if m.ExtraCycle {
		a |= AttrExtraCycle
	}
	return a, nil
}

// SingleByte returns true if the instruction has no operand byte.
func (a Attribute) SingleByte() bool {
	return a&AttrSingleByte != 0
}

// Fetch returns true if the operand is loaded from the computed address.
func (a Attribute) Fetch() bool {
	return a&AttrFetch != 0
}

// ExtraCycle returns true if the page-cross cycle is always spent.
func (a Attribute) ExtraCycle() bool {
	return a&AttrExtraCycle != 0
}

// Register returns the register selector bits.
func (a Attribute) Register() Register {
	return Register((a & attrRegMask) >> attrRegShift)
}

// Kind returns the addressing mode code.
func (a Attribute) Kind() ModeKind {
	return ModeKind(a & attrModeMask)
}

// Mode unpacks the addressing mode stored in the attribute.
func (a Attribute) Mode() AddressingMode {
	m := AddressingMode{Kind: a.Kind(), ExtraCycle: a.ExtraCycle()}
	switch m.Kind {
	case IndexedZP, Indexed, Register8:
		m.Reg = a.Register()
	}
	return m
}
