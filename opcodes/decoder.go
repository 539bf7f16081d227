// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import (
	"fmt"
	"strings"
)

// UnknownMnemonic is the mnemonic of opcodes missing from the table.
const UnknownMnemonic = "UNK"

// UnknownCallback is the dispatch id of opcodes missing from the table.
const UnknownCallback = -1

// An Operand is the decoded operand of an instruction: an Imm8, an Imm16
// or a Location.
type Operand interface {
	operand()
}

// Imm8 is a bare 8-bit immediate operand.
type Imm8 uint8

// Imm16 is a bare 16-bit immediate operand.
type Imm16 uint16

// A Location is an addressed operand. Mnemonics shared by several opcodes
// always decode to a Location, so that a single operand type covers all
// of their variants.
type Location struct {
	Kind  ModeKind
	Reg   Register
	Value uint16
}

func (Imm8) operand()     {}
func (Imm16) operand()    {}
func (Location) operand() {}

// Decoded is the result of decoding an opcode and its operand bytes.
type Decoded struct {
	Mnemonic string
	Operand  Operand // nil for implied addressing
}

// A Callback is a deduplicated execution sequence. Opcodes whose code is
// identical after normalization share one callback.
type Callback struct {
	ID        int
	Canonical string   // normalized code, the deduplication key
	Code      []string // statements of the first opcode declaring it
	Opcodes   []byte   // opcodes dispatching to the callback
}

// Steps returns the statements executed before the final one. Each step
// may fail, in which case the callback returns early.
func (c *Callback) Steps() []string {
	return c.Code[:len(c.Code)-1]
}

// Final returns the statement whose result is the callback's result.
func (c *Callback) Final() string {
	return c.Code[len(c.Code)-1]
}

// A Decoder holds the three opcode-indexed tables compiled from an opcode
// table.
type Decoder struct {
	table      *Table
	mnemonics  []string
	operands   [256]operandTemplate
	attributes [256]Attribute
	dispatch   [256]int
	callbacks  []*Callback
}

// operandTemplate describes how an opcode's operand bytes are turned into
// an Operand.
type operandTemplate struct {
	form OperandForm
	mode AddressingMode
}

// OperandForm selects the Go representation of a decoded operand.
type OperandForm byte

// Operand forms.
const (
	FormNone     OperandForm = iota // implied addressing
	FormImm8                        // bare Imm8
	FormImm16                       // bare Imm16
	FormLocation                    // Location
)

// Build compiles the decoder, attribute and dispatch tables of an opcode
// table.
func Build(t *Table) (*Decoder, error) {
	d := &Decoder{table: t}

	seen := make(map[string]bool)
	for _, inst := range t.Instructions {
		name := strings.ToUpper(inst.Mnemonic)
		if !seen[name] {
			seen[name] = true
			d.mnemonics = append(d.mnemonics, name)
		}
	}

	for opcode := 0; opcode < 256; opcode++ {
		d.attributes[opcode] = AttrSingleByte
		d.dispatch[opcode] = UnknownCallback

		inst := t.Lookup(byte(opcode))
		if inst == nil {
			continue
		}

		tmpl, err := resolveOperand(inst)
		if err != nil {
			return nil, err
		}
		d.operands[opcode] = tmpl

		a, err := inst.Attribute()
		if err != nil {
			return nil, err
		}
		d.attributes[opcode] = a
	}

	byCanonical := make(map[string]*Callback)
	for _, inst := range t.Instructions {
		key := canonicalCode(inst.Code)
		cb, ok := byCanonical[key]
		if !ok {
			cb = &Callback{ID: len(d.callbacks), Canonical: key, Code: inst.Code}
			byCanonical[key] = cb
			d.callbacks = append(d.callbacks, cb)
		}
		cb.Opcodes = append(cb.Opcodes, inst.Opcode)
		d.dispatch[inst.Opcode] = cb.ID
	}

	return d, nil
}

// Determine the operand representation of an instruction from its
// disassembly mode and the uniqueness of its mnemonic.
func resolveOperand(inst *Instruction) (operandTemplate, error) {
	if inst.Implied() {
		return operandTemplate{form: FormNone}, nil
	}

	m, ok := inst.DisassemblyMode()
	if !ok {
		return operandTemplate{}, fmt.Errorf("opcode $%02X (%s): %w '%s'",
			inst.Opcode, inst.Mnemonic, ErrAddressingMode, inst.Addressing.Disassembly)
	}

	switch {
	case m.Kind == ModeImm8 && inst.Single():
		return operandTemplate{form: FormImm8, mode: m}, nil
	case m.Kind == ModeImm16 && inst.Single():
		return operandTemplate{form: FormImm16, mode: m}, nil
	default:
		return operandTemplate{form: FormLocation, mode: m}, nil
	}
}

// Normalize an instruction's code so that textually identical sequences
// compare equal regardless of spacing and statement terminators.
func canonicalCode(code []string) string {
	stmts := make([]string, len(code))
	for i, stmt := range code {
		stmts[i] = strings.Join(strings.Fields(stmt), "")
	}
	return strings.Join(stmts, ";")
}

// Table returns the opcode table the decoder was built from.
func (d *Decoder) Table() *Table {
	return d.table
}

// Mnemonics returns the distinct mnemonics in first-declared order,
// followed by UnknownMnemonic.
func (d *Decoder) Mnemonics() []string {
	return append(append([]string{}, d.mnemonics...), UnknownMnemonic)
}

// Form returns the operand representation of an opcode and the addressing
// mode it is rendered from.
func (d *Decoder) Form(opcode byte) (OperandForm, AddressingMode) {
	t := d.operands[opcode]
	return t.form, t.mode
}

// Decode decodes an opcode and the two bytes following it.
func (d *Decoder) Decode(opcode, lo, hi byte) Decoded {
	inst := d.table.Lookup(opcode)
	if inst == nil {
		return Decoded{Mnemonic: UnknownMnemonic, Operand: Imm8(opcode)}
	}

	arg16 := uint16(lo) | uint16(hi)<<8
	dec := Decoded{Mnemonic: strings.ToUpper(inst.Mnemonic)}

	t := d.operands[opcode]
	switch t.form {
	case FormImm8:
		dec.Operand = Imm8(lo)
	case FormImm16:
		dec.Operand = Imm16(arg16)
	case FormLocation:
		loc := Location{Kind: t.mode.Kind}
		switch t.mode.Kind {
		case IndexedZP, Indexed, Register8:
			loc.Reg = t.mode.Reg
		}
		switch t.mode.Kind {
		case ModeImm16, Abs, Indexed:
			loc.Value = arg16
		case Register8:
		default:
			loc.Value = uint16(lo)
		}
		dec.Operand = loc
	}
	return dec
}

// Attributes returns the attribute byte of every opcode. Opcodes missing
// from the table have only the single-byte bit set.
func (d *Decoder) Attributes() [256]Attribute {
	return d.attributes
}

// AttributesFor returns the attribute byte of one opcode.
func (d *Decoder) AttributesFor(opcode byte) Attribute {
	return d.attributes[opcode]
}

// Dispatch returns the callback id executed by an opcode, or
// UnknownCallback.
func (d *Decoder) Dispatch(opcode byte) int {
	return d.dispatch[opcode]
}

// Callbacks returns the deduplicated callbacks in id order.
func (d *Decoder) Callbacks() []*Callback {
	return d.callbacks
}
