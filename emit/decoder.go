// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"fmt"
	"go/ast"
	"go/parser"
	"slices"
	"strings"

	"github.com/beevik/nesgen/opcodes"
)

// Names of the generated location kinds, indexed by opcodes.ModeKind.
var locationKindName = []string{
	"LocImm8",
	"LocAbs",
	"LocAbsZP",
	"LocIndexedZP",
	"LocIndexed",
	"LocIndexedIndirect",
	"LocIndirectIndexed",
	"LocReg",
	"LocImm16",
}

// Names of the generated registers, indexed by opcodes.Register.
var registerName = []string{"RegA", "RegX", "RegY", "RegSP"}

// Decoder renders the decoder artifact: the Mnemonic enumeration, the
// DecodeInstruction function, the OpcodeAttributes table and the
// InstructionForOpcode dispatch function with its callbacks.
//
// The generated file expects its package to declare a Core interface
// providing every method named in the opcode table's code, plus unk,
// each returning (Status, error).
func Decoder(b *Builder, dec *opcodes.Decoder, opts Options) error {
	header(b, opts)
	renderMnemonics(b, dec)
	renderOperandTypes(b)
	renderDecodeInstruction(b, dec)
	renderAttributes(b, dec)
	return renderDispatch(b, dec)
}

func renderMnemonics(b *Builder, dec *opcodes.Decoder) {
	names := dec.Mnemonics()

	b.Blank()
	b.Line("// A Mnemonic identifies a decoded instruction.")
	b.Line("type Mnemonic uint8")
	b.Blank()
	b.Line("// All mnemonics. UNK is the mnemonic of undefined opcodes.")
	b.Block("const (", func() {
		for i, name := range names {
			if i == 0 {
				b.Linef("%s Mnemonic = iota", name)
			} else {
				b.Line(name)
			}
		}
	}, ")")

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	b.Blank()
	b.Block("var mnemonicNames = [...]string{", func() {
		valueLines(b, quoted, 8)
	}, "}")
	b.Blank()
	b.Block("func (m Mnemonic) String() string {", func() {
		b.Line("return mnemonicNames[m]")
	}, "}")
}

func renderOperandTypes(b *Builder) {
	b.Blank()
	b.Line("// A Register is an operand or index register.")
	b.Line("type Register uint8")
	b.Blank()
	b.Block("const (", func() {
		for i, name := range registerName {
			if i == 0 {
				b.Linef("%s Register = iota", name)
			} else {
				b.Line(name)
			}
		}
	}, ")")

	b.Blank()
	b.Line("// A LocationKind describes how an addressed operand is located.")
	b.Line("type LocationKind uint8")
	b.Blank()
	b.Block("const (", func() {
		for i, name := range locationKindName {
			if i == 0 {
				b.Linef("%s LocationKind = iota", name)
			} else {
				b.Line(name)
			}
		}
	}, ")")

	b.Blank()
	b.Line("// A Location is an addressed operand.")
	b.Block("type Location struct {", func() {
		b.Line("Kind  LocationKind")
		b.Line("Reg   Register")
		b.Line("Value uint16")
	}, "}")

	b.Blank()
	b.Line("// An OperandForm selects which operand field of an Instruction is valid.")
	b.Line("type OperandForm uint8")
	b.Blank()
	b.Block("const (", func() {
		b.Line("FormNone OperandForm = iota")
		b.Line("FormImm8")
		b.Line("FormImm16")
		b.Line("FormLocation")
	}, ")")

	b.Blank()
	b.Line("// An Instruction is a decoded opcode and its operand.")
	b.Block("type Instruction struct {", func() {
		b.Line("Mnemonic Mnemonic")
		b.Line("Form     OperandForm")
		b.Line("Imm      uint16 // FormImm8 and FormImm16")
		b.Line("Loc      Location")
	}, "}")
}

func renderDecodeInstruction(b *Builder, dec *opcodes.Decoder) {
	const arg16 = "uint16(argLo)|uint16(argHi)<<8"

	b.Blank()
	b.Line("// DecodeInstruction decodes an opcode and the two bytes following it.")
	b.Block("func DecodeInstruction(opcode, argLo, argHi uint8) Instruction {", func() {
		b.Block("switch opcode {", func() {
			for _, inst := range byOpcode(dec.Table()) {
				mnemonic := strings.ToUpper(inst.Mnemonic)
				form, mode := dec.Form(inst.Opcode)

				var lit string
				switch form {
				case opcodes.FormNone:
					lit = fmt.Sprintf("Instruction{Mnemonic: %s}", mnemonic)
				case opcodes.FormImm8:
					lit = fmt.Sprintf("Instruction{Mnemonic: %s, Form: FormImm8, Imm: uint16(argLo)}", mnemonic)
				case opcodes.FormImm16:
					lit = fmt.Sprintf("Instruction{Mnemonic: %s, Form: FormImm16, Imm: %s}", mnemonic, arg16)
				case opcodes.FormLocation:
					loc := "Kind: " + locationKindName[mode.Kind]
					switch mode.Kind {
					case opcodes.IndexedZP, opcodes.Indexed, opcodes.Register8:
						loc += ", Reg: " + registerName[mode.Reg]
					}
					switch mode.Kind {
					case opcodes.ModeImm16, opcodes.Abs, opcodes.Indexed:
						loc += ", Value: " + arg16
					case opcodes.Register8:
					default:
						loc += ", Value: uint16(argLo)"
					}
					lit = fmt.Sprintf("Instruction{Mnemonic: %s, Form: FormLocation, Loc: Location{%s}}", mnemonic, loc)
				}

				b.Linef("case 0x%02X:", inst.Opcode)
				b.Indent()
				b.Line("return " + lit)
				b.Dedent()
			}
			b.Line("default:")
			b.Indent()
			b.Linef("return Instruction{Mnemonic: %s, Form: FormImm8, Imm: uint16(opcode)}", opcodes.UnknownMnemonic)
			b.Dedent()
		}, "}")
	}, "}")
}

func renderAttributes(b *Builder, dec *opcodes.Decoder) {
	attrs := dec.Attributes()

	b.Blank()
	b.Line("// OpcodeAttributes holds the packed attribute byte of every opcode.")
	b.Line("//")
	b.Line("//\t76543210")
	b.Line("//\tIFERRAAA")
	b.Line("//\tI -> single byte instruction")
	b.Line("//\tF -> operand is fetched from the computed address")
	b.Line("//\tE -> extra cycle always spent")
	b.Line("//\tR -> register (00=A 01=X 10=Y 11=SP)")
	b.Line("//\tA -> addressing mode")
	b.Block("var OpcodeAttributes = [256]uint8{", func() {
		for row := 0; row < 256; row += 8 {
			values := make([]string, 8)
			for i := range values {
				values[i] = fmt.Sprintf("0x%02X", uint8(attrs[row+i]))
			}
			b.Linef("%s, // 0x%02X", strings.Join(values, ", "), row)
		}
	}, "}")

	b.Blank()
	b.Line("// AttributesFor returns the attribute byte of an opcode.")
	b.Block("func AttributesFor(opcode uint8) uint8 {", func() {
		b.Line("return OpcodeAttributes[opcode]")
	}, "}")
}

func renderDispatch(b *Builder, dec *opcodes.Decoder) error {
	b.Blank()
	b.Block("func execUnknown[T Core](cpu T) (Status, error) {", func() {
		b.Line("return cpu.unk()")
	}, "}")

	for _, cb := range dec.Callbacks() {
		steps := make([]string, len(cb.Code))
		for i, stmt := range cb.Code {
			call, err := methodCall("cpu", stmt)
			if err != nil {
				return fmt.Errorf("opcode $%02X: %w", cb.Opcodes[0], err)
			}
			steps[i] = call
		}

		b.Blank()
		b.Linef("// %s", cb.Canonical)
		b.Block(fmt.Sprintf("func exec%d[T Core](cpu T) (Status, error) {", cb.ID), func() {
			for _, step := range steps[:len(steps)-1] {
				b.Block(fmt.Sprintf("if status, err := %s; err != nil {", step), func() {
					b.Line("return status, err")
				}, "}")
			}
			b.Line("return " + steps[len(steps)-1])
		}, "}")
	}

	b.Blank()
	b.Line("// InstructionForOpcode returns the callback executing an opcode.")
	b.Block("func InstructionForOpcode[T Core](opcode uint8) func(T) (Status, error) {", func() {
		b.Block("switch opcode {", func() {
			for _, cb := range dec.Callbacks() {
				ops := slices.Clone(cb.Opcodes)
				slices.Sort(ops)
				cases := make([]string, len(ops))
				for i, op := range ops {
					cases[i] = fmt.Sprintf("0x%02X", op)
				}
				b.Linef("case %s:", strings.Join(cases, ", "))
				b.Indent()
				b.Linef("return exec%d[T]", cb.ID)
				b.Dedent()
			}
			b.Line("default:")
			b.Indent()
			b.Line("return execUnknown[T]")
			b.Dedent()
		}, "}")
	}, "}")
	return nil
}

// Return the table's instructions in opcode order.
func byOpcode(t *opcodes.Table) []*opcodes.Instruction {
	var insts []*opcodes.Instruction
	for op := range 256 {
		if inst := t.Lookup(byte(op)); inst != nil {
			insts = append(insts, inst)
		}
	}
	return insts
}

// Render a code statement as a method call on the receiver.
func methodCall(recv, stmt string) (string, error) {
	call := recv + "." + strings.TrimSpace(stmt)
	expr, err := parser.ParseExpr(call)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStatement, stmt)
	}
	c, ok := expr.(*ast.CallExpr)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrStatement, stmt)
	}
	sel, ok := c.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrStatement, stmt)
	}
	if id, ok := sel.X.(*ast.Ident); !ok || id.Name != recv {
		return "", fmt.Errorf("%w: %q", ErrStatement, stmt)
	}
	return call, nil
}
