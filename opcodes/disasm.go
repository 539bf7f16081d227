// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import "fmt"

// Disassembler formatting for location kinds
var locationFormat = []string{
	"#$%02X",    // ModeImm8
	"$%04X",     // Abs
	"$%02X",     // AbsZP
	"$%02X,%s",  // IndexedZP
	"$%04X,%s",  // Indexed
	"($%02X,X)", // IndexedIndirect
	"($%02X),Y", // IndirectIndexed
	"%s",        // Register8
	"#$%04X",    // ModeImm16
}

func (o Imm8) String() string {
	return fmt.Sprintf("#$%02X", uint8(o))
}

func (o Imm16) String() string {
	return fmt.Sprintf("#$%04X", uint16(o))
}

func (l Location) String() string {
	switch l.Kind {
	case Register8:
		return fmt.Sprintf(locationFormat[l.Kind], l.Reg)
	case IndexedZP, Indexed:
		return fmt.Sprintf(locationFormat[l.Kind], l.Value, l.Reg)
	default:
		return fmt.Sprintf(locationFormat[l.Kind], l.Value)
	}
}

// Disassemble returns the assembly language form of a decoded
// instruction.
func Disassemble(d Decoded) string {
	if d.Operand == nil {
		return d.Mnemonic
	}
	if d.Mnemonic == UnknownMnemonic {
		return fmt.Sprintf("%s $%02X", d.Mnemonic, uint8(d.Operand.(Imm8)))
	}
	return fmt.Sprintf("%s %v", d.Mnemonic, d.Operand)
}
