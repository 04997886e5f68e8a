package mos6502

import "fmt"

// Disassemble formats the single instruction at pc as a short
// assembly-like string, reading operand bytes through read. Unknown
// opcodes are rendered as raw bytes rather than causing an error, since
// disassembly is a debug aid and never drives execution.
func Disassemble(pc uint16, read func(uint16) uint8) string {
	op, ok := opcodes[read(pc)]
	if !ok {
		return fmt.Sprintf("%04X  %02X      ??? (unofficial/unknown opcode)", pc, read(pc))
	}

	switch op.bytes {
	case 1:
		return fmt.Sprintf("%04X  %02X        %s", pc, read(pc), operandString(op, pc, read))
	case 2:
		arg := read(pc + 1)
		return fmt.Sprintf("%04X  %02X %02X     %s", pc, read(pc), arg, operandString(op, pc, read))
	default:
		lo, hi := read(pc+1), read(pc+2)
		return fmt.Sprintf("%04X  %02X %02X %02X  %s", pc, read(pc), lo, hi, operandString(op, pc, read))
	}
}

func operandString(op opcode, pc uint16, read func(uint16) uint8) string {
	switch op.mode {
	case IMPLICIT:
		return op.name
	case ACCUMULATOR:
		return op.name + " A"
	case IMMEDIATE:
		return fmt.Sprintf("%s #$%02X", op.name, read(pc+1))
	case ZERO_PAGE:
		return fmt.Sprintf("%s $%02X", op.name, read(pc+1))
	case ZERO_PAGE_X:
		return fmt.Sprintf("%s $%02X,X", op.name, read(pc+1))
	case ZERO_PAGE_Y:
		return fmt.Sprintf("%s $%02X,Y", op.name, read(pc+1))
	case RELATIVE:
		offset := int8(read(pc + 1))
		target := uint16(int32(pc) + 2 + int32(offset))
		return fmt.Sprintf("%s $%04X", op.name, target)
	case ABSOLUTE:
		return fmt.Sprintf("%s $%02X%02X", op.name, read(pc+2), read(pc+1))
	case ABSOLUTE_X:
		return fmt.Sprintf("%s $%02X%02X,X", op.name, read(pc+2), read(pc+1))
	case ABSOLUTE_Y:
		return fmt.Sprintf("%s $%02X%02X,Y", op.name, read(pc+2), read(pc+1))
	case INDIRECT:
		return fmt.Sprintf("%s ($%02X%02X)", op.name, read(pc+2), read(pc+1))
	case INDIRECT_X:
		return fmt.Sprintf("%s ($%02X,X)", op.name, read(pc+1))
	case INDIRECT_Y:
		return fmt.Sprintf("%s ($%02X),Y", op.name, read(pc+1))
	default:
		return op.name
	}
}
