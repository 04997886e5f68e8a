package mos6502

// dispatch maps each mnemonic to the function that implements it. Built
// once at init time rather than resolved by reflection on every
// instruction, which is both faster and lets the compiler catch a typo'd
// mnemonic at link time instead of panicking at runtime.
var dispatch map[string]func(*CPU, uint8)

func init() {
	dispatch = map[string]func(*CPU, uint8){
		"ADC": (*CPU).ADC, "AND": (*CPU).AND, "ASL": (*CPU).ASL,
		"BCC": (*CPU).BCC, "BCS": (*CPU).BCS, "BEQ": (*CPU).BEQ,
		"BIT": (*CPU).BIT, "BMI": (*CPU).BMI, "BNE": (*CPU).BNE,
		"BPL": (*CPU).BPL, "BRK": (*CPU).BRK, "BVC": (*CPU).BVC,
		"BVS": (*CPU).BVS, "CLC": (*CPU).CLC, "CLD": (*CPU).CLD,
		"CLI": (*CPU).CLI, "CLV": (*CPU).CLV, "CMP": (*CPU).CMP,
		"CPX": (*CPU).CPX, "CPY": (*CPU).CPY, "DEC": (*CPU).DEC,
		"DEX": (*CPU).DEX, "DEY": (*CPU).DEY, "EOR": (*CPU).EOR,
		"INC": (*CPU).INC, "INX": (*CPU).INX, "INY": (*CPU).INY,
		"JMP": (*CPU).JMP, "JSR": (*CPU).JSR, "LDA": (*CPU).LDA,
		"LDX": (*CPU).LDX, "LDY": (*CPU).LDY, "LSR": (*CPU).LSR,
		"NOP": (*CPU).NOP, "ORA": (*CPU).ORA, "PHA": (*CPU).PHA,
		"PHP": (*CPU).PHP, "PLA": (*CPU).PLA, "PLP": (*CPU).PLP,
		"ROL": (*CPU).ROL, "ROR": (*CPU).ROR, "RTI": (*CPU).RTI,
		"RTS": (*CPU).RTS, "SBC": (*CPU).SBC, "SEC": (*CPU).SEC,
		"SED": (*CPU).SED, "SEI": (*CPU).SEI, "STA": (*CPU).STA,
		"STX": (*CPU).STX, "STY": (*CPU).STY, "TAX": (*CPU).TAX,
		"TAY": (*CPU).TAY, "TSX": (*CPU).TSX, "TXA": (*CPU).TXA,
		"TXS": (*CPU).TXS, "TYA": (*CPU).TYA,
	}
}

func (c *CPU) ADC(mode uint8) { c.addWithOverflow(c.read(c.getOperandAddr(mode))) }

func (c *CPU) AND(mode uint8) {
	c.acc &= c.read(c.getOperandAddr(mode))
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) ASL(mode uint8) {
	var ov, nv uint8
	if mode == ACCUMULATOR {
		ov = c.acc
		nv = ov << 1
		c.acc = nv
	} else {
		addr := c.getOperandAddr(mode)
		ov = c.read(addr)
		nv = ov << 1
		c.write(addr, nv)
	}
	c.setNegativeAndZeroFlags(nv)
	if ov&0x80 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	} else {
		c.flagsOff(STATUS_FLAG_CARRY)
	}
}

func (c *CPU) BCC(mode uint8) { c.branch(STATUS_FLAG_CARRY, false) }
func (c *CPU) BCS(mode uint8) { c.branch(STATUS_FLAG_CARRY, true) }
func (c *CPU) BEQ(mode uint8) { c.branch(STATUS_FLAG_ZERO, true) }

func (c *CPU) BIT(mode uint8) {
	v := c.read(c.getOperandAddr(mode))
	res := c.acc & v
	if res == 0 {
		c.flagsOn(STATUS_FLAG_ZERO)
	} else {
		c.flagsOff(STATUS_FLAG_ZERO)
	}
	c.status = (c.status &^ (STATUS_FLAG_OVERFLOW | STATUS_FLAG_NEGATIVE)) | (v & (STATUS_FLAG_OVERFLOW | STATUS_FLAG_NEGATIVE))
}

func (c *CPU) BMI(mode uint8) { c.branch(STATUS_FLAG_NEGATIVE, true) }
func (c *CPU) BNE(mode uint8) { c.branch(STATUS_FLAG_ZERO, false) }
func (c *CPU) BPL(mode uint8) { c.branch(STATUS_FLAG_NEGATIVE, false) }

// BRK forces a software interrupt. Although it is a one-byte opcode, the
// byte that follows is a padding byte that's skipped; the return address
// pushed to the stack is pc+1 (pc having already moved past the opcode
// byte itself in step).
func (c *CPU) BRK(mode uint8) {
	c.pushAddress(c.pc + 1)
	c.pushStack(c.status | STATUS_FLAG_BREAK | UNUSED_STATUS_FLAG)
	c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE)
	c.pc = c.read16(INT_BRK)
}

func (c *CPU) BVC(mode uint8) { c.branch(STATUS_FLAG_OVERFLOW, false) }
func (c *CPU) BVS(mode uint8) { c.branch(STATUS_FLAG_OVERFLOW, true) }

func (c *CPU) CLC(mode uint8) { c.flagsOff(STATUS_FLAG_CARRY) }
func (c *CPU) CLD(mode uint8) { c.flagsOff(STATUS_FLAG_DECIMAL) }
func (c *CPU) CLI(mode uint8) { c.flagsOff(STATUS_FLAG_INTERRUPT_DISABLE) }
func (c *CPU) CLV(mode uint8) { c.flagsOff(STATUS_FLAG_OVERFLOW) }

func (c *CPU) CMP(mode uint8) { c.baseCMP(c.acc, c.read(c.getOperandAddr(mode))) }
func (c *CPU) CPX(mode uint8) { c.baseCMP(c.x, c.read(c.getOperandAddr(mode))) }
func (c *CPU) CPY(mode uint8) { c.baseCMP(c.y, c.read(c.getOperandAddr(mode))) }

func (c *CPU) DEC(mode uint8) {
	addr := c.getOperandAddr(mode)
	v := c.read(addr) - 1
	c.write(addr, v)
	c.setNegativeAndZeroFlags(v)
}
func (c *CPU) DEX(mode uint8) { c.x--; c.setNegativeAndZeroFlags(c.x) }
func (c *CPU) DEY(mode uint8) { c.y--; c.setNegativeAndZeroFlags(c.y) }

func (c *CPU) EOR(mode uint8) {
	c.acc ^= c.read(c.getOperandAddr(mode))
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) INC(mode uint8) {
	addr := c.getOperandAddr(mode)
	v := c.read(addr) + 1
	c.write(addr, v)
	c.setNegativeAndZeroFlags(v)
}
func (c *CPU) INX(mode uint8) { c.x++; c.setNegativeAndZeroFlags(c.x) }
func (c *CPU) INY(mode uint8) { c.y++; c.setNegativeAndZeroFlags(c.y) }

func (c *CPU) JMP(mode uint8) { c.pc = c.getOperandAddr(mode) }

func (c *CPU) JSR(mode uint8) {
	target := c.getOperandAddr(mode)
	c.pushAddress(c.pc + 1) // address of the last byte of the JSR operand
	c.pc = target
}

func (c *CPU) LDA(mode uint8) { c.acc = c.read(c.getOperandAddr(mode)); c.setNegativeAndZeroFlags(c.acc) }
func (c *CPU) LDX(mode uint8) { c.x = c.read(c.getOperandAddr(mode)); c.setNegativeAndZeroFlags(c.x) }
func (c *CPU) LDY(mode uint8) { c.y = c.read(c.getOperandAddr(mode)); c.setNegativeAndZeroFlags(c.y) }

func (c *CPU) LSR(mode uint8) {
	var ov, nv uint8
	if mode == ACCUMULATOR {
		ov = c.acc
		nv = ov >> 1
		c.acc = nv
	} else {
		addr := c.getOperandAddr(mode)
		ov = c.read(addr)
		nv = ov >> 1
		c.write(addr, nv)
	}
	c.setNegativeAndZeroFlags(nv)
	if ov&0x01 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	} else {
		c.flagsOff(STATUS_FLAG_CARRY)
	}
}

func (c *CPU) NOP(mode uint8) {}

func (c *CPU) ORA(mode uint8) {
	c.acc |= c.read(c.getOperandAddr(mode))
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) PHA(mode uint8) { c.pushStack(c.acc) }

// PHP always pushes the status byte with Break and the unused bit set.
func (c *CPU) PHP(mode uint8) { c.pushStack(c.status | STATUS_FLAG_BREAK | UNUSED_STATUS_FLAG) }

func (c *CPU) PLA(mode uint8) { c.acc = c.popStack(); c.setNegativeAndZeroFlags(c.acc) }

// PLP restores every flag from the stack except Break and the unused
// bit, which are not real registers.
func (c *CPU) PLP(mode uint8) {
	c.status = (c.popStack() &^ STATUS_FLAG_BREAK) | UNUSED_STATUS_FLAG
}

func (c *CPU) ROL(mode uint8) {
	carryIn := c.status & STATUS_FLAG_CARRY
	var ov, nv, carryOut uint8
	if mode == ACCUMULATOR {
		ov = c.acc
		nv, carryOut = rotateLeft(ov, carryIn)
		c.acc = nv
	} else {
		addr := c.getOperandAddr(mode)
		ov = c.read(addr)
		nv, carryOut = rotateLeft(ov, carryIn)
		c.write(addr, nv)
	}
	c.setNegativeAndZeroFlags(nv)
	if carryOut != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	} else {
		c.flagsOff(STATUS_FLAG_CARRY)
	}
}

func (c *CPU) ROR(mode uint8) {
	carryIn := c.status & STATUS_FLAG_CARRY
	var ov, nv, carryOut uint8
	if mode == ACCUMULATOR {
		ov = c.acc
		nv, carryOut = rotateRight(ov, carryIn)
		c.acc = nv
	} else {
		addr := c.getOperandAddr(mode)
		ov = c.read(addr)
		nv, carryOut = rotateRight(ov, carryIn)
		c.write(addr, nv)
	}
	c.setNegativeAndZeroFlags(nv)
	if carryOut != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	} else {
		c.flagsOff(STATUS_FLAG_CARRY)
	}
}

func (c *CPU) RTI(mode uint8) {
	c.status = (c.popStack() &^ STATUS_FLAG_BREAK) | UNUSED_STATUS_FLAG
	c.pc = c.popAddress()
}

func (c *CPU) RTS(mode uint8) { c.pc = c.popAddress() + 1 }

func (c *CPU) SBC(mode uint8) { c.addWithOverflow(^c.read(c.getOperandAddr(mode))) }

func (c *CPU) SEC(mode uint8) { c.flagsOn(STATUS_FLAG_CARRY) }
func (c *CPU) SED(mode uint8) { c.flagsOn(STATUS_FLAG_DECIMAL) }
func (c *CPU) SEI(mode uint8) { c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE) }

func (c *CPU) STA(mode uint8) { c.write(c.getOperandAddr(mode), c.acc) }
func (c *CPU) STX(mode uint8) { c.write(c.getOperandAddr(mode), c.x) }
func (c *CPU) STY(mode uint8) { c.write(c.getOperandAddr(mode), c.y) }

func (c *CPU) TAX(mode uint8) { c.x = c.acc; c.setNegativeAndZeroFlags(c.x) }
func (c *CPU) TAY(mode uint8) { c.y = c.acc; c.setNegativeAndZeroFlags(c.y) }
func (c *CPU) TSX(mode uint8) { c.x = c.sp; c.setNegativeAndZeroFlags(c.x) }
func (c *CPU) TXA(mode uint8) { c.acc = c.x; c.setNegativeAndZeroFlags(c.acc) }
func (c *CPU) TXS(mode uint8) { c.sp = c.x }
func (c *CPU) TYA(mode uint8) { c.acc = c.y; c.setNegativeAndZeroFlags(c.acc) }
