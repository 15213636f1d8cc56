package cpu

// Load/store.

func (c *CPU) lda(addr uint16) uint8 { c.A = c.bus.Read(addr); c.setZN(c.A); return 0 }
func (c *CPU) ldx(addr uint16) uint8 { c.X = c.bus.Read(addr); c.setZN(c.X); return 0 }
func (c *CPU) ldy(addr uint16) uint8 { c.Y = c.bus.Read(addr); c.setZN(c.Y); return 0 }
func (c *CPU) sta(addr uint16) uint8 { c.bus.Write(addr, c.A); return 0 }
func (c *CPU) stx(addr uint16) uint8 { c.bus.Write(addr, c.X); return 0 }
func (c *CPU) sty(addr uint16) uint8 { c.bus.Write(addr, c.Y); return 0 }

// adc/sbc: non-decimal math is plain 9-bit addition/subtraction over
// two's complement. Decimal mode does BCD-nibble arithmetic with its own
// borrow/carry correction; Z and N are taken from the decimal-corrected
// accumulator, matching the result a BCD-aware test ROM expects.
func (c *CPU) adc(addr uint16) uint8 {
	value := c.bus.Read(addr)
	if c.D {
		c.decimalAdd(value)
	} else {
		c.binaryAdd(value)
	}
	return 0
}

func (c *CPU) sbc(addr uint16) uint8 {
	value := c.bus.Read(addr)
	if c.D {
		c.decimalSub(value)
	} else {
		c.binaryAdd(value ^ 0xFF)
	}
	return 0
}

func (c *CPU) binaryAdd(value uint8) {
	carry := uint16(0)
	if c.C {
		carry = 1
	}
	result := uint16(c.A) + uint16(value) + carry
	c.V = (c.A^uint8(result))&0x80 != 0 && (c.A^value)&0x80 == 0
	c.C = result > 0xFF
	c.A = uint8(result)
	c.setZN(c.A)
}

func (c *CPU) decimalAdd(value uint8) {
	carry := uint8(0)
	if c.C {
		carry = 1
	}
	binResult := uint16(c.A) + uint16(value) + uint16(carry)
	c.V = (c.A^uint8(binResult))&0x80 != 0 && (c.A^value)&0x80 == 0

	lo := (c.A & 0x0F) + (value & 0x0F) + carry
	hi := (c.A >> 4) + (value >> 4)
	if lo > 9 {
		lo += 6
		hi++
	}
	c.C = hi > 9
	if hi > 9 {
		hi += 6
	}
	c.A = (hi << 4) | (lo & 0x0F)
	c.setZN(c.A)
}

func (c *CPU) decimalSub(value uint8) {
	borrow := int16(1)
	if c.C {
		borrow = 0
	}
	binResult := int16(c.A) - int16(value) - borrow
	c.V = (c.A^value)&0x80 != 0 && (c.A^uint8(binResult))&0x80 != 0
	c.C = binResult >= 0

	lo := int16(c.A&0x0F) - int16(value&0x0F) - borrow
	hi := int16(c.A>>4) - int16(value>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}
	c.A = uint8(hi<<4) | uint8(lo&0x0F)
	c.setZN(c.A)
}

func (c *CPU) and(addr uint16) uint8 { c.A &= c.bus.Read(addr); c.setZN(c.A); return 0 }
func (c *CPU) ora(addr uint16) uint8 { c.A |= c.bus.Read(addr); c.setZN(c.A); return 0 }
func (c *CPU) eor(addr uint16) uint8 { c.A ^= c.bus.Read(addr); c.setZN(c.A); return 0 }

func (c *CPU) asl(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.C = v&0x80 != 0
	v <<= 1
	c.bus.Write(addr, v)
	c.setZN(v)
	return 0
}

func (c *CPU) lsr(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.C = v&0x01 != 0
	v >>= 1
	c.bus.Write(addr, v)
	c.setZN(v)
	return 0
}

func (c *CPU) rol(addr uint16) uint8 {
	v := c.bus.Read(addr)
	old := c.C
	c.C = v&0x80 != 0
	v <<= 1
	if old {
		v |= 0x01
	}
	c.bus.Write(addr, v)
	c.setZN(v)
	return 0
}

func (c *CPU) ror(addr uint16) uint8 {
	v := c.bus.Read(addr)
	old := c.C
	c.C = v&0x01 != 0
	v >>= 1
	if old {
		v |= 0x80
	}
	c.bus.Write(addr, v)
	c.setZN(v)
	return 0
}

func (c *CPU) cmp(addr uint16) uint8 { c.compare(c.A, c.bus.Read(addr)); return 0 }
func (c *CPU) cpx(addr uint16) uint8 { c.compare(c.X, c.bus.Read(addr)); return 0 }
func (c *CPU) cpy(addr uint16) uint8 { c.compare(c.Y, c.bus.Read(addr)); return 0 }

func (c *CPU) compare(reg, value uint8) {
	c.C = reg >= value
	c.setZN(reg - value)
}

func (c *CPU) inc(addr uint16) uint8 { v := c.bus.Read(addr) + 1; c.bus.Write(addr, v); c.setZN(v); return 0 }
func (c *CPU) dec(addr uint16) uint8 { v := c.bus.Read(addr) - 1; c.bus.Write(addr, v); c.setZN(v); return 0 }
func (c *CPU) inx(uint16) uint8      { c.X++; c.setZN(c.X); return 0 }
func (c *CPU) dex(uint16) uint8      { c.X--; c.setZN(c.X); return 0 }
func (c *CPU) iny(uint16) uint8      { c.Y++; c.setZN(c.Y); return 0 }
func (c *CPU) dey(uint16) uint8      { c.Y--; c.setZN(c.Y); return 0 }

func (c *CPU) tax(uint16) uint8 { c.X = c.A; c.setZN(c.X); return 0 }
func (c *CPU) txa(uint16) uint8 { c.A = c.X; c.setZN(c.A); return 0 }
func (c *CPU) tay(uint16) uint8 { c.Y = c.A; c.setZN(c.Y); return 0 }
func (c *CPU) tya(uint16) uint8 { c.A = c.Y; c.setZN(c.A); return 0 }
func (c *CPU) tsx(uint16) uint8 { c.X = c.SP; c.setZN(c.X); return 0 }
func (c *CPU) txs(uint16) uint8 { c.SP = c.X; return 0 }

func (c *CPU) pha(uint16) uint8 { c.push(c.A); return 0 }
func (c *CPU) pla(uint16) uint8 { c.A = c.pop(); c.setZN(c.A); return 0 }
func (c *CPU) php(uint16) uint8 { c.push(c.statusByte(true)); return 0 }
func (c *CPU) plp(uint16) uint8 { c.setStatusByte(c.pop()); return 0 }

func (c *CPU) clc(uint16) uint8 { c.C = false; return 0 }
func (c *CPU) sec(uint16) uint8 { c.C = true; return 0 }
func (c *CPU) cli(uint16) uint8 { c.I = false; return 0 }
func (c *CPU) sei(uint16) uint8 { c.I = true; return 0 }
func (c *CPU) clv(uint16) uint8 { c.V = false; return 0 }
func (c *CPU) cld(uint16) uint8 { c.D = false; return 0 }
func (c *CPU) sed(uint16) uint8 { c.D = true; return 0 }

func (c *CPU) jmp(addr uint16) uint8 { c.PC = addr; return 0 }
func (c *CPU) jsr(addr uint16) uint8 { c.pushWord(c.PC - 1); c.PC = addr; return 0 }
func (c *CPU) rts(uint16) uint8      { c.PC = c.popWord() + 1; return 0 }

func (c *CPU) rti(uint16) uint8 {
	c.setStatusByte(c.pop())
	c.PC = c.popWord()
	return 0
}

func (c *CPU) branch(addr uint16, pageCrossed, taken bool) uint8 {
	if !taken {
		return 0
	}
	c.PC = addr
	if pageCrossed {
		return 2
	}
	return 1
}

func (c *CPU) bcc(a uint16, pc bool) uint8 { return c.branch(a, pc, !c.C) }
func (c *CPU) bcs(a uint16, pc bool) uint8 { return c.branch(a, pc, c.C) }
func (c *CPU) bne(a uint16, pc bool) uint8 { return c.branch(a, pc, !c.Z) }
func (c *CPU) beq(a uint16, pc bool) uint8 { return c.branch(a, pc, c.Z) }
func (c *CPU) bpl(a uint16, pc bool) uint8 { return c.branch(a, pc, !c.N) }
func (c *CPU) bmi(a uint16, pc bool) uint8 { return c.branch(a, pc, c.N) }
func (c *CPU) bvc(a uint16, pc bool) uint8 { return c.branch(a, pc, !c.V) }
func (c *CPU) bvs(a uint16, pc bool) uint8 { return c.branch(a, pc, c.V) }

func (c *CPU) bit(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.Z = (c.A & v) == 0
	c.N = v&0x80 != 0
	c.V = v&0x40 != 0
	return 0
}

func (c *CPU) nop(uint16) uint8 { return 0 }

func (c *CPU) brk(uint16) uint8 {
	c.PC++
	c.interrupt(irqVector, true)
	return 0
}

// jam halts instruction dispatch without touching registers or memory;
// the scheduler keeps the PPU/APU running so the host can still observe.
func (c *CPU) jam(uint16) uint8 {
	c.jammed = true
	return 0
}

// Documented illegal opcodes.

func (c *CPU) lax(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.A, c.X = v, v
	c.setZN(v)
	return 0
}

func (c *CPU) sax(addr uint16) uint8 { c.bus.Write(addr, c.A&c.X); return 0 }

func (c *CPU) dcp(addr uint16) uint8 {
	v := c.bus.Read(addr) - 1
	c.bus.Write(addr, v)
	c.compare(c.A, v)
	return 0
}

func (c *CPU) isb(addr uint16) uint8 {
	v := c.bus.Read(addr) + 1
	c.bus.Write(addr, v)
	if c.D {
		c.decimalSub(v)
	} else {
		c.binaryAdd(v ^ 0xFF)
	}
	return 0
}

func (c *CPU) slo(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.C = v&0x80 != 0
	v <<= 1
	c.bus.Write(addr, v)
	c.A |= v
	c.setZN(c.A)
	return 0
}

func (c *CPU) rla(addr uint16) uint8 {
	v := c.bus.Read(addr)
	old := c.C
	c.C = v&0x80 != 0
	v <<= 1
	if old {
		v |= 0x01
	}
	c.bus.Write(addr, v)
	c.A &= v
	c.setZN(c.A)
	return 0
}

func (c *CPU) sre(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.C = v&0x01 != 0
	v >>= 1
	c.bus.Write(addr, v)
	c.A ^= v
	c.setZN(c.A)
	return 0
}

func (c *CPU) rra(addr uint16) uint8 {
	v := c.bus.Read(addr)
	old := c.C
	c.C = v&0x01 != 0
	v >>= 1
	if old {
		v |= 0x80
	}
	c.bus.Write(addr, v)
	if c.D {
		c.decimalAdd(v)
	} else {
		c.binaryAdd(v)
	}
	return 0
}

func (c *CPU) alr(addr uint16) uint8 {
	c.A &= c.bus.Read(addr)
	c.C = c.A&0x01 != 0
	c.A >>= 1
	c.setZN(c.A)
	return 0
}

func (c *CPU) anc(addr uint16) uint8 {
	c.A &= c.bus.Read(addr)
	c.setZN(c.A)
	c.C = c.N
	return 0
}

func (c *CPU) arr(addr uint16) uint8 {
	c.A &= c.bus.Read(addr)
	carry := uint8(0)
	if c.C {
		carry = 0x80
	}
	c.A = (c.A >> 1) | carry
	c.setZN(c.A)
	c.C = c.A&0x40 != 0
	c.V = (c.A&0x40 != 0) != (c.A&0x20 != 0)
	return 0
}

// axs (AXS/SBX): (A & X) - value → X, C set when no borrow.
func (c *CPU) axs(addr uint16) uint8 {
	v := c.bus.Read(addr)
	base := c.A & c.X
	c.C = base >= v
	c.X = base - v
	c.setZN(c.X)
	return 0
}

// ane, lxa, sha, shx, shy, tas: unstable on real silicon, dependent on
// bus capacitance/open-bus behavior that differs per console. These
// implement the commonly-documented best-effort approximation (treating
// the unstable "magic" constant as 0xFF) rather than any one chip's
// quirk.
func (c *CPU) ane(addr uint16) uint8 {
	c.A = (c.A | 0xFF) & c.X & c.bus.Read(addr)
	c.setZN(c.A)
	return 0
}

func (c *CPU) lxa(addr uint16) uint8 {
	v := (c.A | 0xFF) & c.bus.Read(addr)
	c.A, c.X = v, v
	c.setZN(v)
	return 0
}

func (c *CPU) sha(addr uint16) uint8 {
	c.bus.Write(addr, c.A&c.X&uint8(addr>>8+1))
	return 0
}

func (c *CPU) shx(addr uint16) uint8 {
	c.bus.Write(addr, c.X&uint8(addr>>8+1))
	return 0
}

func (c *CPU) shy(addr uint16) uint8 {
	c.bus.Write(addr, c.Y&uint8(addr>>8+1))
	return 0
}

func (c *CPU) tas(addr uint16) uint8 {
	c.SP = c.A & c.X
	c.bus.Write(addr, c.SP&uint8(addr>>8+1))
	return 0
}
