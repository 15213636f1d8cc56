package cpu

import "fmt"

// execute dispatches opcode to its mnemonic implementation and returns any
// extra cycles beyond the instruction's base timing (branches taken,
// page-crossing penalties already folded in by the caller for reads).
func (c *CPU) execute(opcode uint8, addr uint16, pageCrossed bool) uint8 {
	switch opcode {
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		return c.lda(addr)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		return c.ldx(addr)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		return c.ldy(addr)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		return c.sta(addr)
	case 0x86, 0x96, 0x8E:
		return c.stx(addr)
	case 0x84, 0x94, 0x8C:
		return c.sty(addr)
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		return c.adc(addr)
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		return c.sbc(addr)
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		return c.and(addr)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		return c.ora(addr)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		return c.eor(addr)
	case 0x0A, 0x06, 0x16, 0x0E, 0x1E:
		return c.aslLike(opcode, addr)
	case 0x4A, 0x46, 0x56, 0x4E, 0x5E:
		return c.lsrLike(opcode, addr)
	case 0x2A, 0x26, 0x36, 0x2E, 0x3E:
		return c.rolLike(opcode, addr)
	case 0x6A, 0x66, 0x76, 0x6E, 0x7E:
		return c.rorLike(opcode, addr)
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		return c.cmp(addr)
	case 0xE0, 0xE4, 0xEC:
		return c.cpx(addr)
	case 0xC0, 0xC4, 0xCC:
		return c.cpy(addr)
	case 0xE6, 0xF6, 0xEE, 0xFE:
		return c.inc(addr)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		return c.dec(addr)
	case 0xE8:
		return c.inx(addr)
	case 0xCA:
		return c.dex(addr)
	case 0xC8:
		return c.iny(addr)
	case 0x88:
		return c.dey(addr)
	case 0xAA:
		return c.tax(addr)
	case 0x8A:
		return c.txa(addr)
	case 0xA8:
		return c.tay(addr)
	case 0x98:
		return c.tya(addr)
	case 0xBA:
		return c.tsx(addr)
	case 0x9A:
		return c.txs(addr)
	case 0x48:
		return c.pha(addr)
	case 0x68:
		return c.pla(addr)
	case 0x08:
		return c.php(addr)
	case 0x28:
		return c.plp(addr)
	case 0x18:
		return c.clc(addr)
	case 0x38:
		return c.sec(addr)
	case 0x58:
		return c.cli(addr)
	case 0x78:
		return c.sei(addr)
	case 0xB8:
		return c.clv(addr)
	case 0xD8:
		return c.cld(addr)
	case 0xF8:
		return c.sed(addr)
	case 0x4C, 0x6C:
		return c.jmp(addr)
	case 0x20:
		return c.jsr(addr)
	case 0x60:
		return c.rts(addr)
	case 0x40:
		return c.rti(addr)
	case 0x90:
		return c.bcc(addr, pageCrossed)
	case 0xB0:
		return c.bcs(addr, pageCrossed)
	case 0xD0:
		return c.bne(addr, pageCrossed)
	case 0xF0:
		return c.beq(addr, pageCrossed)
	case 0x10:
		return c.bpl(addr, pageCrossed)
	case 0x30:
		return c.bmi(addr, pageCrossed)
	case 0x50:
		return c.bvc(addr, pageCrossed)
	case 0x70:
		return c.bvs(addr, pageCrossed)
	case 0x24, 0x2C:
		return c.bit(addr)
	case 0x00:
		return c.brk(addr)
	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA,
		0x80, 0x82, 0x89, 0xC2, 0xE2,
		0x04, 0x44, 0x64, 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4,
		0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		return c.nop(addr)
	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2:
		return c.jam(addr)
	case 0xA7, 0xB7, 0xAF, 0xBF, 0xA3, 0xB3:
		return c.lax(addr)
	case 0x87, 0x97, 0x8F, 0x83:
		return c.sax(addr)
	case 0xC7, 0xD7, 0xCF, 0xDF, 0xDB, 0xC3, 0xD3:
		return c.dcp(addr)
	case 0xE7, 0xF7, 0xEF, 0xFF, 0xFB, 0xE3, 0xF3:
		return c.isb(addr)
	case 0x07, 0x17, 0x0F, 0x1F, 0x1B, 0x03, 0x13:
		return c.slo(addr)
	case 0x27, 0x37, 0x2F, 0x3F, 0x3B, 0x23, 0x33:
		return c.rla(addr)
	case 0x47, 0x57, 0x4F, 0x5F, 0x5B, 0x43, 0x53:
		return c.sre(addr)
	case 0x67, 0x77, 0x6F, 0x7F, 0x7B, 0x63, 0x73:
		return c.rra(addr)
	case 0x4B:
		return c.alr(addr)
	case 0x0B, 0x2B:
		return c.anc(addr)
	case 0x6B:
		return c.arr(addr)
	case 0xCB:
		return c.axs(addr)
	case 0x8B:
		return c.ane(addr)
	case 0xAB:
		return c.lxa(addr)
	case 0x9F, 0x93:
		return c.sha(addr)
	case 0x9E:
		return c.shx(addr)
	case 0x9C:
		return c.shy(addr)
	case 0x9B:
		return c.tas(addr)
	}
	return 0
}

// aslLike/lsrLike/rolLike/rorLike special-case the Accumulator addressing
// mode, which operates on A instead of a bus address.
func (c *CPU) aslLike(opcode uint8, addr uint16) uint8 {
	if opcode == 0x0A {
		c.C = c.A&0x80 != 0
		c.A <<= 1
		c.setZN(c.A)
		return 0
	}
	return c.asl(addr)
}

func (c *CPU) lsrLike(opcode uint8, addr uint16) uint8 {
	if opcode == 0x4A {
		c.C = c.A&0x01 != 0
		c.A >>= 1
		c.setZN(c.A)
		return 0
	}
	return c.lsr(addr)
}

func (c *CPU) rolLike(opcode uint8, addr uint16) uint8 {
	if opcode == 0x2A {
		old := c.C
		c.C = c.A&0x80 != 0
		c.A <<= 1
		if old {
			c.A |= 0x01
		}
		c.setZN(c.A)
		return 0
	}
	return c.rol(addr)
}

func (c *CPU) rorLike(opcode uint8, addr uint16) uint8 {
	if opcode == 0x6A {
		old := c.C
		c.C = c.A&0x01 != 0
		c.A >>= 1
		if old {
			c.A |= 0x80
		}
		c.setZN(c.A)
		return 0
	}
	return c.ror(addr)
}

// operandText renders the operand column of a trace line the way a
// disassembler would, independent of runtime register state.
func operandText(mode AddressingMode, operands []uint8, addr uint16) string {
	switch mode {
	case Implied:
		return ""
	case Accumulator:
		return "A"
	case Immediate:
		return fmt.Sprintf("#$%02X", operands[0])
	case ZeroPage:
		return fmt.Sprintf("$%02X", operands[0])
	case ZeroPageX:
		return fmt.Sprintf("$%02X,X", operands[0])
	case ZeroPageY:
		return fmt.Sprintf("$%02X,Y", operands[0])
	case Relative:
		return fmt.Sprintf("$%04X", addr)
	case Absolute:
		return fmt.Sprintf("$%02X%02X", operands[1], operands[0])
	case AbsoluteX:
		return fmt.Sprintf("$%02X%02X,X", operands[1], operands[0])
	case AbsoluteY:
		return fmt.Sprintf("$%02X%02X,Y", operands[1], operands[0])
	case Indirect:
		return fmt.Sprintf("($%02X%02X)", operands[1], operands[0])
	case IndexedIndirect:
		return fmt.Sprintf("($%02X,X)", operands[0])
	case IndirectIndexed:
		return fmt.Sprintf("($%02X),Y", operands[0])
	default:
		return ""
	}
}
