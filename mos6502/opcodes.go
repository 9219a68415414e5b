package mos6502

type opcode struct {
	exec    func(c *CPU, m addrMode)
	mode    addrMode
	illegal bool
}

// opcodeTable is the single dispatch table over all 256 opcode byte values:
// legal instructions plus the illegal opcodes nestest exercises. Byte values
// with no real silicon behavior fall back to a single-tick NOP, matching
// the "execute unrecognized opcodes as NOP" error-handling rule.
var opcodeTable [256]opcode

func op(exec func(c *CPU, m addrMode), m addrMode) opcode {
	return opcode{exec: exec, mode: m}
}

func iop(exec func(c *CPU, m addrMode), m addrMode) opcode {
	return opcode{exec: exec, mode: m, illegal: true}
}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = iop(nop, impl)
	}

	// Load / store
	opcodeTable[0xA9] = op(lda, imm)
	opcodeTable[0xA5] = op(lda, zp)
	opcodeTable[0xB5] = op(lda, zpx)
	opcodeTable[0xAD] = op(lda, absl)
	opcodeTable[0xBD] = op(lda, absxRd)
	opcodeTable[0xB9] = op(lda, absyRd)
	opcodeTable[0xA1] = op(lda, indx)
	opcodeTable[0xB1] = op(lda, indyRd)

	opcodeTable[0xA2] = op(ldx, imm)
	opcodeTable[0xA6] = op(ldx, zp)
	opcodeTable[0xB6] = op(ldx, zpy)
	opcodeTable[0xAE] = op(ldx, absl)
	opcodeTable[0xBE] = op(ldx, absyRd)

	opcodeTable[0xA0] = op(ldy, imm)
	opcodeTable[0xA4] = op(ldy, zp)
	opcodeTable[0xB4] = op(ldy, zpx)
	opcodeTable[0xAC] = op(ldy, absl)
	opcodeTable[0xBC] = op(ldy, absxRd)

	opcodeTable[0x85] = op(sta, zp)
	opcodeTable[0x95] = op(sta, zpx)
	opcodeTable[0x8D] = op(sta, absl)
	opcodeTable[0x9D] = op(sta, absxWr)
	opcodeTable[0x99] = op(sta, absyWr)
	opcodeTable[0x81] = op(sta, indx)
	opcodeTable[0x91] = op(sta, indyWr)

	opcodeTable[0x86] = op(stx, zp)
	opcodeTable[0x96] = op(stx, zpy)
	opcodeTable[0x8E] = op(stx, absl)

	opcodeTable[0x84] = op(sty, zp)
	opcodeTable[0x94] = op(sty, zpx)
	opcodeTable[0x8C] = op(sty, absl)

	// Register transfers & stack
	opcodeTable[0xAA] = op(tax, impl)
	opcodeTable[0xA8] = op(tay, impl)
	opcodeTable[0x8A] = op(txa, impl)
	opcodeTable[0x98] = op(tya, impl)
	opcodeTable[0xBA] = op(tsx, impl)
	opcodeTable[0x9A] = op(txs, impl)
	opcodeTable[0x48] = op(pha, impl)
	opcodeTable[0x08] = op(php, impl)
	opcodeTable[0x68] = op(pla, impl)
	opcodeTable[0x28] = op(plp, impl)

	// Logical
	opcodeTable[0x29] = op(and, imm)
	opcodeTable[0x25] = op(and, zp)
	opcodeTable[0x35] = op(and, zpx)
	opcodeTable[0x2D] = op(and, absl)
	opcodeTable[0x3D] = op(and, absxRd)
	opcodeTable[0x39] = op(and, absyRd)
	opcodeTable[0x21] = op(and, indx)
	opcodeTable[0x31] = op(and, indyRd)

	opcodeTable[0x09] = op(ora, imm)
	opcodeTable[0x05] = op(ora, zp)
	opcodeTable[0x15] = op(ora, zpx)
	opcodeTable[0x0D] = op(ora, absl)
	opcodeTable[0x1D] = op(ora, absxRd)
	opcodeTable[0x19] = op(ora, absyRd)
	opcodeTable[0x01] = op(ora, indx)
	opcodeTable[0x11] = op(ora, indyRd)

	opcodeTable[0x49] = op(eor, imm)
	opcodeTable[0x45] = op(eor, zp)
	opcodeTable[0x55] = op(eor, zpx)
	opcodeTable[0x4D] = op(eor, absl)
	opcodeTable[0x5D] = op(eor, absxRd)
	opcodeTable[0x59] = op(eor, absyRd)
	opcodeTable[0x41] = op(eor, indx)
	opcodeTable[0x51] = op(eor, indyRd)

	opcodeTable[0x24] = op(bit, zp)
	opcodeTable[0x2C] = op(bit, absl)

	// Arithmetic
	opcodeTable[0x69] = op(adc, imm)
	opcodeTable[0x65] = op(adc, zp)
	opcodeTable[0x75] = op(adc, zpx)
	opcodeTable[0x6D] = op(adc, absl)
	opcodeTable[0x7D] = op(adc, absxRd)
	opcodeTable[0x79] = op(adc, absyRd)
	opcodeTable[0x61] = op(adc, indx)
	opcodeTable[0x71] = op(adc, indyRd)

	opcodeTable[0xE9] = op(sbc, imm)
	opcodeTable[0xEB] = iop(sbc, imm) // illegal SBC alias
	opcodeTable[0xE5] = op(sbc, zp)
	opcodeTable[0xF5] = op(sbc, zpx)
	opcodeTable[0xED] = op(sbc, absl)
	opcodeTable[0xFD] = op(sbc, absxRd)
	opcodeTable[0xF9] = op(sbc, absyRd)
	opcodeTable[0xE1] = op(sbc, indx)
	opcodeTable[0xF1] = op(sbc, indyRd)

	opcodeTable[0xC9] = op(cmp, imm)
	opcodeTable[0xC5] = op(cmp, zp)
	opcodeTable[0xD5] = op(cmp, zpx)
	opcodeTable[0xCD] = op(cmp, absl)
	opcodeTable[0xDD] = op(cmp, absxRd)
	opcodeTable[0xD9] = op(cmp, absyRd)
	opcodeTable[0xC1] = op(cmp, indx)
	opcodeTable[0xD1] = op(cmp, indyRd)

	opcodeTable[0xE0] = op(cpx, imm)
	opcodeTable[0xE4] = op(cpx, zp)
	opcodeTable[0xEC] = op(cpx, absl)

	opcodeTable[0xC0] = op(cpy, imm)
	opcodeTable[0xC4] = op(cpy, zp)
	opcodeTable[0xCC] = op(cpy, absl)

	// Increments / decrements
	opcodeTable[0xE6] = op(inc, zp)
	opcodeTable[0xF6] = op(inc, zpx)
	opcodeTable[0xEE] = op(inc, absl)
	opcodeTable[0xFE] = op(inc, absxWr)
	opcodeTable[0xC6] = op(dec, zp)
	opcodeTable[0xD6] = op(dec, zpx)
	opcodeTable[0xCE] = op(dec, absl)
	opcodeTable[0xDE] = op(dec, absxWr)
	opcodeTable[0xE8] = op(inx, impl)
	opcodeTable[0xC8] = op(iny, impl)
	opcodeTable[0xCA] = op(dex, impl)
	opcodeTable[0x88] = op(dey, impl)

	// Shifts / rotates
	opcodeTable[0x0A] = op(aslA, acc)
	opcodeTable[0x06] = op(asl, zp)
	opcodeTable[0x16] = op(asl, zpx)
	opcodeTable[0x0E] = op(asl, absl)
	opcodeTable[0x1E] = op(asl, absxWr)

	opcodeTable[0x4A] = op(lsrA, acc)
	opcodeTable[0x46] = op(lsr, zp)
	opcodeTable[0x56] = op(lsr, zpx)
	opcodeTable[0x4E] = op(lsr, absl)
	opcodeTable[0x5E] = op(lsr, absxWr)

	opcodeTable[0x2A] = op(rolA, acc)
	opcodeTable[0x26] = op(rol, zp)
	opcodeTable[0x36] = op(rol, zpx)
	opcodeTable[0x2E] = op(rol, absl)
	opcodeTable[0x3E] = op(rol, absxWr)

	opcodeTable[0x6A] = op(rorA, acc)
	opcodeTable[0x66] = op(ror, zp)
	opcodeTable[0x76] = op(ror, zpx)
	opcodeTable[0x6E] = op(ror, absl)
	opcodeTable[0x7E] = op(ror, absxWr)

	// Branches
	opcodeTable[0x90] = op(bcc, rel)
	opcodeTable[0xB0] = op(bcs, rel)
	opcodeTable[0xF0] = op(beq, rel)
	opcodeTable[0xD0] = op(bne, rel)
	opcodeTable[0x30] = op(bmi, rel)
	opcodeTable[0x10] = op(bpl, rel)
	opcodeTable[0x50] = op(bvc, rel)
	opcodeTable[0x70] = op(bvs, rel)

	// Jumps / subroutines / interrupts
	opcodeTable[0x4C] = op(jmp, absl)
	opcodeTable[0x6C] = op(jmp, ind)
	opcodeTable[0x20] = op(jsr, absl)
	opcodeTable[0x60] = op(rts, impl)
	opcodeTable[0x40] = op(rti, impl)
	opcodeTable[0x00] = op(brk, impl)

	// Flags
	opcodeTable[0x18] = op(clc, impl)
	opcodeTable[0x38] = op(sec, impl)
	opcodeTable[0x58] = op(cli, impl)
	opcodeTable[0x78] = op(sei, impl)
	opcodeTable[0xB8] = op(clv, impl)
	opcodeTable[0xD8] = op(cld, impl)
	opcodeTable[0xF8] = op(sed, impl)

	// Legal NOP
	opcodeTable[0xEA] = op(nop, impl)

	// Illegal: SLO, RLA, SRE, RRA (read-modify-write + legal op fused)
	for opc, m := range map[uint8]addrMode{0x07: zp, 0x17: zpx, 0x0F: absl, 0x1F: absxWr, 0x1B: absyWr, 0x03: indx, 0x13: indyWr} {
		opcodeTable[opc] = iop(slo, m)
	}
	for opc, m := range map[uint8]addrMode{0x27: zp, 0x37: zpx, 0x2F: absl, 0x3F: absxWr, 0x3B: absyWr, 0x23: indx, 0x33: indyWr} {
		opcodeTable[opc] = iop(rla, m)
	}
	for opc, m := range map[uint8]addrMode{0x47: zp, 0x57: zpx, 0x4F: absl, 0x5F: absxWr, 0x5B: absyWr, 0x43: indx, 0x53: indyWr} {
		opcodeTable[opc] = iop(sre, m)
	}
	for opc, m := range map[uint8]addrMode{0x67: zp, 0x77: zpx, 0x6F: absl, 0x7F: absxWr, 0x7B: absyWr, 0x63: indx, 0x73: indyWr} {
		opcodeTable[opc] = iop(rra, m)
	}

	// Illegal: SAX, LAX
	for opc, m := range map[uint8]addrMode{0x87: zp, 0x97: zpy, 0x8F: absl, 0x83: indx} {
		opcodeTable[opc] = iop(sax, m)
	}
	for opc, m := range map[uint8]addrMode{0xA7: zp, 0xB7: zpy, 0xAF: absl, 0xBF: absyRd, 0xA3: indx, 0xB3: indyRd} {
		opcodeTable[opc] = iop(lax, m)
	}

	// Illegal: DCP, ISC
	for opc, m := range map[uint8]addrMode{0xC7: zp, 0xD7: zpx, 0xCF: absl, 0xDF: absxWr, 0xDB: absyWr, 0xC3: indx, 0xD3: indyWr} {
		opcodeTable[opc] = iop(dcp, m)
	}
	for opc, m := range map[uint8]addrMode{0xE7: zp, 0xF7: zpx, 0xEF: absl, 0xFF: absxWr, 0xFB: absyWr, 0xE3: indx, 0xF3: indyWr} {
		opcodeTable[opc] = iop(isc, m)
	}

	// Illegal: AXS/SBX
	opcodeTable[0xCB] = iop(axs, imm)

	// Illegal: NOP aliases (implied, 2-cycle)
	for _, opc := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		opcodeTable[opc] = iop(nop, impl)
	}

	// Illegal: SKB (DOP, one-byte no-op reads)
	for opc, m := range map[uint8]addrMode{
		0x80: imm, 0x82: imm, 0x89: imm, 0xC2: imm, 0xE2: imm,
		0x04: zp, 0x44: zp, 0x64: zp,
		0x14: zpx, 0x34: zpx, 0x54: zpx, 0x74: zpx, 0xD4: zpx, 0xF4: zpx,
	} {
		opcodeTable[opc] = iop(skb, m)
	}

	// Illegal: TOP (absolute / absolute,X no-op reads)
	for opc, m := range map[uint8]addrMode{
		0x0C: absl,
		0x1C: absxRd, 0x3C: absxRd, 0x5C: absxRd, 0x7C: absxRd, 0xDC: absxRd, 0xFC: absxRd,
	} {
		opcodeTable[opc] = iop(skn, m)
	}
}
