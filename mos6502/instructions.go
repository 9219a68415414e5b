package mos6502

// Legal instruction bodies, one per mnemonic, parameterized by addressing
// mode the same way original_source's exec_inst dispatches: each function
// resolves its own operand address (which ticks for its own bus accesses)
// and then explicitly ticks for whatever cycle the instruction itself
// consumes beyond the address calculation.

func lda(c *CPU, m addrMode) {
	d := c.read(m(c))
	c.updateZN(d)
	c.A = d
	c.tick()
}

func ldx(c *CPU, m addrMode) {
	d := c.read(m(c))
	c.updateZN(d)
	c.X = d
	c.tick()
}

func ldy(c *CPU, m addrMode) {
	d := c.read(m(c))
	c.updateZN(d)
	c.Y = d
	c.tick()
}

func sta(c *CPU, m addrMode) { c.write(m(c), c.A); c.tick() }
func stx(c *CPU, m addrMode) { c.write(m(c), c.X); c.tick() }
func sty(c *CPU, m addrMode) { c.write(m(c), c.Y); c.tick() }

func tax(c *CPU, m addrMode) { c.updateZN(c.A); c.X = c.A; c.tick() }
func tay(c *CPU, m addrMode) { c.updateZN(c.A); c.Y = c.A; c.tick() }
func txa(c *CPU, m addrMode) { c.updateZN(c.X); c.A = c.X; c.tick() }
func tya(c *CPU, m addrMode) { c.updateZN(c.Y); c.A = c.Y; c.tick() }
func tsx(c *CPU, m addrMode) { c.updateZN(c.S); c.X = c.S; c.tick() }
func txs(c *CPU, m addrMode) { c.S = c.X; c.tick() }

func pha(c *CPU, m addrMode) {
	c.tick() // throw away next byte
	c.push(c.A)
	c.tick()
}

func php(c *CPU, m addrMode) {
	c.tick() // throw away next byte
	c.push(c.P | flagUnused | flagBreak)
	c.tick()
}

func pla(c *CPU, m addrMode) {
	c.tick() // throw away next byte
	c.tick() // S increment
	c.A = c.pull()
	c.updateZN(c.A)
	c.tick()
}

func plp(c *CPU, m addrMode) {
	c.tick() // throw away next byte
	c.tick() // S increment
	c.P = (c.pull() &^ flagBreak) | flagUnused
	c.tick()
}

func and(c *CPU, m addrMode) {
	c.A &= c.read(m(c))
	c.updateZN(c.A)
	c.tick()
}

func ora(c *CPU, m addrMode) {
	c.A |= c.read(m(c))
	c.updateZN(c.A)
	c.tick()
}

func eor(c *CPU, m addrMode) {
	c.A ^= c.read(m(c))
	c.updateZN(c.A)
	c.tick()
}

func bit(c *CPU, m addrMode) {
	d := c.read(m(c))
	c.setFlag(flagZero, c.A&d == 0)
	c.setFlag(flagOverflow, d&0x40 != 0)
	c.setFlag(flagNegative, d&0x80 != 0)
	c.tick()
}

func adc(c *CPU, m addrMode) {
	d := c.read(m(c))
	carry := uint16(0)
	if c.flag(flagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(d) + carry
	c.updateC(sum)
	c.updateV(c.A, d, sum)
	c.A = uint8(sum)
	c.updateZN(c.A)
	c.tick()
}

func sbc(c *CPU, m addrMode) {
	d := c.read(m(c)) ^ 0xFF
	carry := uint16(0)
	if c.flag(flagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(d) + carry
	c.updateC(sum)
	c.updateV(c.A, d, sum)
	c.A = uint8(sum)
	c.updateZN(c.A)
	c.tick()
}

func compare(c *CPU, reg uint8, m addrMode) {
	d := c.read(m(c))
	sum := uint16(reg) + uint16(d^0xFF) + 1
	c.updateC(sum)
	c.updateZN(uint8(sum))
	c.tick()
}

func cmp(c *CPU, m addrMode) { compare(c, c.A, m) }
func cpx(c *CPU, m addrMode) { compare(c, c.X, m) }
func cpy(c *CPU, m addrMode) { compare(c, c.Y, m) }

func inc(c *CPU, m addrMode) {
	addr := m(c)
	d := c.read(addr)
	c.tick()
	d++
	c.updateZN(d)
	c.tick()
	c.write(addr, d)
	c.tick()
}

func dec(c *CPU, m addrMode) {
	addr := m(c)
	d := c.read(addr)
	c.tick()
	d--
	c.updateZN(d)
	c.tick()
	c.write(addr, d)
	c.tick()
}

func inx(c *CPU, m addrMode) { c.X++; c.updateZN(c.X); c.tick() }
func iny(c *CPU, m addrMode) { c.Y++; c.updateZN(c.Y); c.tick() }
func dex(c *CPU, m addrMode) { c.X--; c.updateZN(c.X); c.tick() }
func dey(c *CPU, m addrMode) { c.Y--; c.updateZN(c.Y); c.tick() }

func asl(c *CPU, m addrMode) {
	addr := m(c)
	d := c.read(addr)
	c.tick()
	c.setFlag(flagCarry, d&0x80 != 0)
	d <<= 1
	c.updateZN(d)
	c.tick()
	c.write(addr, d)
	c.tick()
}

func aslA(c *CPU, m addrMode) {
	c.setFlag(flagCarry, c.A&0x80 != 0)
	c.A <<= 1
	c.updateZN(c.A)
	c.tick()
}

func lsr(c *CPU, m addrMode) {
	addr := m(c)
	d := c.read(addr)
	c.tick()
	c.setFlag(flagCarry, d&0x01 != 0)
	d >>= 1
	c.updateZN(d)
	c.tick()
	c.write(addr, d)
	c.tick()
}

func lsrA(c *CPU, m addrMode) {
	c.setFlag(flagCarry, c.A&0x01 != 0)
	c.A >>= 1
	c.updateZN(c.A)
	c.tick()
}

func rol(c *CPU, m addrMode) {
	addr := m(c)
	d := c.read(addr)
	c.tick()
	carryIn := uint8(0)
	if c.flag(flagCarry) {
		carryIn = 1
	}
	c.setFlag(flagCarry, d&0x80 != 0)
	d = (d << 1) | carryIn
	c.updateZN(d)
	c.tick()
	c.write(addr, d)
	c.tick()
}

func rolA(c *CPU, m addrMode) {
	carryIn := uint8(0)
	if c.flag(flagCarry) {
		carryIn = 1
	}
	c.setFlag(flagCarry, c.A&0x80 != 0)
	c.A = (c.A << 1) | carryIn
	c.updateZN(c.A)
	c.tick()
}

func ror(c *CPU, m addrMode) {
	addr := m(c)
	d := c.read(addr)
	c.tick()
	carryIn := uint8(0)
	if c.flag(flagCarry) {
		carryIn = 0x80
	}
	c.setFlag(flagCarry, d&0x01 != 0)
	d = (d >> 1) | carryIn
	c.updateZN(d)
	c.tick()
	c.write(addr, d)
	c.tick()
}

func rorA(c *CPU, m addrMode) {
	carryIn := uint8(0)
	if c.flag(flagCarry) {
		carryIn = 0x80
	}
	c.setFlag(flagCarry, c.A&0x01 != 0)
	c.A = (c.A >> 1) | carryIn
	c.updateZN(c.A)
	c.tick()
}

// branch resolves a conditional branch. When not taken, the operand byte is
// skipped without a bus read (matching original_source) but still ticks
// once; when taken, rel() accounts for the fetch, the taken bonus, and any
// page-cross bonus.
func branch(c *CPU, cond bool) {
	if !cond {
		c.PC++
		c.tick()
		return
	}
	c.PC = rel(c)
}

func bcc(c *CPU, m addrMode) { branch(c, !c.flag(flagCarry)) }
func bcs(c *CPU, m addrMode) { branch(c, c.flag(flagCarry)) }
func beq(c *CPU, m addrMode) { branch(c, c.flag(flagZero)) }
func bne(c *CPU, m addrMode) { branch(c, !c.flag(flagZero)) }
func bmi(c *CPU, m addrMode) { branch(c, c.flag(flagNegative)) }
func bpl(c *CPU, m addrMode) { branch(c, !c.flag(flagNegative)) }
func bvc(c *CPU, m addrMode) { branch(c, !c.flag(flagOverflow)) }
func bvs(c *CPU, m addrMode) { branch(c, c.flag(flagOverflow)) }

func jmp(c *CPU, m addrMode) { c.PC = m(c) }

func jsr(c *CPU, m addrMode) {
	lo := uint16(c.read(c.PC))
	c.PC++
	c.tick()
	c.tick() // internal operation: predecrement S
	ret := c.PC
	c.push(uint8(ret >> 8))
	c.tick()
	c.push(uint8(ret))
	c.tick()
	hi := uint16(c.read(c.PC))
	c.PC = lo | hi<<8
	c.tick()
}

func rts(c *CPU, m addrMode) {
	c.tick() // throw away next byte
	c.tick() // S increment
	lo := uint16(c.pull())
	c.tick()
	hi := uint16(c.pull())
	c.PC = lo | hi<<8
	c.tick()
	c.PC++
	c.tick()
}

func rti(c *CPU, m addrMode) {
	c.tick() // throw away next byte
	c.tick() // S increment
	c.P = (c.pull() &^ flagBreak) | flagUnused
	c.tick()
	lo := uint16(c.pull())
	c.tick()
	hi := uint16(c.pull())
	c.PC = lo | hi<<8
	c.tick()
}

func brk(c *CPU, m addrMode) { c.serviceInterrupt(vectorIRQ, true) }

func clc(c *CPU, m addrMode) { c.setFlag(flagCarry, false); c.tick() }
func sec(c *CPU, m addrMode) { c.setFlag(flagCarry, true); c.tick() }
func cli(c *CPU, m addrMode) { c.setFlag(flagInterruptDisable, false); c.tick() }
func sei(c *CPU, m addrMode) { c.setFlag(flagInterruptDisable, true); c.tick() }
func clv(c *CPU, m addrMode) { c.setFlag(flagOverflow, false); c.tick() }
func cld(c *CPU, m addrMode) { c.setFlag(flagDecimal, false); c.tick() }
func sed(c *CPU, m addrMode) { c.setFlag(flagDecimal, true); c.tick() }

func nop(c *CPU, m addrMode) { c.tick() }
