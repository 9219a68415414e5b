package mos6502

// addrMode computes an effective address, ticking internally for each
// memory fetch and internal computation slot it consumes. Instructions
// dispatch through one of these rather than encoding addressing logic
// themselves, mirroring the source's function-pointer-per-mode design.
//
// Bus reads never tick on their own (see CPU.read); every tick() call
// below is placed to match a specific hardware cycle, including cycles
// where a read and an internal computation (e.g. an index add) are fused
// onto the same clock and so share one tick.
type addrMode func(c *CPU) uint16

// imm treats the operand byte itself as the "address": the byte at PC,
// with PC incremented. Ticking is the caller's responsibility.
func imm(c *CPU) uint16 {
	addr := c.PC
	c.PC++
	return addr
}

func zp(c *CPU) uint16 {
	addr := uint16(c.read(imm(c)))
	c.tick()
	return addr
}

func zpx(c *CPU) uint16 {
	addr := (zp(c) + uint16(c.X)) & 0xFF
	c.tick()
	return addr
}

func zpy(c *CPU) uint16 {
	addr := (zp(c) + uint16(c.Y)) & 0xFF
	c.tick()
	return addr
}

func absl(c *CPU) uint16 {
	lo := zp(c)
	hi := zp(c)
	return lo | hi<<8
}

func absIndexedRd(c *CPU, index uint8) uint16 {
	lo := zp(c)
	hi := uint16(c.read(imm(c)))
	lo += uint16(index)
	c.tick()
	if lo > 0xFF {
		lo &= 0xFF
		hi++
		c.tick()
	}
	return lo | hi<<8
}

func absIndexedWr(c *CPU, index uint8) uint16 {
	lo := zp(c)
	hi := uint16(c.read(imm(c)))
	lo += uint16(index)
	c.tick()
	if lo > 0xFF {
		lo &= 0xFF
		hi++
	}
	c.tick()
	return lo | hi<<8
}

func absxRd(c *CPU) uint16 { return absIndexedRd(c, c.X) }
func absxWr(c *CPU) uint16 { return absIndexedWr(c, c.X) }
func absyRd(c *CPU) uint16 { return absIndexedRd(c, c.Y) }
func absyWr(c *CPU) uint16 { return absIndexedWr(c, c.Y) }

// ind is JMP's indirect mode. Reading the pointer's high byte wraps within
// the same page, reproducing the well-known hardware page-boundary bug.
func ind(c *CPU) uint16 {
	ptrLo := zp(c)
	ptrHi := zp(c)
	ptr := ptrLo | ptrHi<<8

	lo := uint16(c.read(ptr))
	c.tick()
	hi := uint16(c.read((ptr & 0xFF00) | ((ptr + 1) & 0xFF)))
	c.tick()
	return lo | hi<<8
}

// indx is indexed-indirect ("(zp,X)"): the zero-page pointer is formed from
// the immediate plus X, wrapping within the zero page, so it never crosses
// a page and never takes an extra tick.
func indx(c *CPU) uint16 {
	ptr := zpx(c)
	lo := uint16(c.read(ptr))
	c.tick()
	hi := uint16(c.read((ptr + 1) & 0xFF))
	c.tick()
	return lo | hi<<8
}

func indyBase(c *CPU) (lo, ptr uint16) {
	ptr = zp(c)
	lo = uint16(c.read(ptr))
	c.tick()
	return lo, ptr
}

// indyRd is indirect-indexed ("(zp),Y") for reads: crossing a page adds a
// tick for the corrected high byte.
func indyRd(c *CPU) uint16 {
	lo, ptr := indyBase(c)
	hi := uint16(c.read((ptr + 1) & 0xFF))
	lo += uint16(c.Y)
	c.tick()
	if lo > 0xFF {
		lo &= 0xFF
		hi++
		c.tick()
	}
	return lo | hi<<8
}

// indyWr always consumes the extra tick, regardless of page cross, since
// the opcodes that use it are writes or read-modify-writes.
func indyWr(c *CPU) uint16 {
	lo, ptr := indyBase(c)
	hi := uint16(c.read((ptr + 1) & 0xFF))
	lo += uint16(c.Y)
	c.tick()
	if lo > 0xFF {
		lo &= 0xFF
		hi++
	}
	c.tick()
	return lo | hi<<8
}

// rel resolves a taken branch's target address, including the page-cross
// tick. Call only when the branch condition holds; the not-taken path
// consumes its operand byte without calling this.
func rel(c *CPU) uint16 {
	offset := int8(c.read(imm(c)))
	c.tick()
	addr := uint16(int32(c.PC) + int32(offset))
	c.tick()
	if (addr & 0xFF00) != (c.PC & 0xFF00) {
		c.tick()
	}
	return addr
}

// acc and impl are pseudo-modes for instructions that operate on the
// accumulator or need no operand at all; they never touch the bus.
func acc(c *CPU) uint16  { return 0 }
func impl(c *CPU) uint16 { return 0 }
