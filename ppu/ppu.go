// Package ppu implements the NES Picture Processing Unit: the CPU-visible
// register file, the internal "loopy" scroll registers, OAM, nametable/
// palette RAM, and the 341-dot by 262-scanline background/sprite pipeline.
// https://www.nesdev.org/wiki/PPU
package ppu

import "github.com/nescore/nescore/mappers"

// Width and Height are the visible frame dimensions in pixels.
const (
	Width  = visibleWidth
	Height = visibleRows
)

const (
	ciRAMSize    = 2048
	oamSize      = 256
	paletteSize  = 32
	maxScanline  = 261
	dotsPerLine  = 341
	visibleWidth = 256
	visibleRows  = 240
)

// CPU-visible register addresses, each repeating every 8 bytes in
// $2000-$3FFF.
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
)

const (
	ctrlNametable    = 0x03
	ctrlIncrement    = 1 << 2
	ctrlSpritePat    = 1 << 3
	ctrlBgPat        = 1 << 4
	ctrlSpriteSize   = 1 << 5
	ctrlGenerateNMI  = 1 << 7
)

const (
	maskGreyscale    = 1 << 0
	maskBgLeft       = 1 << 1
	maskSpriteLeft   = 1 << 2
	maskShowBg       = 1 << 3
	maskShowSprites  = 1 << 4
)

const (
	statusSpriteOverflow = 1 << 5
	statusSprite0Hit     = 1 << 6
	statusVBlank         = 1 << 7
)

const (
	patternTable0 = 0x0000
	nametable0    = 0x2000
	paletteBase   = 0x3F00
)

// Bus is the PPU's view of the cartridge: CHR pattern data and nametable
// mirroring, plus the NMI line it drives on the CPU.
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	Mirroring() mappers.Mirroring
	TriggerNMI()
}

// PPU holds the full CPU-visible register file, internal scroll/shift
// state, and VRAM/OAM/palette storage. Tick is the only entry point that
// advances time; register reads and writes are synchronous bus accesses
// with no cycle cost of their own, matching the CPU's own non-ticking
// read/write split.
type PPU struct {
	bus Bus

	ctrl, mask uint8
	status     uint8
	oamAddr    uint8

	oam       [oamSize]uint8
	secondary [8]spriteSlot

	ciRAM  [ciRAMSize]uint8
	cgRAM  [paletteSize]uint8

	v, t loopy
	x    uint8
	w    uint8

	busLatch   uint8
	readBuffer uint8

	scanline int
	dot      int
	frameOdd bool

	nextNT, nextAT, nextBgLo, nextBgHi uint8
	bgShiftLo, bgShiftHi               uint16
	atShiftLo, atShiftHi               uint8
	atLatchLo, atLatchHi               uint8

	spriteCount      int
	spritePatternLo  [8]uint8
	spritePatternHi  [8]uint8
	spriteAttr       [8]uint8
	spriteX          [8]uint8
	spriteIsZero     [8]bool
	spriteZeroOnLine bool

	frame [visibleWidth * visibleRows]uint8

	frameReady bool
}

// New constructs a PPU wired to bus. The caller should also call Reset.
func New(bus Bus) *PPU {
	return &PPU{bus: bus}
}

// Reset establishes the documented power-on/reset register state: mask and
// control zeroed, status bits 0-6 cleared (bit 7 preserved), write toggle
// cleared. The "ready" gate that ignores early writes is enforced by the
// caller (console), which counts CPU cycles since reset and only forwards
// register writes once the gate has elapsed, per spec.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.status &= statusVBlank
	p.w = 0
	p.scanline, p.dot = 0, 0
	p.frameOdd = false
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBg|maskShowSprites) != 0
}

// WriteReg handles a CPU write to one of the eight PPU registers (already
// decoded to its canonical $2000-$2007 address by the bus).
func (p *PPU) WriteReg(r uint16, val uint8) {
	p.busLatch = val

	switch r {
	case PPUCTRL:
		p.ctrl = val
		p.t.setNametableX(uint16(val) & 0x01)
		p.t.setNametableY((uint16(val) >> 1) & 0x01)
	case PPUMASK:
		p.mask = val
	case OAMADDR:
		p.oamAddr = val
	case OAMDATA:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case PPUSCROLL:
		if p.w == 0 {
			p.x = val & 0x07
			p.t.setCoarseX(uint16(val) >> 3)
			p.w = 1
		} else {
			p.t.setFineY(uint16(val) & 0x07)
			p.t.setCoarseY(uint16(val) >> 3)
			p.w = 0
		}
	case PPUADDR:
		if p.w == 0 {
			p.t.set((p.t.address() & 0x00FF) | (uint16(val&0x3F) << 8))
			p.w = 1
		} else {
			p.t.set((p.t.address() & 0x7F00) | uint16(val))
			p.v.set(p.t.address())
			p.w = 0
		}
	case PPUDATA:
		p.writeVRAM(p.v.address(), val)
		p.incrementV()
	}
}

// ReadReg handles a CPU read from one of the eight PPU registers.
func (p *PPU) ReadReg(r uint16) uint8 {
	switch r {
	case PPUSTATUS:
		ret := (p.status & 0xE0) | (p.busLatch & 0x1F)
		p.status &^= statusVBlank
		p.w = 0
		p.busLatch = ret
		return ret
	case OAMDATA:
		p.busLatch = p.oam[p.oamAddr]
		return p.busLatch
	case PPUDATA:
		addr := p.v.address()
		var ret uint8
		if addr < paletteBase {
			ret = p.readBuffer
			p.readBuffer = p.readVRAM(addr)
		} else {
			p.readBuffer = p.readVRAM(addr - 0x1000)
			ret = p.readVRAM(addr)
		}
		p.incrementV()
		p.busLatch = ret
		return ret
	default:
		return p.busLatch
	}
}

func (p *PPU) incrementV() {
	if p.ctrl&ctrlIncrement != 0 {
		p.v.set(p.v.address() + 32)
	} else {
		p.v.set(p.v.address() + 1)
	}
}

// nametableMirror maps a $2000-$2FFF nametable address down to an offset
// into the 2 KiB of on-console nametable RAM, per the cartridge's mirroring
// mode. Four-screen mirroring needs cartridge-provided extra RAM the core
// doesn't model; it mirrors like vertical, which is the conservative choice
// (matching what a NROM-only core can actually back).
func (p *PPU) nametableMirror(addr uint16) uint16 {
	a := (addr - nametable0) % 0x1000
	switch p.bus.Mirroring() {
	case mappers.MirrorHorizontal:
		return (a&0x3FF) | ((a>>1)&0x400)
	case mappers.MirrorVertical:
		return a & 0x7FF
	case mappers.MirrorSingleScreen:
		return a & 0x3FF
	default:
		return a & 0x7FF
	}
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	a := addr % 0x4000
	switch {
	case a < nametable0:
		return p.bus.ChrRead(a)
	case a < paletteBase:
		return p.ciRAM[p.nametableMirror(a)]
	default:
		return p.cgRAM[p.paletteIndex(a)]
	}
}

func (p *PPU) writeVRAM(addr uint16, val uint8) {
	a := addr % 0x4000
	switch {
	case a < nametable0:
		p.bus.ChrWrite(a, val)
	case a < paletteBase:
		p.ciRAM[p.nametableMirror(a)] = val
	default:
		p.cgRAM[p.paletteIndex(a)] = val
	}
}

// paletteIndex folds the $3F00-$3FFF mirror range down to 32 bytes; entries
// $10/$14/$18/$1C mirror their $00/$04/$08/$0C sprite-transparent-color
// counterparts.
func (p *PPU) paletteIndex(addr uint16) uint16 {
	i := (addr - paletteBase) % paletteSize
	if i&0x13 == 0x10 {
		i &^= 0x10
	}
	return i
}

// Tick advances the PPU by n dots (n is normally 3, once per CPU tick).
func (p *PPU) Tick(n int) {
	for i := 0; i < n; i++ {
		p.tick()
	}
}

// FrameReady reports whether a full frame has been composed since the last
// call, clearing the flag.
func (p *PPU) FrameReady() bool {
	r := p.frameReady
	p.frameReady = false
	return r
}

// Frame returns the framebuffer as 256x240 6-bit palette indices. It is the
// buffer renderPixel writes into dot by dot, not a copy: while scanlines
// 0-239 are being rendered it holds a partly drawn frame.
func (p *PPU) Frame() []uint8 {
	return p.frame[:]
}
