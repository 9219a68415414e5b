package ppu

// tick executes exactly one PPU dot: rendering fetches and shifts for the
// visible/pre-render lines, frame-boundary bookkeeping, and the status/NMI
// edges. Each dot is evaluated immediately after the (scanline, dot)
// counters have been advanced from the previous call, so dot 0 of a line is
// the first dot actually processed for it.
func (p *PPU) tick() {
	p.advanceDot()

	if p.scanline <= 239 || p.scanline == maxScanline {
		p.renderLine()
	}

	switch {
	case p.scanline == maxScanline && p.dot == 0:
		p.status &^= statusVBlank | statusSpriteOverflow | statusSprite0Hit
	case p.scanline == 241 && p.dot == 0:
		p.status |= statusVBlank
		if p.ctrl&ctrlGenerateNMI != 0 {
			p.bus.TriggerNMI()
		}
	case p.scanline == 239 && p.dot == dotsPerLine-1:
		p.composeFrame()
		p.frameReady = true
	}
}

func (p *PPU) advanceDot() {
	p.dot++
	if p.dot >= dotsPerLine {
		p.dot = 0
		p.scanline++
		if p.scanline > maxScanline {
			p.scanline = 0
			p.frameOdd = !p.frameOdd
		}
		if p.scanline == 0 && p.frameOdd && p.renderingEnabled() {
			p.dot = 1
		}
	}
}

func (p *PPU) renderLine() {
	if (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336) {
		p.updateBgShifters()
		p.fetchBgByte()
	}
	if p.dot == 256 {
		if p.renderingEnabled() {
			p.incrementY()
		}
	}
	if p.dot == 257 {
		p.loadBgShifters()
		if p.renderingEnabled() {
			p.v.setCoarseX(p.t.coarseX())
			p.v.setNametableX(p.t.nametableX())
		}
		p.evaluateSprites()
	}
	if p.dot == 337 || p.dot == 339 {
		p.nextNT = p.readVRAM(nametable0 | (p.v.address() & 0x0FFF))
	}
	if p.scanline == maxScanline && p.dot >= 280 && p.dot <= 304 && p.renderingEnabled() {
		p.v.setCoarseY(p.t.coarseY())
		p.v.setFineY(p.t.fineY())
		p.v.setNametableY(p.t.nametableY())
	}
	if p.dot >= 1 && p.dot <= 256 && p.scanline <= 239 {
		p.renderPixel(p.dot - 1)
	}
	if p.dot == 340 {
		p.loadSprites()
	}
}

// fetchBgByte reproduces the nametable/attribute/pattern fetch sequence,
// one byte every two dots, latched into the "next" fields and shifted into
// the shift registers on the following 8-dot boundary.
func (p *PPU) fetchBgByte() {
	switch (p.dot - 1) % 8 {
	case 0:
		p.loadBgShifters()
		p.nextNT = p.readVRAM(nametable0 | (p.v.address() & 0x0FFF))
	case 2:
		addr := uint16(0x23C0) | (p.v.address() & 0x0C00) |
			((p.v.address() >> 4) & 0x38) | ((p.v.address() >> 2) & 0x07)
		at := p.readVRAM(addr)
		if p.v.coarseY()&0x02 != 0 {
			at >>= 4
		}
		if p.v.coarseX()&0x02 != 0 {
			at >>= 2
		}
		p.nextAT = at & 0x03
	case 4:
		base := uint16(0)
		if p.ctrl&ctrlBgPat != 0 {
			base = 0x1000
		}
		p.nextBgLo = p.readVRAM(base + uint16(p.nextNT)*16 + p.v.fineY())
	case 6:
		base := uint16(0)
		if p.ctrl&ctrlBgPat != 0 {
			base = 0x1000
		}
		p.nextBgHi = p.readVRAM(base + uint16(p.nextNT)*16 + p.v.fineY() + 8)
	case 7:
		if p.renderingEnabled() {
			if p.v.coarseX() == 31 {
				p.v.setCoarseX(0)
				p.v.toggleNametableX()
			} else {
				p.v.incrementCoarseX()
			}
		}
	}
}

func (p *PPU) incrementY() {
	if p.v.fineY() < 7 {
		p.v.incrementFineY()
		return
	}
	p.v.setFineY(0)
	switch p.v.coarseY() {
	case 29:
		p.v.setCoarseY(0)
		p.v.toggleNametableY()
	case 31:
		p.v.setCoarseY(0)
	default:
		p.v.incrementCoarseY()
	}
}

func (p *PPU) loadBgShifters() {
	p.bgShiftLo = (p.bgShiftLo &^ 0x00FF) | uint16(p.nextBgLo)
	p.bgShiftHi = (p.bgShiftHi &^ 0x00FF) | uint16(p.nextBgHi)
	if p.nextAT&0x01 != 0 {
		p.atLatchLo = 0xFF
	} else {
		p.atLatchLo = 0x00
	}
	if p.nextAT&0x02 != 0 {
		p.atLatchHi = 0xFF
	} else {
		p.atLatchHi = 0x00
	}
}

func (p *PPU) updateBgShifters() {
	if !p.renderingEnabled() {
		return
	}
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.atShiftLo = (p.atShiftLo << 1) | (p.atLatchLo & 1)
	p.atShiftHi = (p.atShiftHi << 1) | (p.atLatchHi & 1)
}

// spriteSlot is one secondary-OAM entry carried from evaluateSprites to
// loadSprites between the two dots hardware performs them on. attr is kept
// as the raw OAMDATA byte (palette in bits 0-1, priority in bit 5, flip in
// bits 6-7) rather than decoded fields, since renderPixel consumes it the
// same way the CPU would read it back out of OAM: by masking, not by field
// access.
type spriteSlot struct {
	y, tileID, attr, x uint8
}

// evaluateSprites picks up to 8 sprites in range of the NEXT scanline from
// primary OAM into the secondary-OAM-derived slices below, setting the
// overflow flag on the 9th hit. The real hardware's overflow-evaluation bug
// is not reproduced; only the documented in-range behavior is.
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ctrl&ctrlSpriteSize != 0 {
		height = 16
	}

	p.spriteCount = 0
	p.spriteZeroOnLine = false
	target := p.scanline + 1

	for i := 0; i < 64 && p.spriteCount < 8; i++ {
		y := int(p.oam[i*4])
		if target-y < 0 || target-y >= height {
			continue
		}
		slot := p.spriteCount
		p.secondary[slot] = spriteSlot{
			y:      p.oam[i*4],
			tileID: p.oam[i*4+1],
			attr:   p.oam[i*4+2],
			x:      p.oam[i*4+3],
		}
		p.spriteIsZero[slot] = i == 0
		if i == 0 {
			p.spriteZeroOnLine = true
		}
		p.spriteCount++
	}

	hits := 0
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		if target-y >= 0 && target-y < height {
			hits++
			if hits > 8 {
				p.status |= statusSpriteOverflow
				break
			}
		}
	}
}

func (p *PPU) loadSprites() {
	height := 8
	if p.ctrl&ctrlSpriteSize != 0 {
		height = 16
	}

	for i := 0; i < p.spriteCount; i++ {
		s := p.secondary[i]
		flipH := s.attr&0x40 != 0
		flipV := s.attr&0x80 != 0

		row := uint16(p.scanline+1) - uint16(s.y)
		if flipV {
			row = uint16(height-1) - row
		}

		var base, index uint16
		if height == 16 {
			base = uint16(s.tileID&0x01) * 0x1000
			index = uint16(s.tileID &^ 0x01)
			if row >= 8 {
				index++
				row -= 8
			}
		} else {
			if p.ctrl&ctrlSpritePat != 0 {
				base = 0x1000
			}
			index = uint16(s.tileID)
		}

		lo := p.readVRAM(base + index*16 + row)
		hi := p.readVRAM(base + index*16 + row + 8)
		if flipH {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.spritePatternLo[i] = lo
		p.spritePatternHi[i] = hi
		p.spriteAttr[i] = s.attr
		p.spriteX[i] = s.x
	}
	for i := p.spriteCount; i < 8; i++ {
		p.spritePatternLo[i] = 0
		p.spritePatternHi[i] = 0
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// renderPixel composes the background and sprite pixel at (scanline, x)
// into the framebuffer as a 6-bit palette index, applying sprite-zero hit
// and sprite priority.
func (p *PPU) renderPixel(x int) {
	var bgPixel, bgPalette uint8
	if p.mask&maskShowBg != 0 && (x >= 8 || p.mask&maskBgLeft != 0) {
		mux := uint16(0x8000) >> p.x
		lo := uint8(0)
		hi := uint8(0)
		if p.bgShiftLo&mux != 0 {
			lo = 1
		}
		if p.bgShiftHi&mux != 0 {
			hi = 1
		}
		bgPixel = (hi << 1) | lo

		amux := uint8(0x80) >> p.x
		alo := uint8(0)
		ahi := uint8(0)
		if p.atShiftLo&amux != 0 {
			alo = 1
		}
		if p.atShiftHi&amux != 0 {
			ahi = 1
		}
		bgPalette = (ahi << 1) | alo
	}

	var fgPixel, fgPalette uint8
	fgInFront := false
	fgIsZero := false
	if p.mask&maskShowSprites != 0 && (x >= 8 || p.mask&maskSpriteLeft != 0) {
		for i := 0; i < p.spriteCount; i++ {
			rel := x - int(p.spriteX[i])
			if rel < 0 || rel > 7 {
				continue
			}
			lo := (p.spritePatternLo[i] >> (7 - uint(rel))) & 1
			hi := (p.spritePatternHi[i] >> (7 - uint(rel))) & 1
			pix := (hi << 1) | lo
			if pix == 0 {
				continue
			}
			fgPixel = pix
			fgPalette = (p.spriteAttr[i] & 0x03) + 4
			fgInFront = p.spriteAttr[i]&0x20 == 0
			fgIsZero = p.spriteIsZero[i]
			break
		}
	}

	out := uint8(0)
	switch {
	case bgPixel == 0 && fgPixel == 0:
		out = p.readVRAM(paletteBase)
	case bgPixel == 0:
		out = p.readVRAM(paletteBase + uint16(fgPalette)*4 + uint16(fgPixel))
	case fgPixel == 0:
		out = p.readVRAM(paletteBase + uint16(bgPalette)*4 + uint16(bgPixel))
	case fgInFront:
		out = p.readVRAM(paletteBase + uint16(fgPalette)*4 + uint16(fgPixel))
	default:
		out = p.readVRAM(paletteBase + uint16(bgPalette)*4 + uint16(bgPixel))
	}

	if bgPixel != 0 && fgPixel != 0 && fgIsZero && p.spriteZeroOnLine && x != 255 {
		p.status |= statusSprite0Hit
	}

	if p.scanline >= 0 && p.scanline <= 239 {
		p.frame[p.scanline*visibleWidth+x] = out & 0x3F
	}
}

func (p *PPU) composeFrame() {
	// Framebuffer is written incrementally by renderPixel; this marks the
	// frame boundary for callers polling FrameReady.
}
