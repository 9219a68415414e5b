package console

import (
	"bytes"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nescore/nescore/cartridge"
)

// buildNROM assembles a minimal one-bank NROM image with the reset vector
// pointing at the start of PRG ROM, so a fresh Bus boots somewhere defined.
func buildNROM() []byte {
	h := make([]byte, 16)
	copy(h, "NES\x1a")
	h[4] = 1 // 1x16KiB PRG
	h[5] = 1 // 1x8KiB CHR

	prg := make([]byte, 0x4000)
	prg[0x3FFC] = 0x00 // reset vector low -> 0x8000
	prg[0x3FFD] = 0x80 // reset vector high

	img := append([]byte{}, h...)
	img = append(img, prg...)
	img = append(img, make([]byte, 0x2000)...)
	return img
}

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	cart, lerr := cartridge.New(bytes.NewReader(buildNROM()))
	require.Nil(t, lerr)
	return New(cart)
}

func TestSystemRAMMirrors(t *testing.T) {
	b := newTestBus(t)

	for i := uint16(0); i < 10; i++ {
		b.Write(i, uint8(i+1))
	}

	for _, base := range []uint16{0, 0x0800, 0x1000, 0x1800} {
		for i := uint16(0); i < 10; i++ {
			assert.Equal(t, uint8(i+1), b.Read(base+i))
		}
	}
}

func TestPPURegistersMirrorEvery8Bytes(t *testing.T) {
	b := newTestBus(t)
	b.cycles = readyGateCycles // open the register-ready gate

	// Set PPUADDR to a nametable byte through the $200E mirror of $2006,
	// then write it through the $200F mirror of $2007.
	b.Write(0x200E, 0x20)
	b.Write(0x200E, 0x05)
	b.Write(0x200F, 0x77)

	// Read it back through the unmirrored base registers.
	b.Write(0x2006, 0x20)
	b.Write(0x2006, 0x05)
	b.Read(0x2007) // priming read, PPUDATA below $3F00 is buffered one behind
	assert.Equal(t, uint8(0x77), b.Read(0x2007))
}

func TestRegisterWritesIgnoredBeforeReadyGate(t *testing.T) {
	b := newTestBus(t)
	b.cycles = 0

	b.Write(0x2000, 0xFF)
	assert.Equal(t, uint8(0), b.ppu.ReadReg(0x2001),
		"register writes before the ready gate must never reach the PPU")

	b.cycles = readyGateCycles
	b.Write(0x2000, 0xFF)
	assert.Equal(t, uint8(0xFF), b.ppu.ReadReg(0x2001),
		"register writes after the ready gate must reach the PPU")
}

func TestOAMDMACopies256BytesAndStallsCPU(t *testing.T) {
	b := newTestBus(t)
	b.cycles = readyGateCycles

	for i := uint16(0); i < 256; i++ {
		b.ram[i] = uint8(i)
	}

	before := b.cpu.Cycles
	b.Write(0x4014, 0x00)
	stalled := b.cpu.Cycles - before
	assert.True(t, stalled == 513 || stalled == 514)

	b.ppu.WriteReg(0x2003, 0x00) // OAMADDR = 0
	assert.Equal(t, uint8(0), b.ppu.ReadReg(0x2004))
}

type fakeKeys struct{ pressed map[ebiten.Key]bool }

func (f fakeKeys) IsKeyPressed(k ebiten.Key) bool { return f.pressed[k] }

func TestControllerStrobeAndShiftOut(t *testing.T) {
	b := newTestBus(t)
	b.pad1.src = fakeKeys{pressed: map[ebiten.Key]bool{
		ebiten.KeyA:     true, // A
		ebiten.KeySpace: true, // Select
	}}

	b.Write(joy1, 1) // strobe high
	b.Write(joy1, 0) // strobe low, latches a snapshot

	var bits []uint8
	for i := 0; i < 8; i++ {
		bits = append(bits, b.Read(joy1)&0x01)
	}
	assert.Equal(t, []uint8{1, 0, 1, 0, 0, 0, 0, 0}, bits)
}

func TestResetReturnsCPUToResetVector(t *testing.T) {
	b := newTestBus(t)
	assert.Equal(t, uint16(0x8000), b.cpu.PC)
}
