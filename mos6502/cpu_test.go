package mos6502

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBus is a flat 64 KiB RAM double, not the real system decode — this
// package tests the CPU in isolation, the same way original_source's cpu.c
// tests the core against synthetic rd/wr tables.
type testBus struct {
	mem [0x10000]uint8
}

func (b *testBus) Read(addr uint16) uint8       { return b.mem[addr] }
func (b *testBus) Write(addr uint16, val uint8) { b.mem[addr] = val }

func newTestCPU() (*CPU, *testBus) {
	bus := &testBus{}
	c := New(bus)
	return c, bus
}

func TestResetEstablishesPowerOnState(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80

	c.Reset()

	assert.Equal(t, uint16(0x8000), c.PC)
	assert.Equal(t, uint8(0xFD), c.S)
	assert.True(t, c.P&flagUnused != 0, "P bit 5 must always read as 1")
}

func TestPageCrossTiming(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFC], bus.mem[0xFFFD] = 0x00, 0x80
	c.Reset()
	startCycles := c.Cycles

	c.PC = 0x8000
	bus.mem[0x8000] = 0xBD // LDA abs,X
	bus.mem[0x8001] = 0xFF
	bus.mem[0x8002] = 0x00
	bus.mem[0x0100] = 0x42
	c.X = 1

	c.Step()

	assert.Equal(t, uint64(5), c.Cycles-startCycles)
	assert.Equal(t, uint8(0x42), c.A)
}

func TestIndirectJMPPageBug(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFC], bus.mem[0xFFFD] = 0x00, 0x80
	c.Reset()

	c.PC = 0x8000
	bus.mem[0x8000] = 0x6C // JMP (ind)
	bus.mem[0x8001] = 0xFF
	bus.mem[0x8002] = 0x02
	bus.mem[0x02FF] = 0x34
	bus.mem[0x0200] = 0x12
	bus.mem[0x0300] = 0x56

	c.Step()

	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestNMIStackFrame(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFC], bus.mem[0xFFFD] = 0x00, 0x80
	c.Reset()

	bus.mem[0xFFFA], bus.mem[0xFFFB] = 0x00, 0x90
	c.PC = 0x8042
	c.P = 0x24
	c.S = 0xFF
	c.TriggerNMI()

	c.Step()

	assert.Equal(t, uint8(0x80), bus.mem[0x0100|uint16(0xFF)])
	assert.Equal(t, uint8(0x42), bus.mem[0x0100|uint16(0xFE)])
	assert.Equal(t, uint8(0x24|flagUnused), bus.mem[0x0100|uint16(0xFD)])
	assert.Equal(t, uint8(0), bus.mem[0x0100|uint16(0xFD)]&flagBreak)
	assert.Equal(t, uint16(0x9000), c.PC)
	assert.True(t, c.flag(flagInterruptDisable))
}

func TestReadModifyWriteAlwaysTicksPageCrossSlot(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFC], bus.mem[0xFFFD] = 0x00, 0x80
	c.Reset()
	start := c.Cycles

	c.PC = 0x8000
	bus.mem[0x8000] = 0x1E // ASL abs,X
	bus.mem[0x8001] = 0x00
	bus.mem[0x8002] = 0x00
	c.X = 0 // no page cross, yet the extra tick still applies

	c.Step()

	assert.Equal(t, uint64(7), c.Cycles-start)
}

func TestStackWrapsModulo256(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFC], bus.mem[0xFFFD] = 0x00, 0x80
	c.Reset()
	c.S = 0x00

	c.push(0xAB)
	assert.Equal(t, uint8(0xAB), bus.mem[stackPage|0x00])
	assert.Equal(t, uint8(0xFF), c.S)
}

func TestPushPullRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	startS := c.S

	c.push(0x11)
	c.push(0x22)
	c.push(0x33)

	require.Equal(t, uint8(0x33), c.pull())
	require.Equal(t, uint8(0x22), c.pull())
	require.Equal(t, uint8(0x11), c.pull())
	assert.Equal(t, startS, c.S)
}

func TestTraceFormat(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFC], bus.mem[0xFFFD] = 0x00, 0xC0
	c.Reset()

	line := c.Trace()
	assert.Regexp(t, `^C000 A:00 X:00 Y:00 P:24 SP:FD CYC:\d+$`, line)
}

func TestIllegalOpcodeLoggedOncePerByte(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFC], bus.mem[0xFFFD] = 0x00, 0x80
	c.Reset()

	var seen []uint8
	c.OnIllegalOpcode = func(op uint8) { seen = append(seen, op) }

	c.PC = 0x8000
	bus.mem[0x8000] = 0x1A // illegal NOP alias
	bus.mem[0x8001] = 0x1A

	c.Step()
	c.Step()

	assert.Equal(t, []uint8{0x1A}, seen)
}
