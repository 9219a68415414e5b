package mappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestROM(prgBanks int) ROM {
	prg := make([]byte, prgBanks*0x4000)
	for i := range prg {
		prg[i] = uint8(i)
	}
	return ROM{
		PRG:      prg,
		CHR:      make([]byte, 0x2000),
		CHRIsRAM: true,
		PRGRAM:   make([]byte, 0x2000),
	}
}

func TestMapper0MirrorsSingleBank(t *testing.T) {
	m, err := New(0, newTestROM(1))
	require.NoError(t, err)

	assert.Equal(t, m.PrgRead(0x8000), m.PrgRead(0xC000))
	assert.Equal(t, m.PrgRead(0xBFFF), m.PrgRead(0xFFFF))
}

func TestMapper0TwoBanksDistinct(t *testing.T) {
	rom := newTestROM(2)
	rom.PRG[0x4000] = 0xAA // first byte of the second bank
	m, err := New(0, rom)
	require.NoError(t, err)

	assert.NotEqual(t, m.PrgRead(0x8000), m.PrgRead(0xC000))
}

func TestMapper0PrgWriteIsNoop(t *testing.T) {
	m, err := New(0, newTestROM(1))
	require.NoError(t, err)

	before := m.PrgRead(0x8000)
	m.PrgWrite(0x8000, 0xFF)
	assert.Equal(t, before, m.PrgRead(0x8000))
}

func TestMapper0PrgRAM(t *testing.T) {
	m, err := New(0, newTestROM(1))
	require.NoError(t, err)

	m.PrgWrite(0x6000, 0x42)
	assert.Equal(t, uint8(0x42), m.PrgRead(0x6000))
}

func TestMapper0ChrRAMWritable(t *testing.T) {
	m, err := New(0, newTestROM(1))
	require.NoError(t, err)

	m.ChrWrite(0x0010, 0x99)
	assert.Equal(t, uint8(0x99), m.ChrRead(0x0010))
}

func TestMapper0ChrROMReadOnly(t *testing.T) {
	rom := newTestROM(1)
	rom.CHRIsRAM = false
	rom.CHR[0x0010] = 0x55
	m, err := New(0, rom)
	require.NoError(t, err)

	m.ChrWrite(0x0010, 0x99)
	assert.Equal(t, uint8(0x55), m.ChrRead(0x0010))
}

func TestUnknownMapperID(t *testing.T) {
	_, err := New(255, newTestROM(1))
	assert.Error(t, err)
}

type loggedCall struct {
	format string
	args   []interface{}
}

type fakeLogger struct{ calls []loggedCall }

func (f *fakeLogger) Mapper(format string, args ...interface{}) {
	f.calls = append(f.calls, loggedCall{format, args})
}

func TestMapper0LogsIgnoredPrgRomWrite(t *testing.T) {
	m, err := New(0, newTestROM(1))
	require.NoError(t, err)

	log := &fakeLogger{}
	m.(Loggable).SetLogger(log)

	m.PrgWrite(0x8000, 0xFF)

	assert.Len(t, log.calls, 1)
}

func TestMapper0DoesNotLogSuccessfulPrgRamWrite(t *testing.T) {
	m, err := New(0, newTestROM(1))
	require.NoError(t, err)

	log := &fakeLogger{}
	m.(Loggable).SetLogger(log)

	m.PrgWrite(0x6000, 0x42)

	assert.Empty(t, log.calls)
}
