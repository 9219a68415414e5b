package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nescore/nescore/mappers"
)

func buildImage(prgUnits, chrUnits uint8, flags6, flags7, flags8, flags9 uint8) []byte {
	h := make([]byte, headerSize)
	copy(h, "NES\x1a")
	h[4] = prgUnits
	h[5] = chrUnits
	h[6] = flags6
	h[7] = flags7
	h[8] = flags8
	h[9] = flags9

	img := append([]byte{}, h...)
	img = append(img, make([]byte, int(prgUnits)*prgBlockSize)...)
	img = append(img, make([]byte, int(chrUnits)*chrBlockSize)...)
	return img
}

func TestNewRejectsBadMagic(t *testing.T) {
	img := buildImage(1, 1, 0, 0, 0, 0)
	img[0] = 'X'

	_, lerr := New(bytes.NewReader(img))
	require.NotNil(t, lerr)
	assert.Equal(t, INVALID, lerr.Result)
}

func TestNewRejectsShortHeader(t *testing.T) {
	img := make([]byte, headerSize-1)

	_, lerr := New(bytes.NewReader(img))
	require.NotNil(t, lerr)
	assert.Equal(t, INVALID, lerr.Result)
}

func TestNewRejectsZeroPRG(t *testing.T) {
	img := buildImage(0, 1, 0, 0, 0, 0)

	_, lerr := New(bytes.NewReader(img))
	require.NotNil(t, lerr)
	assert.Equal(t, INVALID, lerr.Result)
}

func TestNewRejectsTrainer(t *testing.T) {
	img := buildImage(1, 1, 0x04, 0, 0, 0)

	_, lerr := New(bytes.NewReader(img))
	require.NotNil(t, lerr)
	assert.Equal(t, UNSUPPORTED, lerr.Result)
}

func TestNewRejectsPAL(t *testing.T) {
	img := buildImage(1, 1, 0, 0, 0, 1)

	_, lerr := New(bytes.NewReader(img))
	require.NotNil(t, lerr)
	assert.Equal(t, UNSUPPORTED, lerr.Result)
}

func TestNewRejectsUnknownMapper(t *testing.T) {
	img := buildImage(1, 1, 0xF0, 0, 0, 0)

	_, lerr := New(bytes.NewReader(img))
	require.NotNil(t, lerr)
	assert.Equal(t, UNSUPPORTED, lerr.Result)
}

func TestNewRejectsTruncatedPRG(t *testing.T) {
	img := buildImage(2, 1, 0, 0, 0, 0)
	img = img[:headerSize+2*prgBlockSize-100]

	_, lerr := New(bytes.NewReader(img))
	require.NotNil(t, lerr)
	assert.Equal(t, INVALID, lerr.Result)
}

func TestNewSucceedsNROM(t *testing.T) {
	img := buildImage(1, 1, 0, 0, 0, 0)

	c, lerr := New(bytes.NewReader(img))
	require.Nil(t, lerr)
	assert.Equal(t, uint8(0), c.MapperID())
	assert.Equal(t, mappers.MirrorHorizontal, c.Mirroring())
}

func TestNewAllocatesCHRRAMWhenAbsent(t *testing.T) {
	img := buildImage(1, 0, 0, 0, 0, 0)

	c, lerr := New(bytes.NewReader(img))
	require.Nil(t, lerr)
	assert.Equal(t, uint8(0), c.CHRUnits())

	c.ChrWrite(0x0000, 0x7F)
	assert.Equal(t, uint8(0x7F), c.ChrRead(0x0000))
}

func TestNewVerticalMirroring(t *testing.T) {
	img := buildImage(1, 1, 0x01, 0, 0, 0)

	c, lerr := New(bytes.NewReader(img))
	require.Nil(t, lerr)
	assert.Equal(t, mappers.MirrorVertical, c.Mirroring())
}

func TestPrgRAMDefaultsToOneUnit(t *testing.T) {
	img := buildImage(1, 1, 0x02, 0, 0, 0)

	c, lerr := New(bytes.NewReader(img))
	require.Nil(t, lerr)

	c.PrgWrite(0x6000, 0x11)
	assert.Equal(t, uint8(0x11), c.PrgRead(0x6000))
}

type fakeLogger struct{ calls int }

func (f *fakeLogger) Mapper(format string, args ...interface{}) { f.calls++ }

func TestSetLoggerReachesMapperIgnoredWrite(t *testing.T) {
	img := buildImage(1, 1, 0, 0, 0, 0)

	c, lerr := New(bytes.NewReader(img))
	require.Nil(t, lerr)

	log := &fakeLogger{}
	c.SetLogger(log)

	c.PrgWrite(0x8000, 0xFF) // PRG ROM: ignored, should log once

	assert.Equal(t, 1, log.calls)
}
