// Package cartridge implements support for the NES (iNES) ROM format: header
// validation, PRG/CHR/trainer layout, and dispatch to a registered mapper.
// https://www.nesdev.org/wiki/INES
package cartridge

import (
	"errors"
	"fmt"
	"io"

	"github.com/nescore/nescore/mappers"
)

// LoadResult tags the outcome of New so callers can distinguish a missing
// file from a malformed or unsupported one without parsing error strings.
type LoadResult uint8

const (
	SUCCESS LoadResult = iota
	NOT_FOUND
	INVALID
	UNSUPPORTED
)

func (r LoadResult) String() string {
	switch r {
	case SUCCESS:
		return "SUCCESS"
	case NOT_FOUND:
		return "NOT_FOUND"
	case INVALID:
		return "INVALID"
	case UNSUPPORTED:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// LoadError pairs a LoadResult with the underlying cause.
type LoadError struct {
	Result LoadResult
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return e.Result.String()
	}
	return fmt.Sprintf("%s: %v", e.Result, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// malformedHeaderError marks a parseHeader failure as a malformed or
// truncated header (short read, bad magic, zero PRG size) rather than a
// structurally valid header New merely declines to support (an unregistered
// mapper ID, a PAL flag this core doesn't model). New classifies LoadResult
// by type-asserting for this, not by matching error text.
type malformedHeaderError struct{ err error }

func (e *malformedHeaderError) Error() string { return e.err.Error() }
func (e *malformedHeaderError) Unwrap() error { return e.err }

const (
	headerSize   = 16
	trainerSize  = 512
	prgBlockSize = 0x4000 // 16 KiB
	chrBlockSize = 0x2000 // 8 KiB
	prgRAMUnit   = 0x2000 // 8 KiB
)

type header struct {
	prgUnits    uint8 // 16 KiB units
	chrUnits    uint8 // 8 KiB units
	mirroring   mappers.Mirroring
	hasPRGRAM   bool
	hasTrainer  bool
	mapperID    uint8
	prgRAMUnits uint8
}

func parseHeader(b []byte) (header, error) {
	if len(b) < headerSize {
		return header{}, &malformedHeaderError{fmt.Errorf("short header: %d bytes", len(b))}
	}
	if string(b[0:4]) != "NES\x1a" {
		return header{}, &malformedHeaderError{fmt.Errorf("bad magic %q", b[0:4])}
	}

	flags6 := b[6]
	flags7 := b[7]
	flags9 := b[9]

	h := header{
		prgUnits:   b[4],
		chrUnits:   b[5],
		hasPRGRAM:  flags6&0x02 != 0,
		hasTrainer: flags6&0x04 != 0,
		mapperID:   (flags6 >> 4) | (flags7 & 0xF0),
	}

	switch {
	case flags6&0x08 != 0:
		h.mirroring = mappers.MirrorFourScreen
	case flags6&0x01 != 0:
		h.mirroring = mappers.MirrorVertical
	default:
		h.mirroring = mappers.MirrorHorizontal
	}

	if h.prgUnits == 0 {
		return header{}, &malformedHeaderError{fmt.Errorf("zero PRG size")}
	}
	if flags9 != 0 {
		return header{}, fmt.Errorf("PAL flag set in flags9, only NTSC is supported")
	}

	h.prgRAMUnits = b[8]
	if h.prgRAMUnits == 0 {
		h.prgRAMUnits = 1
	}

	return h, nil
}

// Cartridge owns the cartridge's immutable PRG/CHR storage, optional PRG RAM,
// and the mapper that translates bus addresses onto them.
type Cartridge struct {
	h      header
	mapper mappers.Mapper
}

// New reads and validates an iNES image from r and dispatches to the mapper
// named by the header. Only Mapper 0 (NROM) is registered; any other ID
// reports UNSUPPORTED.
func New(r io.Reader) (*Cartridge, *LoadError) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Result: NOT_FOUND, Err: err}
	}

	h, err := parseHeader(raw)
	if err != nil {
		var malformed *malformedHeaderError
		if errors.As(err, &malformed) {
			return nil, &LoadError{Result: INVALID, Err: err}
		}
		return nil, &LoadError{Result: UNSUPPORTED, Err: err}
	}
	if h.hasTrainer {
		return nil, &LoadError{Result: UNSUPPORTED, Err: fmt.Errorf("512-byte trainer not supported")}
	}

	off := headerSize
	prgLen := int(h.prgUnits) * prgBlockSize
	if off+prgLen > len(raw) {
		return nil, &LoadError{Result: INVALID, Err: fmt.Errorf("truncated PRG ROM")}
	}
	prg := raw[off : off+prgLen]
	off += prgLen

	var chr []byte
	chrRAM := h.chrUnits == 0
	if chrRAM {
		chr = make([]byte, chrBlockSize)
	} else {
		chrLen := int(h.chrUnits) * chrBlockSize
		if off+chrLen > len(raw) {
			return nil, &LoadError{Result: INVALID, Err: fmt.Errorf("truncated CHR ROM")}
		}
		chr = raw[off : off+chrLen]
	}

	m, err := mappers.New(h.mapperID, mappers.ROM{
		PRG:       prg,
		CHR:       chr,
		CHRIsRAM:  chrRAM,
		PRGRAM:    make([]byte, int(h.prgRAMUnits)*prgRAMUnit),
		Mirroring: h.mirroring,
	})
	if err != nil {
		return nil, &LoadError{Result: UNSUPPORTED, Err: err}
	}

	return &Cartridge{h: h, mapper: m}, nil
}

// SetLogger wires a diagnostic logger through to the underlying mapper, if
// it accepts one. A mapper with nothing to log just never implements
// mappers.Loggable, and the call is a no-op.
func (c *Cartridge) SetLogger(l mappers.Logger) {
	if lm, ok := c.mapper.(mappers.Loggable); ok {
		lm.SetLogger(l)
	}
}

// Mirroring reports the cartridge's nametable mirroring mode.
func (c *Cartridge) Mirroring() mappers.Mirroring { return c.mapper.Mirroring() }

// PrgRead services CPU reads to $6000-$FFFF.
func (c *Cartridge) PrgRead(addr uint16) uint8 { return c.mapper.PrgRead(addr) }

// PrgWrite services CPU writes to $6000-$FFFF.
func (c *Cartridge) PrgWrite(addr uint16, val uint8) { c.mapper.PrgWrite(addr, val) }

// ChrRead services PPU reads to $0000-$1FFF.
func (c *Cartridge) ChrRead(addr uint16) uint8 { return c.mapper.ChrRead(addr) }

// ChrWrite services PPU writes to $0000-$1FFF.
func (c *Cartridge) ChrWrite(addr uint16, val uint8) { c.mapper.ChrWrite(addr, val) }

// MapperID returns the iNES mapper number the cartridge was loaded with.
func (c *Cartridge) MapperID() uint8 { return c.h.mapperID }

// PRGUnits returns the number of 16 KiB PRG ROM banks.
func (c *Cartridge) PRGUnits() uint8 { return c.h.prgUnits }

// CHRUnits returns the number of 8 KiB CHR ROM banks (0 means CHR RAM).
func (c *Cartridge) CHRUnits() uint8 { return c.h.chrUnits }
