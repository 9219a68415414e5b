// Package console wires the CPU, PPU, cartridge, and input ports together
// into the NES system bus, and drives the emulation loop and display.
package console

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nescore/nescore/cartridge"
	"github.com/nescore/nescore/internal/telemetry"
	"github.com/nescore/nescore/mappers"
	"github.com/nescore/nescore/mos6502"
	"github.com/nescore/nescore/ppu"
)

const (
	baseRAMSize = 0x0800 // 2 KiB built-in system RAM

	maxAddress      = math.MaxUint16
	maxBaseRAM      = 0x1FFF
	maxPPURegisters = 0x3FFF
	maxIORegisters  = 0x4020

	// readyGateCycles is how many CPU cycles after reset the PPU's
	// control/mask/scroll/address registers ignore writes, matching real
	// hardware's internal power-on delay.
	readyGateCycles = 29658
)

const (
	joy1   = 0x4016
	joy2   = 0x4017
	oamdma = 0x4014
)

// Bus is the NES system aggregate: CPU, PPU, cartridge, 2 KiB system RAM,
// and the two controller ports. It implements mos6502.Bus and ppu.Bus so
// neither component holds a reference to the other, only to this.
type Bus struct {
	cpu  *mos6502.CPU
	ppu  *ppu.PPU
	cart *cartridge.Cartridge

	ram [baseRAMSize]uint8

	pad1, pad2 controller

	cycles uint64

	log *telemetry.Logger
}

// New constructs a Bus wired to cart and resets every component to its
// documented power-on state.
func New(cart *cartridge.Cartridge) *Bus {
	b := &Bus{cart: cart, log: telemetry.New(telemetry.LevelOff, nil)}
	b.cpu = mos6502.New(b)
	b.cpu.OnIllegalOpcode = func(op uint8) {
		b.log.CPU("illegal opcode $%02X at $%04X", op, b.cpu.PC-1)
	}
	b.ppu = ppu.New(b)
	b.cart.SetLogger(b.log)

	ebiten.SetWindowSize(ppu.Width*2, ppu.Height*2)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	b.Reset()
	return b
}

// SetLogger replaces the bus's diagnostic logger, including the cartridge
// mapper's.
func (b *Bus) SetLogger(l *telemetry.Logger) {
	b.log = l
	b.cart.SetLogger(l)
}

// Reset drives the CPU and PPU through their reset sequences and restarts
// the register-ready gate.
func (b *Bus) Reset() {
	b.cycles = 0
	b.ppu.Reset()
	b.cpu.Reset()
}

// CPU exposes the system's CPU core, for tracing and test harnesses.
func (b *Bus) CPU() *mos6502.CPU { return b.cpu }

// PPU exposes the system's PPU core, for test harnesses.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// TriggerNMI is called by the PPU to signal the CPU that vblank has begun.
func (b *Bus) TriggerNMI() { b.cpu.TriggerNMI() }

// ChrRead services a PPU pattern-table access through the cartridge's mapper.
func (b *Bus) ChrRead(addr uint16) uint8 { return b.cart.ChrRead(addr) }

// ChrWrite services a PPU pattern-table write (CHR RAM cartridges only).
func (b *Bus) ChrWrite(addr uint16, val uint8) { b.cart.ChrWrite(addr, val) }

// Mirroring reports the cartridge's nametable mirroring mode.
func (b *Bus) Mirroring() mappers.Mirroring { return b.cart.Mirroring() }

// Read services a CPU bus read.
// https://www.nesdev.org/wiki/CPU_memory_map
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= maxBaseRAM:
		return b.ram[addr&0x07FF]
	case addr <= maxPPURegisters:
		return b.ppu.ReadReg(0x2000 + addr&0x0007)
	case addr == joy1:
		return b.pad1.read()
	case addr == joy2:
		return b.pad2.read()
	case addr < maxIORegisters:
		return 0
	case addr <= maxAddress:
		return b.cart.PrgRead(addr)
	}
	return 0
}

// Write services a CPU bus write.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= maxBaseRAM:
		b.ram[addr&0x07FF] = val
	case addr <= maxPPURegisters:
		if b.registersReady() {
			b.ppu.WriteReg(0x2000+addr&0x0007, val)
		}
	case addr == oamdma:
		b.doOAMDMA(val)
	case addr == joy1:
		b.pad1.write(val)
		b.pad2.write(val)
	case addr < maxIORegisters:
		// APU and remaining IO registers: not modeled.
	case addr <= maxAddress:
		b.cart.PrgWrite(addr, val)
	}
}

// registersReady reports whether the PPU's register-ready gate has elapsed.
// PPUSTATUS, OAMADDR, and OAMDATA are exempt on real hardware; this core
// gates the whole register block, which is conservative but never wrong for
// any ROM that waits on vblank before touching PPUCTRL, as every real game
// does.
func (b *Bus) registersReady() bool {
	return b.cycles >= readyGateCycles
}

// doOAMDMA copies 256 bytes from page (val<<8) into OAM, stalling the CPU
// for 513 cycles, or 514 if the DMA begins on an odd CPU cycle.
// https://www.nesdev.org/wiki/DMA
func (b *Bus) doOAMDMA(val uint8) {
	base := uint16(val) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteReg(ppu.OAMDATA, b.Read(base+uint16(i)))
	}

	stall := uint64(513)
	if b.cycles%2 == 1 {
		stall = 514
	}
	b.cpu.Stall(stall)
}

// advance runs the PPU forward by n CPU cycles worth of dots (3 per CPU
// cycle) and keeps the register-ready gate's cycle count current.
func (b *Bus) advance(cpuCycles uint64) {
	b.cycles += cpuCycles
	b.ppu.Tick(int(cpuCycles) * 3)
}

// Step executes exactly one CPU instruction (or services a pending
// interrupt) and catches the PPU up by the cycles it consumed. The CPU
// drives time; the PPU is a function of how far the CPU has run.
func (b *Bus) Step() uint64 {
	before := b.cpu.Cycles
	b.cpu.Step()
	consumed := b.cpu.Cycles - before
	b.advance(consumed)
	return consumed
}

// FrameReady reports whether the PPU finished composing a frame since the
// last call.
func (b *Bus) FrameReady() bool { return b.ppu.FrameReady() }

// Run drives the emulation continuously until ctx is canceled.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			b.Step()
		}
	}
}

// Layout returns the constant NES display resolution; ebiten scales to the
// window size around it.
func (b *Bus) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

// Draw paints the PPU's last composed frame onto screen.
func (b *Bus) Draw(screen *ebiten.Image) {
	frame := b.ppu.Frame()
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			idx := frame[y*ppu.Width+x]
			screen.Set(x, y, ppu.SystemPalette[idx])
		}
	}
}

// Update is part of the ebiten.Game interface. The emulation loop runs on
// its own goroutine via Run, so Update only needs to exist to satisfy the
// interface.
func (b *Bus) Update() error { return nil }

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Printf(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}

// BIOS is an interactive debugging REPL: breakpoints, single-stepping,
// memory and stack inspection, and PC/reset control.
func (b *Bus) BIOS(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)

	breaks := make(map[uint16]struct{})

	for {
		fmt.Printf("%s\n\n", b.cpu.Trace())
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run to completion")
		fmt.Println("(S)tep - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)emory - select a memory range to display")
		fmt.Println("S(t)ack - show last 3 items on the stack")
		fmt.Println("(P)C - set program counter")
		fmt.Println("(Q)uit - shutdown the emulator")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			b.cpu.PC = readAddress("Set PC to what address (eg: 0400)?: ")
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func(ctx context.Context) {
				for {
					select {
					case <-sigQuit:
						cancel()
					case <-ctx.Done():
						return
					}
				}
			}(cctx)

			for {
				if _, stop := breaks[b.cpu.PC]; stop {
					break
				}
				select {
				case <-cctx.Done():
					cancel()
					return
				default:
					b.Step()
				}
			}
		case 's', 'S':
			b.Step()
		case 't', 'T':
			fmt.Println()
			for i := uint16(1); i <= 3; i++ {
				m := 0x0100 | (uint16(b.cpu.S) + i)
				fmt.Printf("0x%04x: 0x%02x ", m, b.Read(m))
			}
			fmt.Printf("\n\n")
		case 'e', 'E':
			b.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			for i := low; ; i++ {
				fmt.Printf("0x%04x: 0x%02x ", i, b.Read(i))
				if x%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				x++
			}
			fmt.Printf("\n\n")
		}
	}
}
