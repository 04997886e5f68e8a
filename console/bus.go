// Package console wires the CPU, PPU, APU, cartridge mapper and
// controller into the single memory-mapped bus the 6502 core executes
// against, and drives the three-way CPU/PPU/APU cycle lockstep.
package console

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/hollowtrace/gintendo/apu"
	"github.com/hollowtrace/gintendo/input"
	"github.com/hollowtrace/gintendo/mappers"
	"github.com/hollowtrace/gintendo/mos6502"
	"github.com/hollowtrace/gintendo/nesrom"
	"github.com/hollowtrace/gintendo/ppu"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	NES_BASE_MEMORY = 0x800 // 2KB built in RAM

	MAX_ADDRESS          = math.MaxUint16
	MEM_SIZE             = MAX_ADDRESS + 1
	MAX_NES_BASE_RAM     = 0x1FFF
	MAX_PPU_REG_MIRRORED = 0x3FFF
	MAX_IO_REG           = 0x4020
	MAX_SRAM             = 0x6000
)

const (
	OAMDMA      = 0x4014 // Triggers DMA from CPU memory to the PPU's OAM
	JOY1        = 0x4016
	JOY2        = 0x4017
	APU_STATUS  = 0x4015
)

// Bus is the canonical NES CPU address-space decoder: 2 KiB of system
// RAM mirrored four times, the PPU's eight registers mirrored across
// $2000-$3FFF, the APU/controller I/O range, and the cartridge mapper
// from $4020 up.
type Bus struct {
	cpu    *mos6502.CPU
	ppu    *ppu.PPU
	apu    *apu.APU
	mapper mappers.Mapper
	pad1   input.Controller
	pad2   input.Controller
	ram    []uint8
	ticks  uint64
}

// New loads rom and constructs a fully wired Bus: cartridge mapper
// resolution, CPU, PPU and APU construction, and power-on reset.
func New(rom []byte) (*Bus, error) {
	r, err := nesrom.New(rom)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}
	m, err := mappers.Get(r)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}

	bus := &Bus{mapper: m, ram: make([]uint8, NES_BASE_MEMORY)}

	bus.cpu = mos6502.New(bus)
	bus.ppu = ppu.New(bus)
	bus.apu = apu.New()

	return bus, nil
}

// Reset brings the CPU and PPU back to their power-on register state
// without touching RAM, VRAM or the cartridge.
func (b *Bus) Reset() {
	b.cpu.Reset()
	b.ppu.Reset()
}

// SetButton forwards a host input event to controller 1, the only pad
// this core wires up; a second controller slot exists for $4017 reads
// but nothing drives it yet.
func (b *Bus) SetButton(btn input.Button, pressed bool) {
	b.pad1.SetButton(btn, pressed)
}

func (b *Bus) MirrorMode() uint8 {
	return b.mapper.MirroringMode()
}

// Layout returns the constant resolution of the NES and is part of
// the ebiten.Game interface. By returning constants here, we will
// force ebiten to scale the display when the window size changes.
func (b *Bus) Layout(w, h int) (int, int) {
	return b.ppu.GetResolution()
}

// Draw updates the displayed ebiten window with the current state of
// the PPU.
func (b *Bus) Draw(screen *ebiten.Image) {
	px := b.ppu.GetPixels()
	rect := px.Bounds()
	dx, dy := rect.Dx(), rect.Dy()

	for x := 0; x < dx; x++ {
		for y := 0; y < dy; y++ {
			screen.Set(x, y, px.At(x, y))
		}
	}
}

// Update is called by ebiten roughly every 1/60s and will be our
// driver for the emulation.
func (b *Bus) Update() error {
	// We do work in a different goroutine and don't need ebiten
	// to drive this. We have to be implemented and called though
	// as it's part of the required interface.
	return nil
}

// Framebuffer returns the most recently completed frame as flat RGB
// bytes, for hosts that don't want an image.Image.
func (b *Bus) Framebuffer() *[256 * 240 * 3]byte {
	return b.ppu.Framebuffer()
}

// TriggerNMI is used by the PPU to signal the CPU that it is in vblank.
func (b *Bus) TriggerNMI() {
	b.cpu.TriggerNMI()
}

// ChrRead is used by the PPU to access CHR-ROM/CHR-RAM in the loaded
// Mapper.
func (b *Bus) ChrRead(addr uint16) uint8 {
	return b.mapper.ChrRead(addr)
}

// ChrWrite is used by the PPU for cartridges with CHR-RAM.
func (b *Bus) ChrWrite(addr uint16, val uint8) {
	b.mapper.ChrWrite(addr, val)
}

func (b *Bus) Read(addr uint16) uint8 {
	// https://www.nesdev.org/wiki/CPU_memory_map
	switch {
	case addr <= MAX_NES_BASE_RAM:
		// 0x800-0x1FFF mirrors 0x0000-0x07FF
		return b.ram[addr&0x7FF]
	case addr <= MAX_PPU_REG_MIRRORED:
		// PPU registers are mirrored between 0x2000 and 0x4000
		return b.ppu.ReadReg(0x2000 + addr&0x0007)
	case addr < MAX_IO_REG:
		switch addr {
		case JOY1:
			return b.pad1.Read()
		case JOY2:
			return b.pad2.Read()
		case APU_STATUS:
			return b.apu.ReadStatus()
		}
		return 0
	default:
		return b.mapper.PrgRead(addr)
	}
}

func (b *Bus) ClearMem() {
	b.ram = make([]uint8, len(b.ram))
}

func (b *Bus) Write(addr uint16, val uint8) {
	// https://www.nesdev.org/wiki/CPU_memory_map
	switch {
	case addr <= MAX_NES_BASE_RAM:
		// 0x800-0x1FFF mirrors 0x0000-0x07FF
		b.ram[addr&0x07FF] = val
	case addr <= MAX_PPU_REG_MIRRORED:
		// PPU registers are mirrored between 0x2000 and 0x4000
		b.ppu.WriteReg(0x2000+addr&0x0007, val)
	case addr < MAX_IO_REG:
		switch addr {
		case OAMDMA:
			base := uint16(val) << 8
			for i := uint16(0); i < 256; i++ {
				b.ppu.WriteReg(ppu.OAMDATA, b.Read(base+i))
			}
			b.cpu.AddDMACycles()
		case JOY1:
			b.pad1.Write(val)
			b.pad2.Write(val)
		default:
			if addr >= 0x4000 && addr <= 0x4017 {
				b.apu.WriteRegister(addr, val)
			}
		}
	default:
		b.mapper.PrgWrite(addr, val)
	}
}

// Clock performs the smallest unit of work this bus schedules: it ticks
// the PPU three times and the APU once for every CPU cycle, letting the
// CPU's own Tick decide whether that cycle retires an instruction. It
// reports whether a PPU frame was just completed.
func (b *Bus) Clock() bool {
	frameDone := false
	for i := 0; i < 3; i++ {
		if b.ppu.Tick() {
			frameDone = true
		}
	}
	b.apu.Tick()
	if b.apu.IRQ() {
		b.cpu.SetIRQLine(true)
	} else {
		b.cpu.SetIRQLine(false)
	}
	b.cpu.Tick()
	b.ticks++
	return frameDone
}

// Tick runs Clock repeatedly until a full PPU frame has been produced.
func (b *Bus) Tick() {
	for !b.Clock() {
	}
}

// Run drives the bus continuously until ctx is cancelled. cmd/gintendo
// runs it on its own goroutine behind the ebiten window.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			b.Clock()
		}
	}
}

// Snapshot is a point-in-time, human-readable view of the core's
// register state, for debug tooling and tests.
type Snapshot struct {
	PC             uint16
	A, X, Y, SP, P uint8
	Scanline       int
	Cycle          int
	Frame          uint64
}

// RegistersSnapshot captures the current CPU registers. The PPU fields
// of Snapshot (Scanline, Cycle, Frame) are not filled in and are always
// zero.
func (b *Bus) RegistersSnapshot() Snapshot {
	pc, a, x, y, sp, p := b.cpu.Registers()
	return Snapshot{PC: pc, A: a, X: x, Y: y, SP: sp, P: p}
}

func (b *Bus) String() string {
	return fmt.Sprintf("%s\n%s", b.cpu, b.ppu)
}

// Disassemble formats the single instruction at addr.
func (b *Bus) Disassemble(addr uint16) string {
	return mos6502.Disassemble(addr, b.Read)
}

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Printf(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}

func (b *Bus) BIOS(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)

	breaks := make(map[uint16]struct{})

	for {
		fmt.Printf("%s\n\n", b.cpu)
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - cleear breakpoints")
		fmt.Println("(R)un - run to completion")
		fmt.Println("(S)step - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)memory - select a memory range to display")
		fmt.Println("S(t)ack - show last 3 items on the stack")
		fmt.Println("(I)instruction - show instruction memory locations")
		fmt.Println("(P)C - set program counter")
		fmt.Println("PP(U) - show PPU status")
		fmt.Println("(Q)uit - shutdown the gintentdo")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			b.cpu.SetPC(readAddress("Set PC to what address (eg: 0400)?: "))
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

			// Stop when PC reaches a breakpoint, once it has left the
			// address the run started from.
			start, _, _, _, _, _ := b.cpu.Registers()
			moved := false
			for cctx.Err() == nil {
				b.Clock()
				pc, _, _, _, _, _ := b.cpu.Registers()
				moved = moved || pc != start
				if _, ok := breaks[pc]; ok && moved {
					break
				}
			}
			cancel()
		case 's', 'S':
			c := b.cpu.Step() * 3
			for i := 0; i < c; i++ {
				b.ppu.Tick()
			}
		case 't', 'T':
			fmt.Println()
			i := 0
			for {
				m := b.cpu.StackAddr() + uint16(i)
				fmt.Printf("0x%04x: 0x%02x ", m, b.Read(m))
				if m == 0x01ff || i == 2 {
					break
				}
				i += 1
			}
			fmt.Printf("\n\n")
		case 'i', 'I':
			fmt.Printf("\n%s\n\n", b.cpu.Inst())
		case 'u', 'U':
			fmt.Println(b.ppu)
		case 'e', 'E':
			b.cpu.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			i := low
			for {
				fmt.Printf("0x%04x: 0x%02x ", i, b.Read(i))
				if x%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				x += 1
				i += 1
			}
			fmt.Printf("\n\n")
		}
	}
}
