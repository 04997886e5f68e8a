package console

import (
	"testing"

	"github.com/hollowtrace/gintendo/input"
)

// nromImage builds a minimal one-bank NROM image with its reset vector
// pointed at $8000, used to exercise the bus end to end without a real
// game ROM.
func nromImage(t *testing.T) []byte {
	t.Helper()
	h := make([]byte, 16)
	copy(h, []byte("NES\x1A"))
	h[4] = 1 // 1x16KiB PRG
	h[5] = 1 // 1x8KiB CHR

	prg := make([]byte, 16*1024)
	// Reset vector at $FFFC/$FFFD -> $8000 (offset 0x3FFC/0x3FFD in this bank).
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80
	prg[0] = 0xEA // NOP at $8000

	chr := make([]byte, 8*1024)

	data := append(h, prg...)
	data = append(data, chr...)
	return data
}

func TestNewLoadsResetVectorFromCartridge(t *testing.T) {
	b, err := New(nromImage(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap := b.RegistersSnapshot()
	if snap.PC != 0x8000 {
		t.Fatalf("pc = %#04x, want $8000", snap.PC)
	}
}

func TestRAMMirroring(t *testing.T) {
	b, err := New(nromImage(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.Write(0x0000, 0x42)
	if got := b.Read(0x0800); got != 0x42 {
		t.Fatalf("$0800 = %#02x, want $42 (mirrors $0000)", got)
	}
	if got := b.Read(0x1800); got != 0x42 {
		t.Fatalf("$1800 = %#02x, want $42 (mirrors $0000)", got)
	}
}

func TestControllerRoundTripThroughBus(t *testing.T) {
	b, err := New(nromImage(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.SetButton(input.ButtonA, true)
	b.Write(0x4016, 0x01)
	b.Write(0x4016, 0x00)
	if got := b.Read(0x4016) & 0x01; got != 1 {
		t.Fatalf("controller read = %d, want 1 (A pressed)", got)
	}
}

func TestOAMDMACopiesPageIntoPPU(t *testing.T) {
	b, err := New(nromImage(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.Write(0x2003, 0x00) // OAMADDR = 0
	b.Write(0x0200, 0x11) // sprite 0's Y byte, copied by DMA from page 2
	b.Write(0x4014, 0x02) // DMA from $0200

	// 256 auto-incrementing writes wrap OAMADDR back to 0, so the next
	// OAMDATA read reports the byte DMA wrote to slot 0.
	if got := b.Read(0x2004); got != 0x11 {
		t.Fatalf("oam[0] = %#02x, want $11 after OAM DMA", got)
	}
}
