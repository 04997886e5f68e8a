package ppu

import (
	"testing"

	"github.com/hollowtrace/gintendo/nesrom"
)

// testBus is a minimal ppu.Bus backed by a flat CHR array, used to
// drive the PPU in isolation.
type testBus struct {
	chr    [0x2000]uint8
	mirror uint8
	nmis   int
}

func (b *testBus) ChrRead(addr uint16) uint8       { return b.chr[addr] }
func (b *testBus) ChrWrite(addr uint16, val uint8) { b.chr[addr] = val }
func (b *testBus) MirrorMode() uint8               { return b.mirror }
func (b *testBus) TriggerNMI()                     { b.nmis++ }

func newTestPPU() (*PPU, *testBus) {
	b := &testBus{mirror: nesrom.MIRROR_HORIZONTAL}
	return New(b), b
}

func TestStatusReadClearsVBlankAndWriteToggle(t *testing.T) {
	p, _ := newTestPPU()
	p.status |= statusVBlank
	p.w = true

	v := p.ReadReg(PPUSTATUS)
	if v&statusVBlank == 0 {
		t.Fatalf("status read should report vblank was set before clearing it")
	}
	if p.status&statusVBlank != 0 {
		t.Error("vblank flag not cleared by status read")
	}
	if p.w {
		t.Error("write toggle not cleared by status read")
	}
}

func TestAddrAndDataRoundTrip(t *testing.T) {
	p, b := newTestPPU()
	b.chr[0x0010] = 0x99

	p.WriteReg(PPUADDR, 0x00)
	p.WriteReg(PPUADDR, 0x10)
	if p.v.data != 0x0010 {
		t.Fatalf("v = %#04x, want $0010", p.v.data)
	}

	// First PPUDATA read returns the stale buffered value; the second
	// returns the byte actually at $0010.
	p.ReadReg(PPUDATA)
	got := p.ReadReg(PPUDATA)
	if got != 0x99 {
		t.Fatalf("PPUDATA read = %#02x, want $99", got)
	}
}

func TestScrollLatchesCoarseAndFineXY(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteReg(PPUSCROLL, 0x7D) // coarse X=15, fine X=5
	p.WriteReg(PPUSCROLL, 0x5E) // coarse Y=11, fine Y=6

	if p.x != 5 {
		t.Errorf("fine x = %d, want 5", p.x)
	}
	if p.t.coarseX() != 15 {
		t.Errorf("t coarse x = %d, want 15", p.t.coarseX())
	}
	if p.t.coarseY() != 11 {
		t.Errorf("t coarse y = %d, want 11", p.t.coarseY())
	}
	if p.t.fineY() != 6 {
		t.Errorf("t fine y = %d, want 6", p.t.fineY())
	}
}

func TestNametableMirroringHorizontal(t *testing.T) {
	p, _ := newTestPPU()
	page, off := p.nametableIndex(0x2000)
	if page != 0 || off != 0 {
		t.Errorf("$2000 -> page %d off %#x, want page 0", page, off)
	}
	page, _ = p.nametableIndex(0x2400)
	if page != 0 {
		t.Errorf("$2400 -> page %d, want page 0 (horizontal mirror)", page)
	}
	page, _ = p.nametableIndex(0x2800)
	if page != 1 {
		t.Errorf("$2800 -> page %d, want page 1 (horizontal mirror)", page)
	}
}

func TestVBlankSetsStatusAndFiresNMI(t *testing.T) {
	p, b := newTestPPU()
	p.ctrl |= ctrlNMIEnable
	p.scanline = 241
	p.cycle = 1

	p.Tick()

	if p.status&statusVBlank == 0 {
		t.Error("vblank flag not set at scanline 241 cycle 1")
	}
	if b.nmis != 1 {
		t.Errorf("nmis = %d, want 1", b.nmis)
	}
}

func TestOddFrameSkipsIdleCycle(t *testing.T) {
	p, _ := newTestPPU()
	p.mask = maskShowBg
	p.oddFrame = true
	p.scanline = -1
	p.cycle = 339

	p.Tick()
	if p.cycle != 0 || p.scanline != 0 {
		t.Fatalf("scanline=%d cycle=%d, want scanline=0 cycle=0 after odd-frame skip", p.scanline, p.cycle)
	}
}

func TestPaletteMirrorsUniversalBackdropEntries(t *testing.T) {
	p, _ := newTestPPU()
	p.writePalette(0x3F00, 0x20)
	if got := p.readPalette(0x3F10); got != 0x20 {
		t.Errorf("$3F10 = %#02x, want $20 (mirrors $3F00)", got)
	}
}

func TestReverseBitsFlipsSpritePattern(t *testing.T) {
	if got := reverseBits(0b10000001); got != 0b10000001 {
		t.Errorf("reverseBits(0x81) = %08b, want %08b", got, 0b10000001)
	}
	if got := reverseBits(0b11110000); got != 0b00001111 {
		t.Errorf("reverseBits(0xF0) = %08b, want %08b", got, 0b00001111)
	}
}
