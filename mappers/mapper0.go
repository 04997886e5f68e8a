package mappers

import "github.com/hollowtrace/gintendo/nesrom"

func init() {
	register(0, newNROM)
}

// nrom implements mapper 0 (NROM): fixed 16 or 32 KiB PRG-ROM with no
// banking, fixed 8 KiB CHR-ROM/RAM, and a fixed mirroring mode taken
// from the cartridge header.
type nrom struct {
	prg       []byte
	chr       []byte
	chrIsRAM  bool
	mirroring uint8
	prgRAM    [0x2000]byte // $6000-$7FFF
	mirror16k bool
}

func newNROM(rom *nesrom.ROM) Mapper {
	return &nrom{
		prg:       rom.PRG(),
		chr:       rom.CHR(),
		chrIsRAM:  rom.ChrIsRAM(),
		mirroring: rom.MirroringMode(),
		mirror16k: rom.PRGBanks16k() == 1,
	}
}

func (m *nrom) PrgRead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000:
		off := addr - 0x8000
		if m.mirror16k {
			off %= 0x4000
		}
		return m.prg[off]
	default:
		return 0
	}
}

func (m *nrom) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM[addr-0x6000] = val
	}
	// Writes to $8000-$FFFF are no-ops: NROM has no bank registers.
}

func (m *nrom) ChrRead(addr uint16) uint8 {
	return m.chr[addr&0x1FFF]
}

func (m *nrom) ChrWrite(addr uint16, val uint8) {
	if m.chrIsRAM {
		m.chr[addr&0x1FFF] = val
	}
}

func (m *nrom) MirroringMode() uint8 {
	return m.mirroring
}
