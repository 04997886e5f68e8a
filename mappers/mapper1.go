package mappers

import "github.com/hollowtrace/gintendo/nesrom"

func init() {
	register(1, newMMC1)
}

// MMC1 control register bits.
const (
	mmc1CtrlMirrorMask  = 0x03
	mmc1MirrorSingleLo  = 0x00
	mmc1MirrorSingleHi  = 0x01
	mmc1MirrorVertical  = 0x02
	mmc1MirrorHorizonal = 0x03

	mmc1CtrlPrgModeMask = 0x0C
	mmc1PrgMode32k      = 0x00
	mmc1PrgModeFixLo    = 0x08
	mmc1PrgModeFixHi    = 0x0C

	mmc1CtrlChrModeMask = 0x10
	mmc1ChrMode8k       = 0x00
	mmc1ChrMode4k       = 0x10

	mmc1ShiftReset   = 0x10
	mmc1WriteCountN  = 5
	mmc1PrgRAMOffOff = 0x10
)

// mmc1 implements Mapper 1: a serial, write-once-per-cycle shift
// register loads one of four internal registers (control, CHR bank 0,
// CHR bank 1, PRG bank) every fifth consecutive write to $8000-$FFFF.
// Writing with bit 7 set resets the shift register and forces PRG mode
// to fix-last-bank, independent of the write count.
type mmc1 struct {
	prg []byte
	chr []byte

	chrIsRAM bool
	prgRAM   [0x2000]byte

	shift      uint8
	writeCount uint8

	control  uint8
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgRAMEnabled bool
	fourScreen    bool
	mirror        uint8

	numPrgBanks16k int
	numChrBanks4k  int
}

func newMMC1(rom *nesrom.ROM) Mapper {
	m := &mmc1{
		prg:            rom.PRG(),
		chr:            rom.CHR(),
		chrIsRAM:       rom.ChrIsRAM(),
		shift:          mmc1ShiftReset,
		control:        mmc1PrgModeFixHi,
		fourScreen:     rom.MirroringMode() == nesrom.MIRROR_FOUR_SCREEN,
		numPrgBanks16k: rom.PRGBanks16k(),
	}
	if m.chrIsRAM {
		m.numChrBanks4k = len(m.chr) / 4096
		if m.numChrBanks4k == 0 {
			m.numChrBanks4k = 2
		}
	} else {
		m.numChrBanks4k = rom.CHRBanks8k() * 2
	}
	m.updateMirroring()
	return m
}

func (m *mmc1) PrgRead(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		if m.prgRAMEnabled {
			return m.prgRAM[addr-0x6000]
		}
		return 0
	}
	if addr < 0x8000 {
		return 0
	}
	lo, hi := m.prgBankOffsets()
	if addr < 0xC000 {
		return m.prg[lo+int(addr-0x8000)]
	}
	return m.prg[hi+int(addr-0xC000)]
}

func (m *mmc1) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		if m.prgRAMEnabled {
			m.prgRAM[addr-0x6000] = val
		}
		return
	}
	if addr < 0x8000 {
		return
	}

	if val&0x80 != 0 {
		m.shift = mmc1ShiftReset
		m.writeCount = 0
		m.control = (m.control &^ mmc1CtrlPrgModeMask) | mmc1PrgModeFixHi
		m.updateMirroring()
		return
	}

	m.shift = (m.shift >> 1) | ((val & 0x01) << 4)
	m.writeCount++
	if m.writeCount < mmc1WriteCountN {
		return
	}

	data := m.shift & 0x1F
	switch addr & 0xE000 {
	case 0x8000:
		m.control = data
		m.updateMirroring()
	case 0xA000:
		m.chrBank0 = data
	case 0xC000:
		m.chrBank1 = data
	case 0xE000:
		m.prgBank = data & 0x0F
		m.prgRAMEnabled = data&mmc1PrgRAMOffOff == 0
	}
	m.shift = mmc1ShiftReset
	m.writeCount = 0
}

// prgBankOffsets returns the byte offsets of the two 16 KiB PRG windows
// currently mapped at $8000-$BFFF and $C000-$FFFF.
func (m *mmc1) prgBankOffsets() (lo, hi int) {
	const bankSize = 16 * 1024
	mask := 0
	if m.numPrgBanks16k > 0 {
		mask = m.numPrgBanks16k - 1
	}
	bank := int(m.prgBank) & mask

	switch m.control & mmc1CtrlPrgModeMask {
	case mmc1PrgMode32k:
		base := (bank &^ 1) * bankSize
		return base, base + bankSize
	case mmc1PrgModeFixLo:
		return 0, bank * bankSize
	default: // mmc1PrgModeFixHi
		last := 0
		if m.numPrgBanks16k > 0 {
			last = m.numPrgBanks16k - 1
		}
		return bank * bankSize, last * bankSize
	}
}

// chrBankOffsets returns the byte offsets of the two 4 KiB CHR windows
// currently mapped at $0000-$0FFF and $1000-$1FFF.
func (m *mmc1) chrBankOffsets() (lo, hi int) {
	mask := 0
	if m.numChrBanks4k > 0 {
		mask = m.numChrBanks4k - 1
	}
	if m.control&mmc1CtrlChrModeMask == mmc1ChrMode4k {
		b0 := int(m.chrBank0) & mask
		b1 := int(m.chrBank1) & mask
		return b0 * 4096, b1 * 4096
	}
	base := (int(m.chrBank0) &^ 1 & mask) * 4096
	return base, base + 4096
}

func (m *mmc1) ChrRead(addr uint16) uint8 {
	lo, hi := m.chrBankOffsets()
	if addr < 0x1000 {
		return m.chr[lo+int(addr)]
	}
	return m.chr[hi+int(addr-0x1000)]
}

func (m *mmc1) ChrWrite(addr uint16, val uint8) {
	if !m.chrIsRAM {
		return
	}
	lo, hi := m.chrBankOffsets()
	if addr < 0x1000 {
		m.chr[lo+int(addr)] = val
	} else {
		m.chr[hi+int(addr-0x1000)] = val
	}
}

func (m *mmc1) updateMirroring() {
	if m.fourScreen {
		m.mirror = nesrom.MIRROR_FOUR_SCREEN
		return
	}
	switch m.control & mmc1CtrlMirrorMask {
	case mmc1MirrorSingleLo:
		m.mirror = nesrom.MIRROR_ONE_SCREEN_LO
	case mmc1MirrorSingleHi:
		m.mirror = nesrom.MIRROR_ONE_SCREEN_HI
	case mmc1MirrorVertical:
		m.mirror = nesrom.MIRROR_VERTICAL
	case mmc1MirrorHorizonal:
		m.mirror = nesrom.MIRROR_HORIZONTAL
	}
}

func (m *mmc1) MirroringMode() uint8 {
	return m.mirror
}
