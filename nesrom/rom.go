package nesrom

import (
	"errors"
	"fmt"
)

const (
	headerSize  = 16
	trainerSize = 512
	prgUnit     = 16 * 1024
	chrUnit     = 8 * 1024
)

var (
	// ErrInvalidHeader is returned when the file does not begin with the
	// iNES magic constant "NES\x1A".
	ErrInvalidHeader = errors.New("nesrom: invalid iNES header")
	// ErrTruncated is returned when the file is shorter than its header
	// declares it to be.
	ErrTruncated = errors.New("nesrom: truncated ROM image")
)

// ROM holds the parsed contents of an iNES ROM image: its header, PRG-ROM,
// CHR-ROM (or freshly allocated CHR-RAM), and optional trainer payload.
type ROM struct {
	h       *header
	trainer []byte
	prg     []byte
	chr     []byte
	chrRAM  bool
}

// New parses data as an iNES ROM image.
func New(data []byte) (*ROM, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	h := parseHeader(data[:headerSize])
	if !h.isINesFormat() {
		return nil, ErrInvalidHeader
	}

	off := headerSize
	r := &ROM{h: h}

	if h.hasTrainer() {
		if len(data) < off+trainerSize {
			return nil, ErrTruncated
		}
		r.trainer = append([]byte(nil), data[off:off+trainerSize]...)
		off += trainerSize
	}

	prgLen := int(h.prgSize) * prgUnit
	if len(data) < off+prgLen {
		return nil, ErrTruncated
	}
	r.prg = append([]byte(nil), data[off:off+prgLen]...)
	off += prgLen

	if h.hasChrRAM() {
		r.chr = make([]byte, chrUnit)
		r.chrRAM = true
	} else {
		chrLen := int(h.chrSize) * chrUnit
		if len(data) < off+chrLen {
			return nil, ErrTruncated
		}
		r.chr = append([]byte(nil), data[off:off+chrLen]...)
		off += chrLen
	}

	return r, nil
}

// MapperNum returns the iNES mapper number declared by the header.
func (r *ROM) MapperNum() uint16 {
	return r.h.mapperNum()
}

// MirroringMode returns the startup nametable mirroring mode declared by
// the header. Some mappers (e.g. MMC1) override this at runtime.
func (r *ROM) MirroringMode() uint8 {
	return r.h.mirroringMode()
}

// HasBattery reports whether the cartridge has battery-backed PRG-RAM.
func (r *ROM) HasBattery() bool {
	return r.h.hasBattery()
}

// ChrIsRAM reports whether the cartridge has no CHR-ROM, and is instead
// backed by writable CHR-RAM.
func (r *ROM) ChrIsRAM() bool {
	return r.chrRAM
}

// PRG returns the raw PRG-ROM bytes.
func (r *ROM) PRG() []byte {
	return r.prg
}

// CHR returns the raw CHR-ROM (or CHR-RAM) bytes.
func (r *ROM) CHR() []byte {
	return r.chr
}

// PRGBanks16k returns the number of 16 KiB PRG-ROM banks.
func (r *ROM) PRGBanks16k() int {
	return len(r.prg) / prgUnit
}

// CHRBanks8k returns the number of 8 KiB CHR banks.
func (r *ROM) CHRBanks8k() int {
	return len(r.chr) / chrUnit
}

func (r *ROM) String() string {
	return fmt.Sprintf("nesrom: mapper %d, prg %d KiB, chr %d KiB (ram=%v), mirroring %d",
		r.MapperNum(), len(r.prg)/1024, len(r.chr)/1024, r.chrRAM, r.MirroringMode())
}
