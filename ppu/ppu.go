// Package ppu implements the NES 2C02 picture processing unit: register
// file, background shift-register pipeline, sprite evaluation and the
// cycle/scanline timing that drives vblank NMI generation.
package ppu

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hollowtrace/gintendo/nesrom"
)

// CPU-visible register addresses, already stripped of the $2000-$3FFF
// mirroring performed by the bus.
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
)

// PPUCTRL bits.
const (
	ctrlNametableMask   = 0x03
	ctrlIncrement       = 0x04
	ctrlSpritePattern   = 0x08
	ctrlBgPattern       = 0x10
	ctrlSpriteSize      = 0x20
	ctrlMasterSlave     = 0x40
	ctrlNMIEnable       = 0x80
)

// PPUMASK bits.
const (
	maskGreyscale      = 0x01
	maskShowBgLeft     = 0x02
	maskShowSpriteLeft = 0x04
	maskShowBg         = 0x08
	maskShowSprites    = 0x10
)

// PPUSTATUS bits.
const (
	statusSpriteOverflow = 0x20
	statusSprite0Hit     = 0x40
	statusVBlank         = 0x80
)

const (
	screenWidth  = 256
	screenHeight = 240
	cyclesPerLine = 341
	linesPerFrame = 262
)

// Bus is the console-side surface the PPU needs: pattern-table access
// through the cartridge mapper, the active nametable mirroring mode and
// a way to assert the CPU's NMI line at the start of vblank.
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	MirrorMode() uint8
	TriggerNMI()
}

// spriteUnit is the per-sprite state latched during evaluation for the
// scanline about to be drawn.
type spriteUnit struct {
	x        uint8
	tileLo   uint8
	tileHi   uint8
	attrs    uint8
	isSprite0 bool
}

// PPU models the 2C02's register file, VRAM/OAM storage and the
// cycle-accurate scanline/dot counters that drive rendering and NMI
// generation.
type PPU struct {
	bus Bus

	ctrl, mask, status, oamAddr uint8
	oam                         [256]uint8

	v, t loopy
	x    uint8 // fine X scroll, 3 bits
	w    bool  // write-toggle latch shared by $2005/$2006

	dataBuffer uint8 // PPUDATA read-ahead buffer

	nametables [2][0x400]uint8
	palettes   [32]uint8

	scanline int // -1 (pre-render) .. 260
	cycle    int // 0..340
	frame    uint64
	oddFrame bool

	// background pipeline: two tile's worth of pattern/attribute bits
	// shifted out one pixel at a time.
	bgTileID, bgTileAttr           uint8
	bgTileLo, bgTileHi             uint8
	bgShiftPatternLo, bgShiftPatternHi uint16
	bgShiftAttrLo, bgShiftAttrHi       uint16

	// sprite pipeline for the scanline currently being drawn.
	sprites       []spriteUnit
	spriteCount   int
	sprite0OnLine bool

	framebuffer *image.RGBA

	nmiSuppressed bool
}

// New constructs a PPU wired to bus for pattern-table and mirroring
// access and NMI delivery.
func New(bus Bus) *PPU {
	p := &PPU{
		bus:         bus,
		scanline:    -1,
		framebuffer: image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight)),
	}
	return p
}

// GetResolution reports the fixed NES picture size.
func (p *PPU) GetResolution() (int, int) {
	return screenWidth, screenHeight
}

// GetPixels returns the most recently completed frame.
func (p *PPU) GetPixels() image.Image {
	return p.framebuffer
}

// Framebuffer returns the most recently completed frame as flat
// interleaved RGB bytes (no alpha channel), the format host code that
// isn't using ebiten's image.Image would want.
func (p *PPU) Framebuffer() *[screenWidth * screenHeight * 3]byte {
	var out [screenWidth * screenHeight * 3]byte
	i := 0
	for y := 0; y < screenHeight; y++ {
		row := y * p.framebuffer.Stride
		for x := 0; x < screenWidth; x++ {
			o := row + x*4
			out[i] = p.framebuffer.Pix[o]
			out[i+1] = p.framebuffer.Pix[o+1]
			out[i+2] = p.framebuffer.Pix[o+2]
			i += 3
		}
	}
	return &out
}

// Reset returns the PPU to its power-on register state. VRAM/OAM
// contents are left untouched, matching real hardware.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.v, p.t = loopy{}, loopy{}
	p.x, p.w = 0, false
	p.dataBuffer = 0
	p.scanline, p.cycle = -1, 0
	p.oddFrame = false
}

func (p *PPU) String() string {
	return fmt.Sprintf("PPU: scanline=%d cycle=%d frame=%d ctrl=%#02x mask=%#02x status=%#02x v=%#04x t=%#04x",
		p.scanline, p.cycle, p.frame, p.ctrl, p.mask, p.status, p.v.data, p.t.data)
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBg|maskShowSprites) != 0
}

// ReadReg implements the CPU-visible register reads on $2000-$2007.
func (p *PPU) ReadReg(addr uint16) uint8 {
	switch addr {
	case PPUSTATUS:
		v := (p.status & 0xE0) | (p.dataBuffer & 0x1F)
		p.status &^= statusVBlank
		p.w = false
		return v
	case OAMDATA:
		return p.oam[p.oamAddr]
	case PPUDATA:
		v := p.dataBuffer
		if p.v.data >= 0x3F00 {
			// Palette reads are not buffered; the buffer is
			// refilled from the underlying nametable mirror.
			v = p.readVRAM(p.v.data)
			p.dataBuffer = p.readVRAM(p.v.data - 0x1000)
		} else {
			p.dataBuffer = p.readVRAM(p.v.data)
		}
		p.v.data += p.addrIncrement()
		return v
	default:
		return 0
	}
}

// WriteReg implements the CPU-visible register writes on $2000-$2007,
// plus OAMDATA, which is also reachable from OAM DMA.
func (p *PPU) WriteReg(addr uint16, val uint8) {
	switch addr {
	case PPUCTRL:
		prevNMI := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = val
		p.t.data = (p.t.data & 0xF3FF) | (uint16(val&ctrlNametableMask) << 10)
		if !prevNMI && p.ctrl&ctrlNMIEnable != 0 && p.status&statusVBlank != 0 {
			p.bus.TriggerNMI()
		}
	case PPUMASK:
		p.mask = val
	case OAMADDR:
		p.oamAddr = val
	case OAMDATA:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case PPUSCROLL:
		if !p.w {
			p.x = val & 0x07
			p.t.setCoarseX(uint16(val) >> 3)
		} else {
			p.t.setFineY(uint16(val) & 0x07)
			p.t.setCoarseY(uint16(val) >> 3)
		}
		p.w = !p.w
	case PPUADDR:
		if !p.w {
			p.t.data = (p.t.data & 0x00FF) | (uint16(val&0x3F) << 8)
		} else {
			p.t.data = (p.t.data & 0xFF00) | uint16(val)
			p.v = p.t
		}
		p.w = !p.w
	case PPUDATA:
		p.writeVRAM(p.v.data, val)
		p.v.data += p.addrIncrement()
	}
}

func (p *PPU) addrIncrement() uint16 {
	if p.ctrl&ctrlIncrement != 0 {
		return 32
	}
	return 1
}

// nametableIndex maps a $2000-$2FFF address onto one of the two
// physical 1 KiB nametable RAM pages, honoring the cartridge's
// mirroring arrangement.
func (p *PPU) nametableIndex(addr uint16) (page int, offset uint16) {
	addr &= 0x0FFF
	table := addr / 0x0400
	offset = addr % 0x0400

	switch p.bus.MirrorMode() {
	case nesrom.MIRROR_VERTICAL:
		return int(table % 2), offset
	case nesrom.MIRROR_HORIZONTAL:
		return int(table / 2), offset
	case nesrom.MIRROR_ONE_SCREEN_LO:
		return 0, offset
	case nesrom.MIRROR_ONE_SCREEN_HI:
		return 1, offset
	default: // four-screen: fold onto the two pages we have
		return int(table % 2), offset
	}
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.bus.ChrRead(addr)
	case addr < 0x3F00:
		page, off := p.nametableIndex(addr)
		return p.nametables[page][off]
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) writeVRAM(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.bus.ChrWrite(addr, val)
	case addr < 0x3F00:
		page, off := p.nametableIndex(addr)
		p.nametables[page][off] = val
	default:
		p.writePalette(addr, val)
	}
}

// palette indices mirror $3F10/$3F14/$3F18/$3F1C onto their
// corresponding background entries.
func paletteAddr(addr uint16) uint16 {
	a := addr & 0x1F
	if a >= 0x10 && a%4 == 0 {
		a -= 0x10
	}
	return a
}

func (p *PPU) readPalette(addr uint16) uint8 {
	v := p.palettes[paletteAddr(addr)]
	if p.mask&maskGreyscale != 0 {
		v &= 0x30
	}
	return v
}

func (p *PPU) writePalette(addr uint16, val uint8) {
	p.palettes[paletteAddr(addr)] = val & 0x3F
}

// Tick advances the PPU by one pixel clock (three times the CPU clock)
// and reports whether it just completed a frame.
func (p *PPU) Tick() bool {
	frameDone := false

	if p.scanline == -1 && p.cycle == 1 {
		p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
	}

	visibleOrPrerender := p.scanline >= -1 && p.scanline < 240
	if visibleOrPrerender {
		p.doBackgroundCycle()
	}
	if p.scanline >= 0 && p.scanline < 240 {
		p.doSpriteCycle()
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.bus.TriggerNMI()
		}
	}

	p.cycle++
	if p.scanline == -1 && p.cycle == 340 && p.oddFrame && p.renderingEnabled() {
		// Odd frames skip the idle cycle of the pre-render line.
		p.cycle++
	}
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frame++
			p.oddFrame = !p.oddFrame
			frameDone = true
		}
	}

	return frameDone
}

func (p *PPU) doBackgroundCycle() {
	if !p.renderingEnabled() {
		return
	}

	if (p.cycle >= 2 && p.cycle <= 257) || (p.cycle >= 321 && p.cycle <= 337) {
		p.shiftBackgroundRegisters()

		switch (p.cycle - 1) % 8 {
		case 0:
			p.loadBackgroundShifters()
			p.bgTileID = p.readVRAM(0x2000 | (p.v.data & 0x0FFF))
		case 2:
			attrAddr := 0x23C0 | (p.v.data & 0x0C00) | ((p.v.coarseY() >> 2) << 3) | (p.v.coarseX() >> 2)
			p.bgTileAttr = p.readVRAM(attrAddr)
			if p.v.coarseY()&0x02 != 0 {
				p.bgTileAttr >>= 4
			}
			if p.v.coarseX()&0x02 != 0 {
				p.bgTileAttr >>= 2
			}
			p.bgTileAttr &= 0x03
		case 4:
			base := uint16(0)
			if p.ctrl&ctrlBgPattern != 0 {
				base = 0x1000
			}
			p.bgTileLo = p.readVRAM(base + uint16(p.bgTileID)*16 + p.v.fineY())
		case 6:
			base := uint16(0)
			if p.ctrl&ctrlBgPattern != 0 {
				base = 0x1000
			}
			p.bgTileHi = p.readVRAM(base + uint16(p.bgTileID)*16 + p.v.fineY() + 8)
		case 7:
			p.v.incrementCoarseX()
		}
	}

	if p.cycle == 256 {
		p.v.incrementFineY()
	}
	if p.cycle == 257 {
		p.loadBackgroundShifters()
		p.v.transferX(&p.t)
	}
	if p.scanline == -1 && p.cycle >= 280 && p.cycle <= 304 {
		p.v.transferY(&p.t)
	}

	if p.cycle >= 1 && p.cycle <= 256 && p.scanline >= 0 && p.scanline < 240 {
		p.renderPixel()
	}
}

func (p *PPU) loadBackgroundShifters() {
	p.bgShiftPatternLo = (p.bgShiftPatternLo & 0xFF00) | uint16(p.bgTileLo)
	p.bgShiftPatternHi = (p.bgShiftPatternHi & 0xFF00) | uint16(p.bgTileHi)

	lo, hi := uint16(0), uint16(0)
	if p.bgTileAttr&0x01 != 0 {
		lo = 0x00FF
	}
	if p.bgTileAttr&0x02 != 0 {
		hi = 0x00FF
	}
	p.bgShiftAttrLo = (p.bgShiftAttrLo & 0xFF00) | lo
	p.bgShiftAttrHi = (p.bgShiftAttrHi & 0xFF00) | hi
}

func (p *PPU) shiftBackgroundRegisters() {
	p.bgShiftPatternLo <<= 1
	p.bgShiftPatternHi <<= 1
	p.bgShiftAttrLo <<= 1
	p.bgShiftAttrHi <<= 1
}

func (p *PPU) renderPixel() {
	x := p.cycle - 1
	y := p.scanline

	bgPixel, bgPalette := uint8(0), uint8(0)
	if p.mask&maskShowBg != 0 && (x >= 8 || p.mask&maskShowBgLeft != 0) {
		mux := uint16(0x8000) >> p.x
		p0 := uint8(0)
		if p.bgShiftPatternLo&mux != 0 {
			p0 = 1
		}
		p1 := uint8(0)
		if p.bgShiftPatternHi&mux != 0 {
			p1 = 1
		}
		bgPixel = (p1 << 1) | p0

		a0 := uint8(0)
		if p.bgShiftAttrLo&mux != 0 {
			a0 = 1
		}
		a1 := uint8(0)
		if p.bgShiftAttrHi&mux != 0 {
			a1 = 1
		}
		bgPalette = (a1 << 1) | a0
	}

	spPixel, spPalette, spPriority, spIsZero := p.spritePixel(x)
	if p.mask&maskShowSprites == 0 || (x < 8 && p.mask&maskShowSpriteLeft == 0) {
		spPixel = 0
	}

	var finalPixel, finalPalette uint8
	background := true
	switch {
	case bgPixel == 0 && spPixel == 0:
		finalPixel, finalPalette = 0, 0
	case bgPixel == 0 && spPixel != 0:
		finalPixel, finalPalette, background = spPixel, spPalette, false
	case bgPixel != 0 && spPixel == 0:
		finalPixel, finalPalette, background = bgPixel, bgPalette, true
	default:
		if spIsZero && x != 255 {
			p.status |= statusSprite0Hit
		}
		if spPriority == FRONT {
			finalPixel, finalPalette, background = spPixel, spPalette, false
		} else {
			finalPixel, finalPalette, background = bgPixel, bgPalette, true
		}
	}

	var addr uint16
	switch {
	case finalPixel == 0:
		addr = 0x3F00
	case background:
		addr = 0x3F00 + uint16(finalPalette)*4 + uint16(finalPixel)
	default:
		addr = 0x3F10 + uint16(finalPalette)*4 + uint16(finalPixel)
	}
	c := palette[p.readPalette(addr)&0x3F]
	p.framebuffer.Set(x, y, color.RGBA(c))
}

// spritePixel returns the sprite pipeline's contribution at column x of
// the scanline currently latched in p.sprites, along with its palette,
// priority and whether it came from OAM slot 0.
func (p *PPU) spritePixel(x int) (pixel, pal uint8, pr priority, isZero bool) {
	for _, s := range p.sprites {
		offset := x - int(s.x)
		if offset < 0 || offset > 7 {
			continue
		}
		bit := uint(7 - offset)
		lo := (s.tileLo >> bit) & 1
		hi := (s.tileHi >> bit) & 1
		px := (hi << 1) | lo
		if px == 0 {
			continue
		}
		return px, s.attrs & 0x03, priority((s.attrs & 0x20) >> 5), s.isSprite0
	}
	return 0, 0, FRONT, false
}

// doSpriteCycle performs sprite evaluation for the NEXT scanline at
// cycle 257 of the current one, matching the real PPU's evaluate-ahead
// timing closely enough to deliver correct sprite-0 hit and overflow
// behavior without modeling every individual OAM-scan cycle.
func (p *PPU) doSpriteCycle() {
	if p.cycle != 257 || !p.renderingEnabled() {
		return
	}

	spriteHeight := 8
	if p.ctrl&ctrlSpriteSize != 0 {
		spriteHeight = 16
	}

	var found []spriteUnit
	overflow := false
	for i := 0; i < 64; i++ {
		base := i * 4
		spriteY := int(p.oam[base])
		row := p.scanline - spriteY
		if row < 0 || row >= spriteHeight {
			continue
		}
		if len(found) == 8 {
			overflow = true
			break
		}

		tile := p.oam[base+1]
		attrs := p.oam[base+2]
		x := p.oam[base+3]
		flipV := attrs&0x80 != 0
		flipH := attrs&0x40 != 0

		if flipV {
			row = spriteHeight - 1 - row
		}

		var patternBase uint16
		var tileIndex uint16
		if spriteHeight == 16 {
			patternBase = uint16(tile&0x01) * 0x1000
			tileIndex = uint16(tile &^ 0x01)
			if row >= 8 {
				tileIndex++
				row -= 8
			}
		} else {
			if p.ctrl&ctrlSpritePattern != 0 {
				patternBase = 0x1000
			}
			tileIndex = uint16(tile)
		}

		lo := p.readVRAM(patternBase + tileIndex*16 + uint16(row))
		hi := p.readVRAM(patternBase + tileIndex*16 + uint16(row) + 8)
		if flipH {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		found = append(found, spriteUnit{
			x:         x,
			tileLo:    lo,
			tileHi:    hi,
			attrs:     attrs,
			isSprite0: i == 0,
		})
	}

	if overflow {
		p.status |= statusSpriteOverflow
	}
	p.sprites = found
	p.spriteCount = len(found)
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}
