package ppu

// loopy stores one of the two "loopy" scroll registers (v, the current
// VRAM address, and t, the temporary address latched by $2005/$2006)
// plus the helpers to decompose and update them:
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
// https://www.nesdev.org/wiki/PPU_scrolling
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 {
	return l.data & 0x001F
}

func (l *loopy) setCoarseX(n uint16) {
	l.data = (l.data & 0xFFE0) | (n & 0x001F)
}

// incrementCoarseX implements the horizontal component of the
// background address increment used once per fetched tile. Coarse X
// wraps from 31 back to 0 and flips the horizontal nametable bit rather
// than carrying into coarse Y.
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.setCoarseX(0)
		l.toggleNametableX()
	} else {
		l.data++
	}
}

func (l *loopy) coarseY() uint16 {
	return (l.data & 0x03E0) >> 5
}

func (l *loopy) setCoarseY(n uint16) {
	l.data = (l.data & 0xFC1F) | ((n & 0x001F) << 5)
}

// incrementFineY implements the vertical component of the PPU's
// per-scanline address increment: fine Y counts 0-7 across the eight
// rows of a tile; on overflow, coarse Y advances, wrapping at the
// nametable boundary (29, flipping the vertical nametable bit) and
// separately at the unused attribute rows (31, no flip, matching a
// documented hardware quirk when coarse Y is set out of range by software).
func (l *loopy) incrementFineY() {
	if l.fineY() < 7 {
		l.setFineY(l.fineY() + 1)
		return
	}
	l.setFineY(0)
	switch y := l.coarseY(); y {
	case 29:
		l.setCoarseY(0)
		l.toggleNametableY()
	case 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(y + 1)
	}
}

func (l *loopy) nametableX() uint16 {
	return (l.data & 0x0400) >> 10
}

func (l *loopy) toggleNametableX() {
	l.data ^= 0x0400
}

func (l *loopy) nametableY() uint16 {
	return (l.data & 0x0800) >> 11
}

func (l *loopy) toggleNametableY() {
	l.data ^= 0x0800
}

func (l *loopy) fineY() uint16 {
	return (l.data & 0x7000) >> 12
}

func (l *loopy) setFineY(n uint16) {
	l.data = (l.data & 0x0FFF) | ((n & 0x0007) << 12)
}

// transferX copies the horizontal scroll fields (coarse X and
// nametable X) from t into v. The PPU does this at the end of each
// visible/pre-render scanline's cycle 257.
func (v *loopy) transferX(t *loopy) {
	v.setCoarseX(t.coarseX())
	if t.nametableX() != v.nametableX() {
		v.toggleNametableX()
	}
}

// transferY copies every vertical field (fine Y, coarse Y, nametable Y)
// from t into v. The PPU does this once per frame, across cycles
// 280-304 of the pre-render scanline.
func (v *loopy) transferY(t *loopy) {
	v.setFineY(t.fineY())
	v.setCoarseY(t.coarseY())
	if t.nametableY() != v.nametableY() {
		v.toggleNametableY()
	}
}
