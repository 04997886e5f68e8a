package ppu

import "testing"

func TestCoarseXWrapsAndTogglesNametable(t *testing.T) {
	var l loopy
	l.setCoarseX(31)
	l.incrementCoarseX()
	if l.coarseX() != 0 {
		t.Errorf("coarse x = %d, want 0 after wrap", l.coarseX())
	}
	if l.nametableX() != 1 {
		t.Errorf("nametable x = %d, want 1 after wrap toggled it", l.nametableX())
	}
}

func TestCoarseXIncrementsWithoutWrap(t *testing.T) {
	var l loopy
	l.setCoarseX(5)
	l.incrementCoarseX()
	if l.coarseX() != 6 {
		t.Errorf("coarse x = %d, want 6", l.coarseX())
	}
	if l.nametableX() != 0 {
		t.Error("nametable x should not toggle without a wrap")
	}
}

func TestFineYWrapsIntoCoarseY(t *testing.T) {
	var l loopy
	l.setFineY(7)
	l.setCoarseY(5)
	l.incrementFineY()
	if l.fineY() != 0 {
		t.Errorf("fine y = %d, want 0", l.fineY())
	}
	if l.coarseY() != 6 {
		t.Errorf("coarse y = %d, want 6", l.coarseY())
	}
}

func TestCoarseYWrapsAt29AndTogglesNametable(t *testing.T) {
	var l loopy
	l.setFineY(7)
	l.setCoarseY(29)
	l.incrementFineY()
	if l.coarseY() != 0 {
		t.Errorf("coarse y = %d, want 0 after the nametable-boundary wrap", l.coarseY())
	}
	if l.nametableY() != 1 {
		t.Error("nametable y should toggle when coarse y wraps at 29")
	}
}

func TestCoarseYWrapsAt31WithoutTogglingNametable(t *testing.T) {
	var l loopy
	l.setFineY(7)
	l.setCoarseY(31)
	l.incrementFineY()
	if l.coarseY() != 0 {
		t.Errorf("coarse y = %d, want 0", l.coarseY())
	}
	if l.nametableY() != 0 {
		t.Error("nametable y should not toggle on the out-of-range 31 wrap")
	}
}

func TestTransferXCopiesCoarseXAndNametableX(t *testing.T) {
	var v, tmp loopy
	tmp.setCoarseX(17)
	tmp.toggleNametableX()
	v.transferX(&tmp)
	if v.coarseX() != 17 || v.nametableX() != 1 {
		t.Fatalf("v coarseX=%d nametableX=%d, want 17/1", v.coarseX(), v.nametableX())
	}
}

func TestTransferYCopiesFineCoarseAndNametableY(t *testing.T) {
	var v, tmp loopy
	tmp.setFineY(3)
	tmp.setCoarseY(20)
	tmp.toggleNametableY()
	v.transferY(&tmp)
	if v.fineY() != 3 || v.coarseY() != 20 || v.nametableY() != 1 {
		t.Fatalf("v fineY=%d coarseY=%d nametableY=%d, want 3/20/1", v.fineY(), v.coarseY(), v.nametableY())
	}
}
