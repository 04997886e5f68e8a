package input

import "testing"

func TestReadSequenceOrderAAndOpenBusFill(t *testing.T) {
	var c Controller
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)

	c.Write(0x01) // strobe high: continuously reload
	c.Write(0x00) // strobe low: freeze the shift register

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0} // A, B, Select, Start, Up, Down, Left, Right
	for i, w := range want {
		if got := c.Read() & 0x01; got != w {
			t.Fatalf("bit %d = %d, want %d", i, got, w)
		}
	}

	// Past the eighth read, open-bus fill keeps returning 1.
	if got := c.Read() & 0x01; got != 1 {
		t.Errorf("ninth read = %d, want 1 (open-bus fill)", got)
	}
}

func TestStrobeHighAlwaysReturnsLiveAButton(t *testing.T) {
	var c Controller
	c.Write(0x01) // hold strobe high

	c.SetButton(ButtonA, true)
	if got := c.Read() & 0x01; got != 1 {
		t.Fatalf("read while strobed = %d, want 1", got)
	}
	c.SetButton(ButtonA, false)
	if got := c.Read() & 0x01; got != 0 {
		t.Fatalf("read while strobed = %d, want 0 after release", got)
	}
}

func TestSetButtonDuringFrozenShiftDoesNotAffectCurrentRead(t *testing.T) {
	var c Controller
	c.SetButton(ButtonA, true)
	c.Write(0x01)
	c.Write(0x00) // freeze with A set

	c.SetButton(ButtonB, true) // should not retroactively appear
	if got := c.Read() & 0x01; got != 1 {
		t.Fatalf("first frozen read = %d, want 1 (A)", got)
	}
	if got := c.Read() & 0x01; got != 0 {
		t.Fatalf("second frozen read = %d, want 0 (B state latched before the SetButton call)", got)
	}
}
