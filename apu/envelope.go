package apu

// envelope implements the pulse/noise volume envelope generator: a
// divider clocked once per quarter-frame that either holds a constant
// volume or decays a 4-bit level from 15 to 0, optionally looping.
type envelope struct {
	start      bool
	loop       bool
	constant   bool
	volume     uint8 // constant volume, or divider period when decaying
	divider    uint8
	decayLevel uint8
}

func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decayLevel = 15
		e.divider = e.volume
		return
	}
	if e.divider > 0 {
		e.divider--
		return
	}
	e.divider = e.volume
	if e.decayLevel > 0 {
		e.decayLevel--
	} else if e.loop {
		e.decayLevel = 15
	}
}

// output returns the current 4-bit amplitude.
func (e *envelope) output() uint8 {
	if e.constant {
		return e.volume
	}
	return e.decayLevel
}
