// Package apu implements the NES 2A03 audio processing unit as a
// register-file state machine: two pulse channels, a triangle channel,
// a noise channel, and the 4-step/5-step frame sequencer that clocks
// their envelope, length-counter and sweep units. Mixing a DMC channel
// worth of register storage is kept for completeness, but sample
// playback of it is not implemented (see Non-goals).
//
// The mixer/resampler that turns Sample() readings into real audio
// output is a host concern; this package never touches an audio
// device.
package apu

// Register addresses, relative to the CPU bus (no mirroring in this range).
const (
	Pulse1Base   = 0x4000
	Pulse2Base   = 0x4004
	TriangleBase = 0x4008
	NoiseBase    = 0x400C
	DMCBase      = 0x4010
	Status       = 0x4015
	FrameCounter = 0x4017
)

// lengthTable converts the 5-bit length-counter load value written to a
// channel's fourth register into the number of frame-sequencer half-frame
// clocks the channel keeps sounding.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22,
	192, 24, 72, 26, 16, 28, 32, 30,
}

// frame-sequencer step boundaries, in CPU cycles since the last reset,
// for the 4-step and 5-step sequences. NTSC timing.
var seq4Steps = [4]int{7457, 14913, 22371, 29829}
var seq5Steps = [5]int{7457, 14913, 22371, 29829, 37281}

// APU is the 2A03 register file plus its four implemented sound
// channels (DMC is register-storage only).
type APU struct {
	pulse1, pulse2 pulse
	triangle       triangle
	noise          noise
	dmc            [4]uint8 // $4010-$4013, stored but not played back

	frameCycles int
	frameStep   int
	mode5Step   bool
	irqInhibit  bool
	irqPending  bool

	// evenCycle alternates every Tick call; pulse and noise timers
	// clock on the APU clock (every other CPU cycle), the triangle
	// timer clocks every CPU cycle.
	evenCycle bool
}

// New returns an APU with all channels silenced, matching the 2A03's
// power-on state.
func New() *APU {
	a := &APU{}
	a.pulse1.channelNum = 1
	a.pulse2.channelNum = 2
	a.noise = newNoise()
	return a
}

// WriteRegister dispatches a CPU write in $4000-$4017 to the owning
// channel or to frame-sequencer/status handling.
func (a *APU) WriteRegister(addr uint16, val uint8) {
	switch {
	case addr >= Pulse1Base && addr < Pulse1Base+4:
		a.pulse1.write(addr-Pulse1Base, val)
	case addr >= Pulse2Base && addr < Pulse2Base+4:
		a.pulse2.write(addr-Pulse2Base, val)
	case addr >= TriangleBase && addr < TriangleBase+4:
		a.triangle.write(addr-TriangleBase, val)
	case addr >= NoiseBase && addr < NoiseBase+4:
		a.noise.write(addr-NoiseBase, val)
	case addr >= DMCBase && addr < DMCBase+4:
		a.dmc[addr-DMCBase] = val
	case addr == Status:
		a.pulse1.length.setEnabled(val&0x01 != 0)
		a.pulse2.length.setEnabled(val&0x02 != 0)
		a.triangle.length.setEnabled(val&0x04 != 0)
		a.noise.length.setEnabled(val&0x08 != 0)
		a.irqPending = false
	case addr == FrameCounter:
		a.mode5Step = val&0x80 != 0
		a.irqInhibit = val&0x40 != 0
		if a.irqInhibit {
			a.irqPending = false
		}
		a.frameCycles = 0
		a.frameStep = 0
		if a.mode5Step {
			a.clockQuarterFrame()
			a.clockHalfFrame()
		}
	}
}

// ReadStatus implements the $4015 status read: length-counter-active
// bits for each channel, plus the pending frame IRQ flag. Reading
// clears the frame IRQ, matching documented 2A03 behavior.
func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.pulse1.length.counter > 0 {
		v |= 0x01
	}
	if a.pulse2.length.counter > 0 {
		v |= 0x02
	}
	if a.triangle.length.counter > 0 {
		v |= 0x04
	}
	if a.noise.length.counter > 0 {
		v |= 0x08
	}
	if a.irqPending {
		v |= 0x40
	}
	a.irqPending = false
	return v
}

// IRQ reports whether the frame sequencer has a pending IRQ; the
// console bus ORs this into the CPU's IRQ line.
func (a *APU) IRQ() bool {
	return a.irqPending
}

// Tick advances the APU by one CPU cycle: channel timers, and the
// frame sequencer's quarter/half-frame clocking.
func (a *APU) Tick() {
	a.triangle.clockTimer()
	if a.evenCycle {
		a.pulse1.clockTimer()
		a.pulse2.clockTimer()
		a.noise.clockTimer()
	}
	a.evenCycle = !a.evenCycle

	a.frameCycles++
	steps := seq4Steps[:]
	if a.mode5Step {
		steps = seq5Steps[:]
	}
	if a.frameStep < len(steps) && a.frameCycles >= steps[a.frameStep] {
		a.onFrameStep(a.frameStep, len(steps))
		a.frameStep++
		if a.frameStep >= len(steps) {
			a.frameStep = 0
			a.frameCycles = 0
		}
	}
}

// onFrameStep implements the quarter/half-frame clocking pattern
// shared by the 4-step and 5-step sequences: every step clocks
// envelopes/the triangle linear counter, odd-numbered steps additionally
// clock length counters and sweep units, and the 4-step sequence's
// final step also raises the frame IRQ unless inhibited.
func (a *APU) onFrameStep(step, total int) {
	a.clockQuarterFrame()
	if step%2 == 1 {
		a.clockHalfFrame()
	}
	if total == 4 && step == 3 && !a.irqInhibit {
		a.irqPending = true
	}
}

func (a *APU) clockQuarterFrame() {
	a.pulse1.envelope.clock()
	a.pulse2.envelope.clock()
	a.triangle.clockLinearCounter()
	a.noise.envelope.clock()
}

func (a *APU) clockHalfFrame() {
	a.pulse1.length.clock()
	a.pulse1.clockSweep()
	a.pulse2.length.clock()
	a.pulse2.clockSweep()
	a.triangle.length.clock()
	a.noise.length.clock()
}

// Sample returns the instantaneous mixed output amplitude in the
// approximate 0.0-1.0 range, using the formulas for the 2A03's
// non-linear mixer documented on the NESDev wiki. A host pulls
// this at its own sample rate; this package performs no resampling.
func (a *APU) Sample() float32 {
	p1, p2 := float32(a.pulse1.output()), float32(a.pulse2.output())
	t, n := float32(a.triangle.output()), float32(a.noise.output())

	pulseOut := float32(0)
	if p1+p2 > 0 {
		pulseOut = 95.88 / (8128/(p1+p2) + 100)
	}
	tndOut := float32(0)
	if d := t/8227 + n/12241; d > 0 {
		tndOut = 159.79 / (1/d + 100)
	}
	return pulseOut + tndOut
}
