// Package quadrature decodes two-phase rotary encoder signals into a
// monotonically-changing position. The decoder is polled: Tick must be called
// often enough that two consecutive raw transitions cannot slip between
// polls (the input engine compensates by ticking several times per cycle).
package quadrature

// LatchMode selects which phase-code transitions externalise the position.
type LatchMode uint8

const (
	// Four3 latches only when the raw code reaches 3: one detent per four raw
	// transitions. Tolerant of noisy wiring because only one phase
	// combination is trusted.
	Four3 LatchMode = iota
	// Four0 is the mirror latch at code 0, for reversed wirings.
	Four0
	// Two03 latches at both 0 and 3: two detents per mechanical cycle, for
	// encoders with weak detent definition.
	Two03
)

const (
	latch0 = 0
	latch3 = 3
)

// knobDir maps (newCode | oldCode<<2) to the position delta of that raw
// transition: -1, 0 or +1. Invalid two-bit jumps map to 0.
var knobDir = [16]int8{
	0, -1, 1, 0,
	1, 0, 0, -1,
	-1, 0, 0, 1,
	0, 1, -1, 0,
}

// ReadFn samples one phase line; true is the electrically high level.
type ReadFn func() bool

// Decoder is the full 16-transition state machine with a configurable latch.
type Decoder struct {
	readA ReadFn
	readB ReadFn
	mode  LatchMode

	oldState uint8
	position int32 // internal, 2x or 4x scaled depending on mode
	external int32
}

// New samples both phases for the initial state and returns a decoder.
func New(readA, readB ReadFn, mode LatchMode) *Decoder {
	d := &Decoder{readA: readA, readB: readB, mode: mode}
	d.oldState = phaseCode(readA(), readB())
	return d
}

func phaseCode(a, b bool) uint8 {
	var c uint8
	if a {
		c |= 1
	}
	if b {
		c |= 2
	}
	return c
}

// Tick samples both phases and folds the transition into the position.
func (d *Decoder) Tick() {
	state := phaseCode(d.readA(), d.readB())
	if state == d.oldState {
		return
	}
	d.position += int32(knobDir[state|d.oldState<<2])
	d.oldState = state

	switch d.mode {
	case Four3:
		if state == latch3 {
			d.external = d.position >> 2
		}
	case Four0:
		if state == latch0 {
			d.external = d.position >> 2
		}
	case Two03:
		if state == latch0 || state == latch3 {
			d.external = d.position >> 1
		}
	}
}

// Position returns the latched external position.
func (d *Decoder) Position() int32 { return d.external }

// SetPosition rebases the external position, keeping the sub-detent bits of
// the internal accumulator.
func (d *Decoder) SetPosition(p int32) {
	switch d.mode {
	case Four3, Four0:
		d.position = p<<2 | d.position&0x3
	case Two03:
		d.position = p<<1 | d.position&0x1
	}
	d.external = p
}

// EdgeDecoder is the narrower 2-bit decoder used for shift-register-sourced
// phases: it recognises only the two detent-exit transitions (11→01 as
// clockwise, 11→10 as counter-clockwise) and ignores everything else, which
// makes it tolerant of the coarser sampling a register chain gets.
type EdgeDecoder struct {
	readA ReadFn
	readB ReadFn
	last  uint8
}

// NewEdge samples both phases for the initial state and returns the decoder.
func NewEdge(readA, readB ReadFn) *EdgeDecoder {
	e := &EdgeDecoder{readA: readA, readB: readB}
	e.last = edgeCode(readA(), readB())
	return e
}

// Phase A is the high bit here, matching the detent-exit patterns above.
func edgeCode(a, b bool) uint8 {
	var c uint8
	if a {
		c |= 2
	}
	if b {
		c |= 1
	}
	return c
}

// Tick samples both phases and returns the step of this transition:
// +1 clockwise, -1 counter-clockwise, 0 otherwise.
func (e *EdgeDecoder) Tick() int8 {
	state := edgeCode(e.readA(), e.readB())
	var step int8
	if state != e.last {
		if e.last == 3 && state == 1 {
			step = 1
		} else if e.last == 3 && state == 2 {
			step = -1
		}
	}
	e.last = state
	return step
}
