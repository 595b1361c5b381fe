package input

import (
	"buttonbox-go/drivers/quadrature"
	"buttonbox-go/types"
	"buttonbox-go/x/mathx"
)

// decoderCatchUp is how many decoder polls run per orchestrator cycle, so a
// fast knob cannot slip two raw transitions between cycles.
const decoderCatchUp = 3

// encoder owns one decoder and maps its position deltas onto a scheduler
// entry. Exactly one of dec/edge is set: full decoding for pin- and
// matrix-sourced phases, edge decoding when both phases live on the
// shift-register chain.
type encoder struct {
	dec  *quadrature.Decoder
	edge *quadrature.EdgeDecoder

	lastPos int32
	entry   int // scheduler handle
}

// pairEncoders runs the load-time pairing pass: an EncoderPhaseA entry pairs
// only with the immediately following EncoderPhaseB entry. Anything else —
// an A with no adjacent B, a dangling B — is a configuration error and
// produces no encoder; config.Validate reports such entries, the engine
// just skips them.
func (m *Manager) pairEncoders(inputs []types.LogicalInput) {
	for i := 0; i+1 < len(inputs); i++ {
		a := inputs[i]
		b := inputs[i+1]
		if a.Behavior != types.EncoderPhaseA || b.Behavior != types.EncoderPhaseB {
			continue
		}
		if len(m.encoders) >= MaxEncoders {
			return
		}

		readA, okA := m.phaseReader(a.Source)
		readB, okB := m.phaseReader(b.Source)
		if !okA || !okB {
			continue
		}

		entry := m.sched.addEntry(a.Button, b.Button)
		if entry < 0 {
			return
		}

		enc := encoder{entry: entry}
		if bothShiftRegister(a.Source, b.Source) {
			enc.edge = quadrature.NewEdge(readA, readB)
		} else {
			enc.dec = quadrature.New(readA, readB, latchOf(a.Latch))
			enc.lastPos = enc.dec.Position()
		}
		m.encoders = append(m.encoders, enc)
	}
}

func bothShiftRegister(a, b types.Source) bool {
	_, sa := a.(types.ShiftRegisterBit)
	_, sb := b.(types.ShiftRegisterBit)
	return sa && sb
}

func latchOf(m types.LatchMode) quadrature.LatchMode {
	switch m {
	case types.LatchFour0:
		return quadrature.Four0
	case types.LatchTwo03:
		return quadrature.Two03
	default:
		return quadrature.Four3
	}
}

// phaseReader builds the sampling closure for one encoder phase.
//
// Direct pins are configured pulled-up and read live. Matrix-hosted phases
// read the raw row-pin snapshot the scanner publishes each cycle. Phases on
// the shift-register chain read the shared register buffer with the 74HC165
// active-low inversion applied (a 0 bit samples as true).
func (m *Manager) phaseReader(src types.Source) (quadrature.ReadFn, bool) {
	switch s := src.(type) {
	case types.DirectPin:
		pin, ok := m.pins.Pin(s.Pin)
		if !ok {
			return nil, false
		}
		pin.ConfigureInput(types.PullUp)
		return pin.Get, true
	case types.MatrixPosition:
		row := s.Row
		if row < 0 || row >= len(m.rowPins) {
			return nil, false
		}
		pinN := m.rowPins[row].Number()
		return func() bool {
			if pinN < 0 || pinN >= len(m.rawRows) {
				return true
			}
			return m.rawRows[pinN]
		}, true
	case types.ShiftRegisterBit:
		reg, bit := s.Register, s.Bit
		if bit < 0 || bit > 7 {
			return nil, false
		}
		return func() bool {
			if reg < 0 || reg >= len(m.srBuf) {
				return true
			}
			return m.srBuf[reg]&(1<<bit) == 0
		}, true
	}
	return nil, false
}

// updateEncoders polls every decoder and hands the per-tick delta to the
// scheduler as pending steps.
func (m *Manager) updateEncoders() {
	for i := range m.encoders {
		e := &m.encoders[i]
		if e.edge != nil {
			var delta int32
			for t := 0; t < decoderCatchUp; t++ {
				delta += int32(e.edge.Tick())
			}
			m.queueDelta(e, delta)
			continue
		}
		for t := 0; t < decoderCatchUp; t++ {
			e.dec.Tick()
		}
		pos := e.dec.Position()
		m.queueDelta(e, pos-e.lastPos)
		e.lastPos = pos
	}
	m.sched.tick()
}

func (m *Manager) queueDelta(e *encoder, delta int32) {
	if delta == 0 {
		return
	}
	dir := dirCW
	if delta < 0 {
		dir = dirCCW
	}
	m.sched.addSteps(e.entry, dir, int(mathx.Abs(delta)))
}
