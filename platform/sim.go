//go:build !tinygo

// Host-side implementations of the hardware interfaces: simulated pins, a
// manually-advanced clock and a capturing button sink. Tests and the host
// simulation entry both run on these.
package platform

import (
	"buttonbox-go/types"
)

// SimPin is an in-memory GPIO line. External circuitry is modelled either by
// Drive (set the sampled level directly) or by an OnRead hook, which lets a
// test express level as a function of other pins (e.g. a matrix key).
type SimPin struct {
	N      int
	Level  bool
	Output bool
	Pull   types.Pull

	// OnRead, when set, supplies the level returned by Get on an input pin.
	OnRead func() bool
}

func (p *SimPin) ConfigureInput(pull types.Pull) {
	p.Output = false
	p.Pull = pull
	if p.OnRead == nil {
		// An undriven input floats to its bias.
		p.Level = pull != types.PullDown
	}
}

func (p *SimPin) ConfigureOutput(initial bool) {
	p.Output = true
	p.Level = initial
}

func (p *SimPin) Set(level bool) {
	if p.Output {
		p.Level = level
	}
}

func (p *SimPin) Get() bool {
	if !p.Output && p.OnRead != nil {
		return p.OnRead()
	}
	return p.Level
}

func (p *SimPin) Number() int { return p.N }

// Drive sets the externally-applied level of an input pin.
func (p *SimPin) Drive(level bool) { p.Level = level }

// SimBoard is a PinSource over a fixed range of SimPins.
type SimBoard struct {
	pins []*SimPin
}

// NewSimBoard creates pins 0..maxPin inclusive.
func NewSimBoard(maxPin int) *SimBoard {
	b := &SimBoard{pins: make([]*SimPin, maxPin+1)}
	for i := range b.pins {
		b.pins[i] = &SimPin{N: i, Level: true}
	}
	return b
}

func (b *SimBoard) Pin(number int) (types.Pin, bool) {
	if number < 0 || number >= len(b.pins) {
		return nil, false
	}
	return b.pins[number], true
}

// SimPin returns the concrete pin for test manipulation.
func (b *SimBoard) SimPin(number int) *SimPin { return b.pins[number] }

// SimClock is a manually-advanced monotonic clock. DelayMicros advances it,
// so settle busy-waits consume simulated time like they would real time.
type SimClock struct {
	us uint64
}

func (c *SimClock) Millis() uint32          { return uint32(c.us / 1000) }
func (c *SimClock) Micros() uint32          { return uint32(c.us) }
func (c *SimClock) DelayMicros(us uint32)   { c.us += uint64(us) }
func (c *SimClock) AdvanceMillis(ms uint32) { c.us += uint64(ms) * 1000 }
func (c *SimClock) AdvanceMicros(us uint32) { c.us += uint64(us) }

// ButtonCall is one recorded sink invocation.
type ButtonCall struct {
	Index   int
	Pressed bool
}

// CaptureSink records every SetButton call and the resulting state.
type CaptureSink struct {
	Calls   []ButtonCall
	States  map[int]bool
	Flushes int
}

func NewCaptureSink() *CaptureSink {
	return &CaptureSink{States: map[int]bool{}}
}

func (s *CaptureSink) SetButton(index int, pressed bool) {
	s.Calls = append(s.Calls, ButtonCall{Index: index, Pressed: pressed})
	s.States[index] = pressed
}

func (s *CaptureSink) Flush() { s.Flushes++ }

// ChangeCalls returns only the calls that changed a button's state, in
// order. Normal behavior rewrites its state every tick; tests usually care
// about edges.
func (s *CaptureSink) ChangeCalls() []ButtonCall {
	states := map[int]bool{} // unseen reads as released
	var out []ButtonCall
	for _, c := range s.Calls {
		if states[c.Index] != c.Pressed {
			out = append(out, c)
		}
		states[c.Index] = c.Pressed
	}
	return out
}
