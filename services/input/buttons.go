package input

import (
	"buttonbox-go/types"
	"buttonbox-go/x/timex"
)

// momentaryPulseMs is the fixed output pulse width of Momentary behavior.
const momentaryPulseMs = 50

// runtimeButton is the per-logical-input state machine shared by all three
// source kinds. Several logical buttons may sit on one physical position;
// each keeps its own state.
type runtimeButton struct {
	button   uint8 // 1-based HID id, 0 = unassigned (maps to index 0)
	behavior types.Behavior
	reverse  bool

	lastState   bool   // last effective (polarity-corrected) pressed state
	pulseStart  uint32 // ms, Momentary only
	pulseActive bool
}

// sinkIndex converts the 1-based configured id to the sink's zero-based
// index. Id 0 maps to index 0 as well; a documented quirk, not an error.
func sinkIndex(button uint8) int {
	if button > 0 {
		return int(button - 1)
	}
	return 0
}

// process drives the sink for one tick given the physical pressed state.
// Encoder phase entries are never driven here; they exist only to be paired.
func (b *runtimeButton) process(nowMs uint32, physicalPressed bool, sink types.ButtonSink) {
	effective := physicalPressed
	if b.reverse {
		effective = !effective
	}
	idx := sinkIndex(b.button)
	switch b.behavior {
	case types.Normal:
		sink.SetButton(idx, effective)
	case types.Momentary:
		if !b.lastState && effective && !b.pulseActive {
			sink.SetButton(idx, true)
			b.pulseStart = nowMs
			b.pulseActive = true
		}
		if b.pulseActive && timex.After(nowMs, b.pulseStart, momentaryPulseMs) {
			sink.SetButton(idx, false)
			b.pulseActive = false
		}
	case types.EncoderPhaseA, types.EncoderPhaseB:
		// handled by the encoder path
	}
	b.lastState = effective
}

// pinGroup collects the logical buttons sharing one direct GPIO pin.
type pinGroup struct {
	pin     types.Pin
	buttons []runtimeButton
}

// shiftGroup collects the logical buttons sharing one shift-register bit.
type shiftGroup struct {
	register int
	bit      int
	buttons  []runtimeButton
}

// updatePinGroups samples each direct pin once and runs every logical button
// on it. Direct switches are wired active low.
func (m *Manager) updatePinGroups(nowMs uint32) {
	for i := range m.pinGroups {
		g := &m.pinGroups[i]
		pressed := !g.pin.Get()
		for j := range g.buttons {
			g.buttons[j].process(nowMs, pressed, m.sink)
		}
	}
}

// updateShiftGroups reads the shared register buffer refreshed earlier in the
// same tick. 74HC165 inputs are active low: a 0 bit is pressed. There is no
// debounce at this layer; the pulse scheduler and behavior state machines
// govern edge sensitivity for these inputs.
func (m *Manager) updateShiftGroups(nowMs uint32) {
	for i := range m.shiftGroups {
		g := &m.shiftGroups[i]
		if g.register < 0 || g.register >= len(m.srBuf) || g.bit < 0 || g.bit > 7 {
			continue
		}
		pressed := m.srBuf[g.register]&(1<<g.bit) == 0
		for j := range g.buttons {
			g.buttons[j].process(nowMs, pressed, m.sink)
		}
	}
}
