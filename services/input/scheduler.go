package input

import (
	"buttonbox-go/types"
	"buttonbox-go/x/mathx"
	"buttonbox-go/x/timex"
)

// Scheduler timing. The microsecond clock is used here because press widths
// must stay stable regardless of how fast the orchestrator loop runs.
const (
	pressDurationUs = 40_000 // asserted width of one synthetic press
	pressIntervalUs = 40_000 // gap before the same direction may fire again
	maxPendingSteps = 50     // per-direction backpressure clamp
)

// direction of encoder travel currently being served.
type direction uint8

const (
	dirNone direction = iota
	dirCW
	dirCCW
)

// pulseEntry is the per-encoder scheduling state. Entries are created in
// lock-step with encoders and reset on reconfiguration.
type pulseEntry struct {
	cwButton  uint8
	ccwButton uint8

	pendingCW  uint8
	pendingCCW uint8

	lastPressUs uint32 // start of the most recent synthetic press
	pressed     bool
	dir         direction
}

// scheduler turns buffered decoder steps into rate-limited, non-overlapping
// press/release pairs so a USB host never sees lost or glued-together clicks.
// Steps beyond the pending clamp are dropped: bounded latency is preferred
// over an unbounded queue when an encoder is spun hard.
type scheduler struct {
	clock   types.Clock
	sink    types.ButtonSink
	entries []pulseEntry
}

func newScheduler(clock types.Clock, sink types.ButtonSink) *scheduler {
	return &scheduler{clock: clock, sink: sink}
}

// addEntry registers an encoder's button pair and returns its handle.
func (s *scheduler) addEntry(cwButton, ccwButton uint8) int {
	if len(s.entries) >= MaxEncoders {
		return -1
	}
	s.entries = append(s.entries, pulseEntry{cwButton: cwButton, ccwButton: ccwButton})
	return len(s.entries) - 1
}

// addSteps buffers decoder steps for an entry, clamped per direction.
func (s *scheduler) addSteps(entry int, dir direction, steps int) {
	if entry < 0 || entry >= len(s.entries) || steps <= 0 {
		return
	}
	e := &s.entries[entry]
	switch dir {
	case dirCW:
		e.pendingCW = uint8(mathx.Min(int(e.pendingCW)+steps, maxPendingSteps))
	case dirCCW:
		e.pendingCCW = uint8(mathx.Min(int(e.pendingCCW)+steps, maxPendingSteps))
	}
}

// tick advances every entry's state machine once.
func (s *scheduler) tick() {
	nowUs := s.clock.Micros()
	for i := range s.entries {
		s.serveEntry(&s.entries[i], nowUs)
	}
}

func (e *pulseEntry) currentButton() uint8 {
	if e.dir == dirCW {
		return e.cwButton
	}
	return e.ccwButton
}

func (s *scheduler) serveEntry(e *pulseEntry, nowUs uint32) {
	// Normal release once the press has been asserted long enough. The
	// served direction is kept so a direction change can still be detected.
	if e.pressed && timex.After(nowUs, e.lastPressUs, pressDurationUs) {
		s.sink.SetButton(sinkIndex(e.currentButton()), false)
		e.pressed = false
	}

	if !e.pressed && (e.pendingCW > 0 || e.pendingCCW > 0) {
		// Continue the direction being served while it has pending steps;
		// switch only when it is exhausted.
		next := dirNone
		switch {
		case e.dir == dirCW && e.pendingCW > 0:
			next = dirCW
		case e.dir == dirCCW && e.pendingCCW > 0:
			next = dirCCW
		case e.pendingCW > 0:
			next = dirCW
		case e.pendingCCW > 0:
			next = dirCCW
		}

		// A direction switch (and the very first press) fires immediately.
		// Repeating a direction waits out a full press+interval cycle from
		// the last press start, capping the cadence the host observes.
		fire := false
		switch {
		case e.lastPressUs == 0:
			fire = true
		case next != e.dir:
			fire = true
		default:
			fire = timex.After(nowUs, e.lastPressUs, pressDurationUs+pressIntervalUs)
		}

		if fire && next != dirNone {
			var button uint8
			if next == dirCW {
				button = e.cwButton
				e.pendingCW--
			} else {
				button = e.ccwButton
				e.pendingCCW--
			}
			s.sink.SetButton(sinkIndex(button), true)
			e.pressed = true
			e.lastPressUs = nowUs
			e.dir = next
		}
	}

	// Safety timeout covering a missed release tick.
	if e.pressed && timex.After(nowUs, e.lastPressUs, 2*pressDurationUs) {
		s.sink.SetButton(sinkIndex(e.currentButton()), false)
		e.pressed = false
	}
}
