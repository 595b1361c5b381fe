package input

// Shared test doubles for the input package.

type btnCall struct {
	index   int
	pressed bool
}

// testSink records every SetButton call and the resulting report state.
type testSink struct {
	calls []btnCall
	state [MaxButtons]bool
}

func (s *testSink) SetButton(index int, pressed bool) {
	s.calls = append(s.calls, btnCall{index, pressed})
	if index >= 0 && index < MaxButtons {
		s.state[index] = pressed
	}
}

// edges filters the raw call log down to state changes, since Normal
// behavior rewrites its bit every tick.
func (s *testSink) edges() []btnCall {
	var out []btnCall
	var prev [MaxButtons]bool
	for _, c := range s.calls {
		if c.index < 0 || c.index >= MaxButtons {
			continue
		}
		if c.pressed != prev[c.index] {
			out = append(out, c)
			prev[c.index] = c.pressed
		}
	}
	return out
}

func (s *testSink) pressCount(index int) int {
	n := 0
	for _, c := range s.edges() {
		if c.index == index && c.pressed {
			n++
		}
	}
	return n
}
