package input

import (
	"testing"

	"buttonbox-go/platform"
	"buttonbox-go/types"
)

func TestPairEncodersRequiresAdjacentPhases(t *testing.T) {
	board := platform.NewSimBoard(8)
	clock := &platform.SimClock{}

	m := New(board, clock, &testSink{})
	m.Begin(Config{
		PinMap: []types.PinMapEntry{
			{Pin: 1, Role: types.RolePlain},
			{Pin: 2, Role: types.RolePlain},
			{Pin: 3, Role: types.RolePlain},
		},
		Inputs: []types.LogicalInput{
			{Source: types.DirectPin{Pin: 1}, Button: 1, Behavior: types.EncoderPhaseA},
			{Source: types.DirectPin{Pin: 2}, Button: 2, Behavior: types.Normal},
			{Source: types.DirectPin{Pin: 3}, Button: 3, Behavior: types.EncoderPhaseB},
		},
	})
	if len(m.encoders) != 0 {
		t.Fatalf("%d encoders from a split phase pair, want 0", len(m.encoders))
	}
}

func TestPairEncodersPicksDecoderKind(t *testing.T) {
	board := platform.NewSimBoard(24)
	clock := &platform.SimClock{}

	m := New(board, clock, &testSink{})
	m.Begin(Config{
		PinMap: []types.PinMapEntry{
			{Pin: 1, Role: types.RolePlain},
			{Pin: 2, Role: types.RolePlain},
			{Pin: 18, Role: types.RoleShiftData},
			{Pin: 19, Role: types.RoleShiftLoad},
			{Pin: 20, Role: types.RoleShiftClock},
		},
		ShiftRegisters: 1,
		Inputs: []types.LogicalInput{
			{Source: types.DirectPin{Pin: 1}, Button: 1, Behavior: types.EncoderPhaseA},
			{Source: types.DirectPin{Pin: 2}, Button: 2, Behavior: types.EncoderPhaseB},
			{Source: types.ShiftRegisterBit{Register: 0, Bit: 0}, Button: 3, Behavior: types.EncoderPhaseA},
			{Source: types.ShiftRegisterBit{Register: 0, Bit: 1}, Button: 4, Behavior: types.EncoderPhaseB},
		},
	})
	if len(m.encoders) != 2 {
		t.Fatalf("%d encoders, want 2", len(m.encoders))
	}
	if m.encoders[0].dec == nil || m.encoders[0].edge != nil {
		t.Fatal("pin-sourced pair should get the full decoder")
	}
	if m.encoders[1].edge == nil || m.encoders[1].dec != nil {
		t.Fatal("register-sourced pair should get the edge decoder")
	}
}

func TestDirectPinEncoderEndToEnd(t *testing.T) {
	board := platform.NewSimBoard(8)
	clock := &platform.SimClock{}
	sink := platform.NewCaptureSink()

	phaseA, phaseB := true, true
	board.SimPin(1).OnRead = func() bool { return phaseA }
	board.SimPin(2).OnRead = func() bool { return phaseB }

	m := New(board, clock, sink)
	m.Begin(Config{
		PinMap: []types.PinMapEntry{
			{Pin: 1, Role: types.RolePlain},
			{Pin: 2, Role: types.RolePlain},
		},
		Inputs: []types.LogicalInput{
			{Source: types.DirectPin{Pin: 1}, Button: 6, Behavior: types.EncoderPhaseA},
			{Source: types.DirectPin{Pin: 2}, Button: 7, Behavior: types.EncoderPhaseB},
		},
	})

	// One full clockwise detent, one quarter step every few cycles.
	steps := [][2]bool{{true, false}, {false, false}, {false, true}, {true, true}}
	run(m, clock, 200, func(cycle int) {
		if cycle >= 20 && cycle < 36 && cycle%4 == 0 {
			s := steps[(cycle-20)/4]
			phaseA, phaseB = s[0], s[1]
		}
	})

	calls := sink.ChangeCalls()
	if len(calls) != 2 {
		t.Fatalf("change calls = %v, want one press/release", calls)
	}
	if calls[0] != (platform.ButtonCall{Index: 5, Pressed: true}) {
		t.Fatalf("press = %v, want cw button index 5", calls[0])
	}
}
