//go:build !tinygo

// Host build: runs a scripted panel against the simulated board so the
// engine can be exercised without hardware. Prints every button report
// change the sink observes.
package main

import (
	"fmt"

	"buttonbox-go/config"
	"buttonbox-go/platform"
	"buttonbox-go/services/input"
	"buttonbox-go/types"
)

func main() {
	board := platform.NewSimBoard(32)
	clock := &platform.SimClock{}
	sink := platform.NewCaptureSink()

	panel := config.Panel{
		Name: "sim-demo",
		PinMap: []types.PinMapEntry{
			{Pin: 2, Role: types.RoleMatrixRow},
			{Pin: 6, Role: types.RoleMatrixCol},
			{Pin: 10, Role: types.RolePlain},
			{Pin: 12, Role: types.RolePlain},
			{Pin: 13, Role: types.RolePlain},
		},
		Inputs: []types.LogicalInput{
			{Source: types.MatrixPosition{Row: 0, Col: 0}, Button: 1, Behavior: types.Normal},
			{Source: types.DirectPin{Pin: 10}, Button: 2, Behavior: types.Momentary},
			{Source: types.DirectPin{Pin: 12}, Button: 3, Behavior: types.EncoderPhaseA},
			{Source: types.DirectPin{Pin: 13}, Button: 4, Behavior: types.EncoderPhaseB},
		},
	}
	// Matrix cell (0,0): closed when the script says so and the column
	// strobe is driving low.
	var cellClosed bool
	col := board.SimPin(6)
	board.SimPin(2).OnRead = func() bool {
		if cellClosed && col.Output && !col.Level {
			return false
		}
		return true
	}

	// Direct momentary switch on pin 10 (active low).
	var momClosed bool
	board.SimPin(10).OnRead = func() bool { return !momClosed }

	// Encoder phases on pins 12/13, idle high.
	phaseA, phaseB := true, true
	board.SimPin(12).OnRead = func() bool { return phaseA }
	board.SimPin(13).OnRead = func() bool { return phaseB }

	eng := input.New(board, clock, sink)
	eng.Begin(input.Config{
		PinMap:     panel.PinMap,
		Inputs:     panel.Inputs,
		DebounceMs: panel.DebounceMs,
	})

	// One full clockwise detent, phases (a,b): 11 -> 10 -> 00 -> 01 -> 11.
	cwSteps := [][2]bool{{true, false}, {false, false}, {false, true}, {true, true}}
	step := 0

	for tick := 0; tick < 400; tick++ {
		switch tick {
		case 50:
			cellClosed = true
		case 120:
			cellClosed = false
		case 200:
			momClosed = true
		case 210:
			momClosed = false
		}
		// Rotate the encoder one quarter step every 4 ms between t=260
		// and t=320.
		if tick >= 260 && tick < 320 && tick%4 == 0 && step < len(cwSteps) {
			phaseA, phaseB = cwSteps[step][0], cwSteps[step][1]
			step++
		}

		eng.Update()
		clock.AdvanceMillis(1)
	}

	for _, c := range sink.ChangeCalls() {
		fmt.Printf("button %2d -> %v\n", c.Index+1, c.Pressed)
	}
	fmt.Printf("%d flushes\n", sink.Flushes)
}
