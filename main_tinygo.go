//go:build tinygo

package main

import (
	"time"

	"buttonbox-go/config"
	"buttonbox-go/platform"
	"buttonbox-go/services/input"
)

func main() {
	board := platform.NewBoard()
	clock := platform.NewBootClock()
	sink := platform.Buttons()

	panel := config.Default()
	if findings := config.Validate(&panel); len(findings) > 0 {
		for _, f := range findings {
			println("config:", f.String())
		}
	}

	eng := input.New(board, clock, sink)
	eng.Begin(input.Config{
		PinMap:         panel.PinMap,
		Inputs:         panel.Inputs,
		ShiftRegisters: panel.ShiftRegisters,
		DebounceMs:     panel.DebounceMs,
	})

	for {
		eng.Update()
		time.Sleep(time.Millisecond)
	}
}
