//go:build !tinygo

// panelcfg validates a panel definition file (JSON or YAML) and prints a
// summary of what the engine would build from it. Exit status 1 means the
// document had findings.
package main

import (
	"fmt"
	"os"

	"buttonbox-go/config"
	"buttonbox-go/types"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: panelcfg <panel.yaml|panel.json>")
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "panelcfg:", err)
		os.Exit(2)
	}

	panel, findings, err := config.Load(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, "panelcfg:", err)
		os.Exit(1)
	}

	name := panel.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("panel %s: %d pins, %d inputs, %d shift registers\n",
		name, len(panel.PinMap), len(panel.Inputs), panel.ShiftRegisters)
	for _, in := range panel.Inputs {
		fmt.Printf("  button %-3d %-10s %s\n", in.Button, in.Behavior, describe(in.Source))
	}

	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Fprintln(os.Stderr, "finding:", f)
		}
		os.Exit(1)
	}
}

func describe(s types.Source) string {
	switch v := s.(type) {
	case types.DirectPin:
		return fmt.Sprintf("pin %d", v.Pin)
	case types.MatrixPosition:
		return fmt.Sprintf("matrix (%d,%d)", v.Row, v.Col)
	case types.ShiftRegisterBit:
		return fmt.Sprintf("sr %d bit %d", v.Register, v.Bit)
	default:
		return "?"
	}
}
