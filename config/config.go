// Package config loads and validates panel definitions. The engine itself
// absorbs configuration faults silently; this package is where they become
// visible, as findings a host tool or boot log can surface.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"buttonbox-go/errcode"
	"buttonbox-go/services/input"
	"buttonbox-go/types"
)

// Panel is the validated runtime form of a configuration document.
type Panel struct {
	Name           string
	PinMap         []types.PinMapEntry
	Inputs         []types.LogicalInput
	ShiftRegisters int
	DebounceMs     uint32
}

// Finding is one validation observation. Findings never stop the engine;
// the affected entry simply produces no runtime state.
type Finding struct {
	Index int // index into the inputs list, -1 for pin-map findings
	Code  errcode.Code
	Msg   string
}

func (f Finding) String() string {
	if f.Index >= 0 {
		return fmt.Sprintf("input %d: %s: %s", f.Index, f.Code, f.Msg)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Msg)
}

// Parse decodes a JSON or YAML document (YAML is a superset, one decoder
// covers both) into the wire form.
func Parse(data []byte) (types.PanelConfig, error) {
	var pc types.PanelConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return types.PanelConfig{}, &errcode.E{C: errcode.InvalidParams, Op: "config.Parse", Err: err}
	}
	return pc, nil
}

// Build converts the wire form into a runtime Panel plus validation
// findings. Entries with findings are still carried through where the
// engine would accept them (it skips what it cannot use); entries whose
// source cannot be determined at all are dropped.
func Build(pc types.PanelConfig) (Panel, []Finding) {
	p := Panel{
		Name:           pc.Name,
		ShiftRegisters: pc.ShiftRegisters,
		DebounceMs:     uint32(pc.DebounceMs),
	}
	var findings []Finding

	seen := map[int]bool{}
	for _, d := range pc.Pins {
		role, ok := parseRole(d.Role)
		if !ok {
			findings = append(findings, Finding{Index: -1, Code: errcode.UnknownRole,
				Msg: fmt.Sprintf("pin %d role %q", d.Pin, d.Role)})
			continue
		}
		if seen[d.Pin] {
			findings = append(findings, Finding{Index: -1, Code: errcode.DuplicatePin,
				Msg: fmt.Sprintf("pin %d mapped twice", d.Pin)})
			continue
		}
		seen[d.Pin] = true
		p.PinMap = append(p.PinMap, types.PinMapEntry{Pin: d.Pin, Role: role})
	}

	for i, d := range pc.Inputs {
		in, f := buildInput(i, d)
		if f != nil {
			findings = append(findings, *f)
			if in.Source == nil {
				continue
			}
		}
		p.Inputs = append(p.Inputs, in)
	}

	findings = append(findings, Validate(&p)...)
	return p, findings
}

// Load is Parse followed by Build.
func Load(data []byte) (Panel, []Finding, error) {
	pc, err := Parse(data)
	if err != nil {
		return Panel{}, nil, err
	}
	p, findings := Build(pc)
	return p, findings, nil
}

func buildInput(i int, d types.InputDecl) (types.LogicalInput, *Finding) {
	in := types.LogicalInput{Button: d.Button, Reverse: d.Reverse}

	var ok bool
	if in.Behavior, ok = parseBehavior(d.Behavior); !ok {
		return in, &Finding{Index: i, Code: errcode.InvalidParams,
			Msg: fmt.Sprintf("behavior %q", d.Behavior)}
	}
	if in.Latch, ok = parseLatch(d.Latch); !ok {
		return in, &Finding{Index: i, Code: errcode.InvalidParams,
			Msg: fmt.Sprintf("latch %q", d.Latch)}
	}

	switch {
	case d.Pin != nil:
		in.Source = types.DirectPin{Pin: *d.Pin}
	case d.Row != nil && d.Col != nil:
		in.Source = types.MatrixPosition{Row: *d.Row, Col: *d.Col}
	case d.Register != nil && d.Bit != nil:
		in.Source = types.ShiftRegisterBit{Register: *d.Register, Bit: *d.Bit}
	default:
		return in, &Finding{Index: i, Code: errcode.InvalidSource,
			Msg: "needs pin, row+col or register+bit"}
	}
	return in, nil
}

// Validate runs the load-time checks the engine performs implicitly:
// encoder phase pairing (an EncoderPhaseA must be immediately followed by
// its EncoderPhaseB), wiring completeness, and button id range.
func Validate(p *Panel) []Finding {
	var findings []Finding

	for i := 0; i < len(p.Inputs); i++ {
		in := p.Inputs[i]
		switch in.Behavior {
		case types.EncoderPhaseA:
			if i+1 >= len(p.Inputs) || p.Inputs[i+1].Behavior != types.EncoderPhaseB {
				findings = append(findings, Finding{Index: i, Code: errcode.UnpairedPhase,
					Msg: "enc_a without an immediately following enc_b"})
			} else {
				i++ // the pair consumes its B entry
			}
		case types.EncoderPhaseB:
			findings = append(findings, Finding{Index: i, Code: errcode.UnpairedPhase,
				Msg: "enc_b without a preceding enc_a"})
		}
	}

	srUsed := false
	for i, in := range p.Inputs {
		if s, ok := in.Source.(types.ShiftRegisterBit); ok {
			srUsed = true
			if s.Register < 0 || s.Register >= input.MaxShiftRegisters {
				findings = append(findings, Finding{Index: i, Code: errcode.InvalidSource,
					Msg: fmt.Sprintf("register %d outside 0..%d", s.Register, input.MaxShiftRegisters-1)})
			}
			if s.Bit < 0 || s.Bit > 7 {
				findings = append(findings, Finding{Index: i, Code: errcode.InvalidSource,
					Msg: fmt.Sprintf("bit %d outside 0..7", s.Bit)})
			}
		}
		if in.Button > 32 {
			findings = append(findings, Finding{Index: i, Code: errcode.ButtonRange,
				Msg: fmt.Sprintf("button %d beyond the 32-button report", in.Button)})
		}
	}
	if srUsed {
		var load, clock, data bool
		for _, e := range p.PinMap {
			switch e.Role {
			case types.RoleShiftLoad:
				load = true
			case types.RoleShiftClock:
				clock = true
			case types.RoleShiftData:
				data = true
			}
		}
		if !load || !clock || !data {
			findings = append(findings, Finding{Index: -1, Code: errcode.MissingWiring,
				Msg: "shift-register inputs present but load/clock/data pins incomplete"})
		}
	}
	return findings
}

func parseRole(s string) (types.PinRole, bool) {
	switch s {
	case "", "plain":
		return types.RolePlain, true
	case "matrix_row":
		return types.RoleMatrixRow, true
	case "matrix_col":
		return types.RoleMatrixCol, true
	case "shift_load":
		return types.RoleShiftLoad, true
	case "shift_clock":
		return types.RoleShiftClock, true
	case "shift_data":
		return types.RoleShiftData, true
	default:
		return types.RolePlain, false
	}
}

func parseBehavior(s string) (types.Behavior, bool) {
	switch s {
	case "", "normal":
		return types.Normal, true
	case "momentary":
		return types.Momentary, true
	case "enc_a":
		return types.EncoderPhaseA, true
	case "enc_b":
		return types.EncoderPhaseB, true
	default:
		return types.Normal, false
	}
}

func parseLatch(s string) (types.LatchMode, bool) {
	switch s {
	case "", "four3":
		return types.LatchFour3, true
	case "four0":
		return types.LatchFour0, true
	case "two03":
		return types.LatchTwo03, true
	default:
		return types.LatchFour3, false
	}
}

// Default is the factory panel: one 74HC165 on pins 18..20 hosting three
// plain switches and one encoder.
func Default() Panel {
	return Panel{
		Name:           "default",
		ShiftRegisters: 1,
		PinMap: []types.PinMapEntry{
			{Pin: 18, Role: types.RoleShiftData},
			{Pin: 19, Role: types.RoleShiftLoad},
			{Pin: 20, Role: types.RoleShiftClock},
		},
		Inputs: []types.LogicalInput{
			{Source: types.ShiftRegisterBit{Register: 0, Bit: 0}, Button: 5, Behavior: types.Normal},
			{Source: types.ShiftRegisterBit{Register: 0, Bit: 1}, Button: 6, Behavior: types.EncoderPhaseA},
			{Source: types.ShiftRegisterBit{Register: 0, Bit: 2}, Button: 7, Behavior: types.EncoderPhaseB},
			{Source: types.ShiftRegisterBit{Register: 0, Bit: 3}, Button: 8, Behavior: types.Normal},
			{Source: types.ShiftRegisterBit{Register: 0, Bit: 4}, Button: 9, Behavior: types.Normal},
		},
	}
}
