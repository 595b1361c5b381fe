package config

import (
	"testing"

	"buttonbox-go/errcode"
	"buttonbox-go/types"
)

const sampleYAML = `
name: left-console
shift_registers: 1
debounce_ms: 25
pins:
  - {pin: 18, role: shift_data}
  - {pin: 19, role: shift_load}
  - {pin: 20, role: shift_clock}
  - {pin: 2, role: matrix_row}
  - {pin: 6, role: matrix_col}
inputs:
  - {row: 0, col: 0, button: 1}
  - {register: 0, bit: 0, button: 2, behavior: momentary}
  - {register: 0, bit: 1, button: 3, behavior: enc_a}
  - {register: 0, bit: 2, button: 4, behavior: enc_b}
`

func TestLoadYAML(t *testing.T) {
	p, findings, err := Load([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
	if p.Name != "left-console" || p.ShiftRegisters != 1 || p.DebounceMs != 25 {
		t.Fatalf("header fields: %+v", p)
	}
	if len(p.PinMap) != 5 || len(p.Inputs) != 4 {
		t.Fatalf("got %d pins, %d inputs", len(p.PinMap), len(p.Inputs))
	}
	if src, ok := p.Inputs[0].Source.(types.MatrixPosition); !ok || src.Row != 0 || src.Col != 0 {
		t.Fatalf("input 0 source: %#v", p.Inputs[0].Source)
	}
	if p.Inputs[1].Behavior != types.Momentary {
		t.Fatalf("input 1 behavior: %v", p.Inputs[1].Behavior)
	}
}

func TestLoadJSON(t *testing.T) {
	doc := `{"pins":[{"pin":4,"role":"plain"}],"inputs":[{"pin":4,"button":1,"reverse":true}]}`
	p, findings, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
	if src, ok := p.Inputs[0].Source.(types.DirectPin); !ok || src.Pin != 4 {
		t.Fatalf("source: %#v", p.Inputs[0].Source)
	}
	if !p.Inputs[0].Reverse {
		t.Fatal("reverse flag lost")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("{pins: [")); err == nil {
		t.Fatal("expected error")
	} else if errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("code = %v", errcode.Of(err))
	}
}

func TestBuildFindings(t *testing.T) {
	tests := []struct {
		name string
		pc   types.PanelConfig
		code errcode.Code
	}{
		{
			name: "unknown role",
			pc: types.PanelConfig{
				Pins: []types.PinDecl{{Pin: 3, Role: "bogus"}},
			},
			code: errcode.UnknownRole,
		},
		{
			name: "duplicate pin",
			pc: types.PanelConfig{
				Pins: []types.PinDecl{{Pin: 3, Role: "plain"}, {Pin: 3, Role: "matrix_row"}},
			},
			code: errcode.DuplicatePin,
		},
		{
			name: "sourceless input",
			pc: types.PanelConfig{
				Inputs: []types.InputDecl{{Button: 1}},
			},
			code: errcode.InvalidSource,
		},
		{
			name: "enc_a without enc_b",
			pc: types.PanelConfig{
				Inputs: []types.InputDecl{
					{Pin: intp(2), Button: 1, Behavior: "enc_a"},
					{Pin: intp(3), Button: 2, Behavior: "normal"},
				},
			},
			code: errcode.UnpairedPhase,
		},
		{
			name: "orphan enc_b",
			pc: types.PanelConfig{
				Inputs: []types.InputDecl{{Pin: intp(2), Button: 1, Behavior: "enc_b"}},
			},
			code: errcode.UnpairedPhase,
		},
		{
			name: "button beyond report",
			pc: types.PanelConfig{
				Inputs: []types.InputDecl{{Pin: intp(2), Button: 40}},
			},
			code: errcode.ButtonRange,
		},
		{
			name: "register beyond the chain bound",
			pc: types.PanelConfig{
				Inputs: []types.InputDecl{{Register: intp(100000), Bit: intp(0), Button: 1}},
			},
			code: errcode.InvalidSource,
		},
		{
			name: "negative register",
			pc: types.PanelConfig{
				Inputs: []types.InputDecl{{Register: intp(-1), Bit: intp(0), Button: 1}},
			},
			code: errcode.InvalidSource,
		},
		{
			name: "bit outside a byte",
			pc: types.PanelConfig{
				Inputs: []types.InputDecl{{Register: intp(0), Bit: intp(8), Button: 1}},
			},
			code: errcode.InvalidSource,
		},
		{
			name: "shift inputs without wiring",
			pc: types.PanelConfig{
				Inputs: []types.InputDecl{{Register: intp(0), Bit: intp(0), Button: 1}},
			},
			code: errcode.MissingWiring,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, findings := Build(tt.pc)
			for _, f := range findings {
				if f.Code == tt.code {
					return
				}
			}
			t.Fatalf("missing %v in %v", tt.code, findings)
		})
	}
}

func TestPairConsumesB(t *testing.T) {
	pc := types.PanelConfig{
		Pins: []types.PinDecl{
			{Pin: 18, Role: "shift_data"},
			{Pin: 19, Role: "shift_load"},
			{Pin: 20, Role: "shift_clock"},
		},
		Inputs: []types.InputDecl{
			{Register: intp(0), Bit: intp(0), Button: 1, Behavior: "enc_a"},
			{Register: intp(0), Bit: intp(1), Button: 2, Behavior: "enc_b"},
			{Register: intp(0), Bit: intp(2), Button: 3, Behavior: "enc_a"},
			{Register: intp(0), Bit: intp(3), Button: 4, Behavior: "enc_b"},
		},
	}
	_, findings := Build(pc)
	if len(findings) != 0 {
		t.Fatalf("adjacent pairs should validate cleanly: %v", findings)
	}
}

func TestDefaultPanelValidates(t *testing.T) {
	p := Default()
	if findings := Validate(&p); len(findings) != 0 {
		t.Fatalf("default panel: %v", findings)
	}
	if len(p.Inputs) != 5 {
		t.Fatalf("got %d inputs", len(p.Inputs))
	}
}

func intp(v int) *int { return &v }
