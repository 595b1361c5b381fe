package types

// Panel configuration wire format, decodable from JSON or YAML.
// The config package converts these into LogicalInput / PinMapEntry values
// and validates them; the engine never sees the wire structs.

type PanelConfig struct {
	Name           string      `json:"name,omitempty" yaml:"name,omitempty"`
	ShiftRegisters int         `json:"shift_registers,omitempty" yaml:"shift_registers,omitempty"`
	DebounceMs     int         `json:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty"`
	Pins           []PinDecl   `json:"pins" yaml:"pins"`
	Inputs         []InputDecl `json:"inputs" yaml:"inputs"`
}

type PinDecl struct {
	Pin  int    `json:"pin" yaml:"pin"`
	Role string `json:"role" yaml:"role"` // plain|matrix_row|matrix_col|shift_load|shift_clock|shift_data
}

// InputDecl is the tagged wire form of one LogicalInput. Exactly one of the
// source groups must be present: pin, (row,col), or (register,bit).
type InputDecl struct {
	Pin      *int   `json:"pin,omitempty" yaml:"pin,omitempty"`
	Row      *int   `json:"row,omitempty" yaml:"row,omitempty"`
	Col      *int   `json:"col,omitempty" yaml:"col,omitempty"`
	Register *int   `json:"register,omitempty" yaml:"register,omitempty"`
	Bit      *int   `json:"bit,omitempty" yaml:"bit,omitempty"`
	Button   uint8  `json:"button" yaml:"button"`
	Behavior string `json:"behavior,omitempty" yaml:"behavior,omitempty"` // normal|momentary|enc_a|enc_b
	Reverse  bool   `json:"reverse,omitempty" yaml:"reverse,omitempty"`
	Latch    string `json:"latch,omitempty" yaml:"latch,omitempty"` // four3|four0|two03
}
