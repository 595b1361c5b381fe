package types

// ---- Logical input model ----

// Behavior selects how a logical input drives its HID button.
type Behavior uint8

const (
	Normal        Behavior = iota // output mirrors the effective state
	Momentary                     // one fixed-width pulse per press edge
	EncoderPhaseA                 // quadrature phase A; never drives output
	EncoderPhaseB                 // quadrature phase B; never drives output
)

func (b Behavior) String() string {
	switch b {
	case Normal:
		return "normal"
	case Momentary:
		return "momentary"
	case EncoderPhaseA:
		return "enc_a"
	case EncoderPhaseB:
		return "enc_b"
	default:
		return "unknown"
	}
}

// IsEncoderPhase reports whether the behavior is one of the two encoder tags.
func (b Behavior) IsEncoderPhase() bool {
	return b == EncoderPhaseA || b == EncoderPhaseB
}

// LatchMode selects which phase-code transitions externalise an encoder
// detent. Only meaningful on EncoderPhaseA entries.
type LatchMode uint8

const (
	LatchFour3 LatchMode = iota // 4 steps per detent, latch at phase code 3
	LatchFour0                  // 4 steps per detent, latch at phase code 0
	LatchTwo03                  // 2 steps per detent, latch at codes 0 and 3
)

func (m LatchMode) String() string {
	switch m {
	case LatchFour3:
		return "four3"
	case LatchFour0:
		return "four0"
	case LatchTwo03:
		return "two03"
	default:
		return "unknown"
	}
}

// Source is the closed set of physical wirings a logical input can have.
type Source interface{ source() }

// DirectPin is a switch wired straight to a GPIO pin (active low, pulled up).
type DirectPin struct {
	Pin int
}

// MatrixPosition is one row×column intersection of the button matrix.
type MatrixPosition struct {
	Row int
	Col int
}

// ShiftRegisterBit is one input of a 74HC165 chain: register index along the
// chain (0 = nearest the MCU) and bit index within that register (0..7).
type ShiftRegisterBit struct {
	Register int
	Bit      int
}

func (DirectPin) source()        {}
func (MatrixPosition) source()   {}
func (ShiftRegisterBit) source() {}

// LogicalInput binds a physical source to a HID button and a behavior.
// Button ids are 1-based; 0 means unassigned (and maps to output index 0,
// a long-standing quirk kept for configuration compatibility).
// Latch is consulted only on EncoderPhaseA entries.
type LogicalInput struct {
	Source   Source
	Button   uint8
	Behavior Behavior
	Reverse  bool
	Latch    LatchMode
}

// ---- Hardware pin map ----

// PinRole assigns a function to a mapped pin.
type PinRole uint8

const (
	RolePlain PinRole = iota
	RoleMatrixRow
	RoleMatrixCol
	RoleShiftLoad  // 74HC165 PL (parallel load), active low
	RoleShiftClock // 74HC165 CP
	RoleShiftData  // 74HC165 Q7 serial data out
)

func (r PinRole) String() string {
	switch r {
	case RolePlain:
		return "plain"
	case RoleMatrixRow:
		return "matrix_row"
	case RoleMatrixCol:
		return "matrix_col"
	case RoleShiftLoad:
		return "shift_load"
	case RoleShiftClock:
		return "shift_clock"
	case RoleShiftData:
		return "shift_data"
	default:
		return "unknown"
	}
}

// PinMapEntry declares one used pin. Order matters: matrix rows and columns
// are numbered by their order of appearance in the map.
type PinMapEntry struct {
	Pin  int
	Role PinRole
}
