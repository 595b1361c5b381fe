package input

// Fixed pool limits. Storage is capacity-bounded at initialization; entries
// beyond a limit are truncated, never an allocation failure.
const (
	MaxEncoders           = 8
	MaxShiftRegisters     = 8
	MaxMatrixRows         = 8
	MaxMatrixCols         = 8
	MaxButtonPinGroups    = 32
	MaxShiftGroups        = 32
	MaxLogicalPerPin      = 4
	MaxLogicalPerCell     = 4
	MaxLogicalPerShiftBit = 4

	// MaxButtons is the size of the HID button space the sink exposes.
	MaxButtons = 32
)
