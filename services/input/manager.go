// Package input turns a panel of heterogeneous physical controls — direct
// switches, key-matrix positions, shift-register bits, rotary encoders —
// into one logical HID button stream.
//
// The engine is single-threaded and cooperative: the host loop calls
// Manager.Update once per cycle and nothing blocks or yields mid-operation.
// Within one cycle the shift-register buffer and the matrix raw-pin snapshot
// are written exactly once, before any consumer reads them; that fixed
// ordering is the whole concurrency contract.
package input

import (
	"buttonbox-go/drivers/sr165"
	"buttonbox-go/types"
	"buttonbox-go/x/mathx"
	"buttonbox-go/x/timex"
)

// Config is the runtime configuration the engine is (re)initialized with.
type Config struct {
	PinMap []types.PinMapEntry
	Inputs []types.LogicalInput

	// ShiftRegisters is the chain length; 0 derives it from the highest
	// register index any input uses. Either way the chain is clamped to
	// MaxShiftRegisters.
	ShiftRegisters int

	// DebounceMs overrides the matrix debounce window; 0 keeps the default.
	DebounceMs uint32
}

// Manager owns the input pools and the fixed per-tick ordering.
type Manager struct {
	pins  types.PinSource
	clock types.Clock
	sink  types.ButtonSink
	flush func()

	pinGroups   []pinGroup
	shiftGroups []shiftGroup

	mat         *matrix
	rowPins     []types.Pin
	matRows     int
	matCols     int
	cellButtons [][]runtimeButton // indexed row*cols+col

	// Shared transient buffers, rewritten once per tick by their owner and
	// read by the button and encoder paths afterwards.
	srBuf   []byte
	rawRows []bool

	srDev    *sr165.Device
	srLastMs uint32

	encoders []encoder
	sched    *scheduler

	begun bool
}

// New wires the engine to its collaborators. If the sink also implements
// Flush(), Update calls it after each cycle to hand off one outbound report.
func New(pins types.PinSource, clock types.Clock, sink types.ButtonSink) *Manager {
	m := &Manager{pins: pins, clock: clock, sink: sink}
	if f, ok := sink.(interface{ Flush() }); ok {
		m.flush = f.Flush
	}
	return m
}

// Begin builds all runtime pools from cfg. Malformed entries are skipped and
// excess entries truncated; nothing here fails, a panel with a partly bad
// configuration keeps running with what remains.
func (m *Manager) Begin(cfg Config) {
	m.reset()

	wiring := newWiring(cfg.PinMap, cfg.Inputs)
	m.rawRows = make([]bool, wiring.maxPin+1)
	for i := range m.rawRows {
		m.rawRows[i] = true
	}

	m.initShiftRegisters(cfg, wiring)
	m.initPinGroups(cfg.Inputs)
	m.initMatrix(cfg, wiring)
	m.sched = newScheduler(m.clock, m.sink)
	m.pairEncoders(cfg.Inputs)

	m.begun = true
}

// Reconfigure tears everything down and re-runs the init path; there is no
// partial reuse. All sink buttons are released first so stale presses cannot
// outlive the configuration that produced them.
func (m *Manager) Reconfigure(cfg Config) {
	for i := 0; i < MaxButtons; i++ {
		m.sink.SetButton(i, false)
	}
	m.Begin(cfg)
}

// Update runs one orchestrator cycle in the fixed order: shift-register
// refresh, debounced button update (direct pins, matrix, shift-register
// bits), matrix raw-pin snapshot, then decoders and the pulse scheduler.
func (m *Manager) Update() {
	if !m.begun {
		return
	}
	nowMs := m.clock.Millis()

	m.refreshShiftRegisters(nowMs)
	m.updatePinGroups(nowMs)
	if m.mat != nil {
		m.mat.scan()
		m.updateCellButtons(nowMs)
	}
	m.updateShiftGroups(nowMs)
	if m.mat != nil {
		m.mat.snapshotRows(m.rawRows)
	}
	m.updateEncoders()

	if m.flush != nil {
		m.flush()
	}
}

func (m *Manager) reset() {
	m.pinGroups = nil
	m.shiftGroups = nil
	m.mat = nil
	m.rowPins = nil
	m.matRows = 0
	m.matCols = 0
	m.cellButtons = nil
	m.srBuf = nil
	m.srDev = nil
	m.srLastMs = 0
	m.encoders = nil
	m.sched = nil
	m.begun = false
}

// ---- wiring resolution ----

// wiring is the load-time view of the hardware pin map: role lists in map
// order, minus any pin claimed by a direct-pin encoder phase (such a pin can
// never double as a matrix line).
type wiring struct {
	rowPins []int
	colPins []int
	load    int
	clock   int
	data    int
	maxPin  int
}

func newWiring(pinMap []types.PinMapEntry, inputs []types.LogicalInput) *wiring {
	w := &wiring{load: -1, clock: -1, data: -1}

	phasePins := map[int]bool{}
	for _, in := range inputs {
		if !in.Behavior.IsEncoderPhase() {
			continue
		}
		if p, ok := in.Source.(types.DirectPin); ok {
			phasePins[p.Pin] = true
		}
	}

	for _, e := range pinMap {
		if e.Pin > w.maxPin {
			w.maxPin = e.Pin
		}
		switch e.Role {
		case types.RoleMatrixRow:
			if !phasePins[e.Pin] {
				w.rowPins = append(w.rowPins, e.Pin)
			}
		case types.RoleMatrixCol:
			if !phasePins[e.Pin] {
				w.colPins = append(w.colPins, e.Pin)
			}
		case types.RoleShiftLoad:
			w.load = e.Pin
		case types.RoleShiftClock:
			w.clock = e.Pin
		case types.RoleShiftData:
			w.data = e.Pin
		}
	}
	return w
}

// ---- init passes ----

func (m *Manager) initShiftRegisters(cfg Config, w *wiring) {
	count := cfg.ShiftRegisters
	used := false
	for _, in := range cfg.Inputs {
		if s, ok := in.Source.(types.ShiftRegisterBit); ok {
			if s.Register < 0 || s.Register >= MaxShiftRegisters {
				continue
			}
			used = true
			if s.Register+1 > count {
				count = s.Register + 1
			}
		}
	}
	// The chain length is a pool like everything else: a runaway register
	// index must not size the buffer or the per-refresh bit-bang.
	count = mathx.Clamp(count, 1, MaxShiftRegisters)
	if !used || w.load < 0 || w.clock < 0 || w.data < 0 {
		return
	}

	load, okL := m.pins.Pin(w.load)
	clk, okC := m.pins.Pin(w.clock)
	data, okD := m.pins.Pin(w.data)
	if !okL || !okC || !okD {
		return
	}
	load.ConfigureOutput(true)
	clk.ConfigureOutput(true)
	data.ConfigureInput(types.PullNone)

	m.srDev = sr165.New(load, clk, data, m.clock, count)
	m.srBuf = make([]byte, count)
	for i := range m.srBuf {
		m.srBuf[i] = 0xFF // all released (active low)
	}
}

// refreshShiftRegisters re-reads the chain on a fixed cadence rather than
// every tick; longer chains get a slower cadence to bound bit-bang time.
func (m *Manager) refreshShiftRegisters(nowMs uint32) {
	if m.srDev == nil {
		return
	}
	interval := uint32(1)
	if m.srDev.Count() > 1 {
		interval = 5
	}
	if timex.After(nowMs, m.srLastMs, interval) {
		m.srDev.Read(m.srBuf)
		m.srLastMs = nowMs
	}
}

func (m *Manager) initPinGroups(inputs []types.LogicalInput) {
	for _, in := range inputs {
		src, ok := in.Source.(types.DirectPin)
		if !ok || in.Behavior.IsEncoderPhase() {
			continue
		}

		var g *pinGroup
		for i := range m.pinGroups {
			if m.pinGroups[i].pin.Number() == src.Pin {
				g = &m.pinGroups[i]
				break
			}
		}
		if g == nil {
			if len(m.pinGroups) >= MaxButtonPinGroups {
				continue
			}
			pin, ok := m.pins.Pin(src.Pin)
			if !ok {
				continue
			}
			pin.ConfigureInput(types.PullUp)
			m.pinGroups = append(m.pinGroups, pinGroup{pin: pin})
			g = &m.pinGroups[len(m.pinGroups)-1]
		}
		if len(g.buttons) >= MaxLogicalPerPin {
			continue
		}

		b := runtimeButton{button: in.Button, behavior: in.Behavior, reverse: in.Reverse}
		// Capture the boot state so a switch already held does not fire a
		// spurious edge on the first tick.
		pressed := !g.pin.Get()
		if b.reverse {
			pressed = !pressed
		}
		b.lastState = pressed
		g.buttons = append(g.buttons, b)
	}

	// Shift-register bits, same model, read from the shared buffer.
	for _, in := range inputs {
		src, ok := in.Source.(types.ShiftRegisterBit)
		if !ok || in.Behavior.IsEncoderPhase() {
			continue
		}
		if src.Register < 0 || src.Register >= MaxShiftRegisters || src.Bit < 0 || src.Bit > 7 {
			continue
		}

		var g *shiftGroup
		for i := range m.shiftGroups {
			if m.shiftGroups[i].register == src.Register && m.shiftGroups[i].bit == src.Bit {
				g = &m.shiftGroups[i]
				break
			}
		}
		if g == nil {
			if len(m.shiftGroups) >= MaxShiftGroups {
				continue
			}
			m.shiftGroups = append(m.shiftGroups, shiftGroup{register: src.Register, bit: src.Bit})
			g = &m.shiftGroups[len(m.shiftGroups)-1]
		}
		if len(g.buttons) >= MaxLogicalPerShiftBit {
			continue
		}
		g.buttons = append(g.buttons, runtimeButton{
			button: in.Button, behavior: in.Behavior, reverse: in.Reverse,
		})
	}
}

func (m *Manager) initMatrix(cfg Config, w *wiring) {
	maxRow, maxCol := -1, -1
	for _, in := range cfg.Inputs {
		if s, ok := in.Source.(types.MatrixPosition); ok {
			maxRow = mathx.Max(maxRow, s.Row)
			maxCol = mathx.Max(maxCol, s.Col)
		}
	}
	if maxRow < 0 {
		return
	}
	rows := mathx.Min(mathx.Min(maxRow+1, MaxMatrixRows), len(w.rowPins))
	cols := mathx.Min(mathx.Min(maxCol+1, MaxMatrixCols), len(w.colPins))
	if rows == 0 || cols == 0 {
		return
	}

	rowHandles := make([]types.Pin, 0, rows)
	colHandles := make([]types.Pin, 0, cols)
	for _, n := range w.rowPins[:rows] {
		if p, ok := m.pins.Pin(n); ok {
			rowHandles = append(rowHandles, p)
		}
	}
	for _, n := range w.colPins[:cols] {
		if p, ok := m.pins.Pin(n); ok {
			colHandles = append(colHandles, p)
		}
	}
	if len(rowHandles) != rows || len(colHandles) != cols {
		return
	}

	m.matRows, m.matCols = rows, cols
	m.rowPins = rowHandles
	m.cellButtons = make([][]runtimeButton, rows*cols)
	for _, in := range cfg.Inputs {
		s, ok := in.Source.(types.MatrixPosition)
		if !ok || in.Behavior.IsEncoderPhase() {
			continue
		}
		if s.Row < 0 || s.Row >= rows || s.Col < 0 || s.Col >= cols {
			continue
		}
		idx := s.Row*cols + s.Col
		if len(m.cellButtons[idx]) >= MaxLogicalPerCell {
			continue
		}
		m.cellButtons[idx] = append(m.cellButtons[idx], runtimeButton{
			button: in.Button, behavior: in.Behavior, reverse: in.Reverse,
		})
	}

	m.mat = newMatrix(rowHandles, colHandles, m.clock, cfg.DebounceMs)
}

// updateCellButtons runs every cell's logical buttons against the debounced
// state each tick, so Momentary pulse timing does not depend on further
// matrix edges.
func (m *Manager) updateCellButtons(nowMs uint32) {
	for r := 0; r < m.matRows; r++ {
		for c := 0; c < m.matCols; c++ {
			idx := r*m.matCols + c
			buttons := m.cellButtons[idx]
			if len(buttons) == 0 {
				continue
			}
			pressed := m.mat.pressed(r, c)
			for j := range buttons {
				buttons[j].process(nowMs, pressed, m.sink)
			}
		}
	}
}
