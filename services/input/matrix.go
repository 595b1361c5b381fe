package input

import (
	"buttonbox-go/types"
	"buttonbox-go/x/timex"
)

// cellState is the discriminated per-cell output of a matrix scan.
type cellState uint8

const (
	cellIdle cellState = iota
	cellPressed
	cellHeld
	cellReleased
)

const (
	defaultDebounceMs = 20
	settleDelayUs     = 10
)

// matrix scans a row/column grid with one GPIO per row and per column.
// Columns are driven low one at a time; rows are read with pullups, so a low
// row means the intersection with the active column is closed.
//
// Each cell debounces independently: a transition is accepted only once it
// has persisted past the debounce window, and repeated identical raw reads do
// not reset the timer. Alongside the debounced states the scanner keeps the
// raw (undebounced) read of every cell, from which consumers derive an
// instantaneous row-pin snapshot for encoder phase sampling.
type matrix struct {
	rows []types.Pin
	cols []types.Pin

	clock      types.Clock
	debounceMs uint32

	accepted []bool      // last accepted (debounced) state per cell
	raw      []bool      // last raw read per cell
	changeAt []uint32    // ms of last accepted change per cell
	state    []cellState // discriminated state per cell
	changed  []bool      // state changed this scan
}

func newMatrix(rows, cols []types.Pin, clock types.Clock, debounceMs uint32) *matrix {
	if debounceMs == 0 {
		debounceMs = defaultDebounceMs
	}
	total := len(rows) * len(cols)
	m := &matrix{
		rows:       rows,
		cols:       cols,
		clock:      clock,
		debounceMs: debounceMs,
		accepted:   make([]bool, total),
		raw:        make([]bool, total),
		changeAt:   make([]uint32, total),
		state:      make([]cellState, total),
		changed:    make([]bool, total),
	}
	for _, p := range rows {
		p.ConfigureInput(types.PullUp)
	}
	for _, p := range cols {
		p.ConfigureInput(types.PullUp)
	}
	now := clock.Millis()
	for i := range m.changeAt {
		m.changeAt[i] = now
	}
	return m
}

func (m *matrix) cellIndex(row, col int) int { return row*len(m.cols) + col }

// scan performs one full column pass and returns true if any cell's
// discriminated state changed.
func (m *matrix) scan() bool {
	now := m.clock.Millis()
	any := false
	for i := range m.changed {
		m.changed[i] = false
	}

	for c := range m.cols {
		// Drive the active column low; all others stay high-impedance
		// pulled up so only this column's intersections read back.
		m.cols[c].ConfigureOutput(false)
		for other := range m.cols {
			if other != c {
				m.cols[other].ConfigureInput(types.PullUp)
			}
		}
		m.clock.DelayMicros(settleDelayUs)

		for r := range m.rows {
			idx := m.cellIndex(r, c)
			pressed := !m.rows[r].Get()
			m.raw[idx] = pressed

			if pressed != m.accepted[idx] && timex.After(now, m.changeAt[idx], m.debounceMs) {
				m.accepted[idx] = pressed
				m.changeAt[idx] = now
				m.changed[idx] = true
				if pressed {
					m.state[idx] = cellPressed
				} else {
					m.state[idx] = cellReleased
				}
				any = true
				continue
			}

			// No accepted change. A pressed cell keeps reporting held;
			// a released cell settles back to idle.
			if m.accepted[idx] {
				m.state[idx] = cellHeld
			} else if m.state[idx] == cellReleased {
				m.state[idx] = cellIdle
			}
		}
	}

	// Park every column back at pulled-up input.
	for c := range m.cols {
		m.cols[c].ConfigureInput(types.PullUp)
	}
	return any
}

// pressed reports the debounced state of a cell.
func (m *matrix) pressed(row, col int) bool {
	return m.accepted[m.cellIndex(row, col)]
}

// snapshotRows writes the best-effort instantaneous level of every row pin
// into dst, indexed by pin number: true (high) unless some cell on that row
// read low in the last pass, debounce state ignored. Used only by the
// quadrature decoders.
func (m *matrix) snapshotRows(dst []bool) {
	for i := range dst {
		dst[i] = true
	}
	for r := range m.rows {
		n := m.rows[r].Number()
		if n < 0 || n >= len(dst) {
			continue
		}
		for c := range m.cols {
			if m.raw[m.cellIndex(r, c)] {
				dst[n] = false
				break
			}
		}
	}
}
