//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"time"

	"buttonbox-go/types"
)

// rp2Pin adapts machine.Pin to types.Pin. Pin numbers follow Pico/Pico 2 GP
// numbering: pin n maps to machine.Pin(n).
type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull types.Pull) {
	var mode machine.PinMode
	switch pull {
	case types.PullUp:
		mode = machine.PinInputPullup
	case types.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
}

func (r *rp2Pin) ConfigureOutput(initial bool) {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

const rp2MaxPin = 29

// Board exposes the RP2 GPIO bank as a PinSource.
type Board struct{}

func NewBoard() *Board { return &Board{} }

func (*Board) Pin(number int) (types.Pin, bool) {
	if number < 0 || number > rp2MaxPin {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(number), n: number}, true
}

// BootClock counts from package init. Both counters wrap as uint32; the
// engine compares with unsigned subtraction so that is fine.
type BootClock struct {
	start time.Time
}

func NewBootClock() *BootClock { return &BootClock{start: time.Now()} }

func (c *BootClock) Millis() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

func (c *BootClock) Micros() uint32 {
	return uint32(time.Since(c.start) / time.Microsecond)
}

// DelayMicros busy-waits; protocol settle times are too short to sleep.
func (c *BootClock) DelayMicros(us uint32) {
	d := time.Duration(us) * time.Microsecond
	t0 := time.Now()
	for time.Since(t0) < d {
	}
}
