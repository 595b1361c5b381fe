// Package sr165 bit-bangs a daisy chain of 74HC165-class parallel-in,
// serial-out shift registers into a byte buffer. The driver knows nothing
// about what the bits mean; consumers apply the active-low convention
// (a 0 bit is a pressed switch).
package sr165

// Pin is the minimal GPIO surface the driver needs. Pins must already be
// configured by the caller: load and clock as outputs idling high, data as a
// plain input.
type Pin interface {
	Set(level bool)
	Get() bool
}

// Delayer provides the short busy-waits between protocol edges.
type Delayer interface {
	DelayMicros(us uint32)
}

const (
	loadPulseUs  = 2 // parallel-load phase width
	clockPulseUs = 1 // clock phase width
)

// Device reads a chain of count registers.
type Device struct {
	load  Pin // PL, active low
	clock Pin // CP
	data  Pin // Q7 of the first register in the chain
	delay Delayer
	count int
}

// New returns a driver for a chain of count registers.
func New(load, clock, data Pin, delay Delayer, count int) *Device {
	if count < 1 {
		count = 1
	}
	return &Device{load: load, clock: clock, data: data, delay: delay, count: count}
}

// Count returns the configured chain length in registers.
func (d *Device) Count() int { return d.count }

// Read latches the parallel inputs and shifts all 8*count bits into buf,
// least-significant-bit first within each byte. buf must hold Count bytes;
// a short buffer truncates the read to len(buf) registers.
func (d *Device) Read(buf []byte) {
	n := d.count
	if n > len(buf) {
		n = len(buf)
	}

	// Latch: pulse PL low then high.
	d.load.Set(false)
	d.delay.DelayMicros(loadPulseUs)
	d.load.Set(true)
	d.delay.DelayMicros(loadPulseUs)

	for i := 0; i < n; i++ {
		var value byte
		for b := 0; b < 8; b++ {
			if d.data.Get() {
				value |= 1 << b
			}
			d.clock.Set(false)
			d.delay.DelayMicros(clockPulseUs)
			d.clock.Set(true)
			d.delay.DelayMicros(clockPulseUs)
		}
		buf[i] = value
	}
}
