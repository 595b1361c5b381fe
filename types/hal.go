package types

// Hardware abstractions consumed by the input engine. Platform backends live
// under platform/ behind build tags; tests use the sim implementations.

// Pull selects the input bias of a GPIO pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is a single GPIO line.
type Pin interface {
	ConfigureInput(pull Pull)
	ConfigureOutput(initial bool)
	Set(level bool)
	Get() bool
	Number() int
}

// PinSource resolves pin numbers to Pin handles. Out-of-range numbers return
// (nil, false); the engine treats that as a no-op input per its error policy.
type PinSource interface {
	Pin(number int) (Pin, bool)
}

// Clock provides the monotonic counters the engine times against. Both
// counters wrap; comparisons must use unsigned subtraction (x/timex).
// DelayMicros is a short busy-wait used for hardware settle times only.
type Clock interface {
	Millis() uint32
	Micros() uint32
	DelayMicros(us uint32)
}

// ButtonSink receives the translated HID button stream. Index is zero-based;
// the engine converts its 1-based configured ids by subtracting one.
// Repeated identical writes are harmless.
type ButtonSink interface {
	SetButton(index int, pressed bool)
}
