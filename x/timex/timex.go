package timex

// Tick arithmetic over wrapping uint32 counters. The engine's clocks
// (milliseconds and microseconds) both wrap; unsigned subtraction keeps
// elapsed-time comparisons correct across the wrap point.

// After reports whether at least d ticks have passed between since and now.
func After(now, since, d uint32) bool { return now-since >= d }
