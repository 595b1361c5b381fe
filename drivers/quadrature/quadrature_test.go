package quadrature

import "testing"

// phasePlayer feeds a scripted sequence of (a,b) samples to a decoder.
type phasePlayer struct {
	seq []uint8 // phase codes, a = bit 0, b = bit 1
	pos int
}

func (p *phasePlayer) a() bool { return p.cur()&1 != 0 }
func (p *phasePlayer) b() bool { return p.cur()&2 != 0 }

func (p *phasePlayer) cur() uint8 {
	if p.pos >= len(p.seq) {
		return p.seq[len(p.seq)-1]
	}
	return p.seq[p.pos]
}

func (p *phasePlayer) advance() { p.pos++ }

// cw is one clockwise detent starting from the 11 rest state.
var cw = []uint8{3, 1, 0, 2, 3}

// ccw is the same detent walked backwards.
var ccw = []uint8{3, 2, 0, 1, 3}

func play(t *testing.T, d *Decoder, p *phasePlayer) {
	t.Helper()
	for p.pos < len(p.seq) {
		d.Tick()
		p.advance()
	}
}

func TestFour3OneDetentClockwise(t *testing.T) {
	p := &phasePlayer{seq: cw}
	d := New(p.a, p.b, Four3)
	play(t, d, p)
	if got := d.Position(); got != 1 {
		t.Fatalf("Position() = %d, want 1", got)
	}
}

func TestFour3OneDetentCounterClockwise(t *testing.T) {
	p := &phasePlayer{seq: ccw}
	d := New(p.a, p.b, Four3)
	play(t, d, p)
	if got := d.Position(); got != -1 {
		t.Fatalf("Position() = %d, want -1", got)
	}
}

func TestFour3HalfTurnDoesNotLatch(t *testing.T) {
	// Leave the detent but come back without reaching the far rest state.
	p := &phasePlayer{seq: []uint8{3, 1, 0, 1, 3}}
	d := New(p.a, p.b, Four3)
	play(t, d, p)
	if got := d.Position(); got != 0 {
		t.Fatalf("Position() = %d, want 0 after aborted turn", got)
	}
}

func TestFour0LatchesAtZero(t *testing.T) {
	// Starting at rest code 0, a full cycle back to 0 is one detent.
	p := &phasePlayer{seq: []uint8{0, 2, 3, 1, 0}}
	d := New(p.a, p.b, Four0)
	play(t, d, p)
	if got := d.Position(); got != 1 {
		t.Fatalf("Position() = %d, want 1", got)
	}
}

func TestTwo03TwoDetentsPerCycle(t *testing.T) {
	p := &phasePlayer{seq: cw}
	d := New(p.a, p.b, Two03)
	play(t, d, p)
	if got := d.Position(); got != 2 {
		t.Fatalf("Position() = %d, want 2", got)
	}
}

func TestRepeatedSampleIsStable(t *testing.T) {
	p := &phasePlayer{seq: []uint8{3, 3, 3, 3}}
	d := New(p.a, p.b, Four3)
	play(t, d, p)
	if got := d.Position(); got != 0 {
		t.Fatalf("Position() = %d, want 0 with no phase change", got)
	}
}

func TestSetPositionRebases(t *testing.T) {
	p := &phasePlayer{seq: cw}
	d := New(p.a, p.b, Four3)
	play(t, d, p)
	d.SetPosition(10)
	if got := d.Position(); got != 10 {
		t.Fatalf("Position() = %d, want 10", got)
	}

	// Another detent continues from the rebased value.
	p.seq = append(p.seq, 1, 0, 2, 3)
	play(t, d, p)
	if got := d.Position(); got != 11 {
		t.Fatalf("Position() = %d, want 11 after rebase + detent", got)
	}
}

func TestMultipleDetents(t *testing.T) {
	seq := []uint8{3}
	for i := 0; i < 5; i++ {
		seq = append(seq, 1, 0, 2, 3)
	}
	p := &phasePlayer{seq: seq}
	d := New(p.a, p.b, Four3)
	play(t, d, p)
	if got := d.Position(); got != 5 {
		t.Fatalf("Position() = %d, want 5", got)
	}
}

// edgePlayer drives an EdgeDecoder and accumulates its steps.
func playEdge(e *EdgeDecoder, p *phasePlayer) int {
	total := 0
	for p.pos < len(p.seq) {
		total += int(e.Tick())
		p.advance()
	}
	return total
}

func TestEdgeDecoderClockwise(t *testing.T) {
	// Detent exit 11 -> a drops, b stays high: edge code 3 -> 1, one
	// clockwise step.
	p := &phasePlayer{seq: []uint8{3, 2, 0, 1, 3}}
	e := NewEdge(p.a, p.b)
	if got := playEdge(e, p); got != 1 {
		t.Fatalf("steps = %d, want 1", got)
	}
}

func TestEdgeDecoderCounterClockwise(t *testing.T) {
	// Detent exit 11 -> b drops, a stays high: edge code 3 -> 2.
	p := &phasePlayer{seq: []uint8{3, 1, 0, 2, 3}}
	e := NewEdge(p.a, p.b)
	if got := playEdge(e, p); got != -1 {
		t.Fatalf("steps = %d, want -1", got)
	}
}

func TestEdgeDecoderIgnoresMidCycleNoise(t *testing.T) {
	// Transitions that do not leave the 11 rest state produce no steps.
	p := &phasePlayer{seq: []uint8{0, 1, 2, 0, 2, 1, 0}}
	e := NewEdge(p.a, p.b)
	if got := playEdge(e, p); got != 0 {
		t.Fatalf("steps = %d, want 0", got)
	}
}
