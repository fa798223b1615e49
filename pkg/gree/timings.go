package gree

import "time"

// TimePair is one mark (emitter on) followed by one space (emitter off), in ticks
type TimePair [2]uint32

// Tick is the duration of one timing unit for drivers that want wall time
const Tick = time.Microsecond

var (
	pairZero   = TimePair{632, 527}
	pairOne    = TimePair{632, 1606}
	pairGap    = TimePair{632, 19816} // Between the two words
	pairHeader = TimePair{8948, 4422}
)

// TimingsLen is the number of ticks in every encoded command
const TimingsLen = 2 * (1 + 32 + 4 + 32 + 1)

func bitPair(word uint32, i uint) TimePair {
	if word>>i&1 == 1 {
		return pairOne
	}
	return pairZero
}

// Pairs expands the current frame into mark/space pairs: header, the first
// word, a fixed 0-1-0-gap separator, the second word, then a trailing zero.
// Words go out most significant bit first.
func (c *Controller) Pairs() []TimePair {
	b := c.Bits()
	p := make([]TimePair, 0, TimingsLen/2)

	p = append(p, pairHeader)
	for i := 31; i >= 0; i-- {
		p = append(p, bitPair(b[0], uint(i)))
	}

	p = append(p, pairZero, pairOne, pairZero, pairGap)

	for i := 31; i >= 0; i-- {
		p = append(p, bitPair(b[1], uint(i)))
	}
	p = append(p, pairZero)
	return p
}

// Timings is the flat tick sequence for the current settings, alternating
// mark and space, starting with a mark
func (c *Controller) Timings() []uint32 {
	t := make([]uint32, 0, TimingsLen)
	for _, p := range c.Pairs() {
		t = append(t, p[0], p[1])
	}
	return t
}

// Durations is Timings scaled by tick
func (c *Controller) Durations(tick time.Duration) []time.Duration {
	t := c.Timings()
	d := make([]time.Duration, len(t))
	for i, v := range t {
		d[i] = time.Duration(v) * tick
	}
	return d
}
