package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/hillking/richgetricher/internal/common/clock Clock
type Clock interface {
	// Height returns the current block height
	Height() uint64
}

// IntervalClock implements the Clock interface by deriving a block height
// from wall time: one block per Interval since Genesis.
type IntervalClock struct {
	// Genesis is the wall time of block zero
	Genesis time.Time

	// Interval is the duration of a single block
	Interval time.Duration
}

// Height returns the current block height
func (c *IntervalClock) Height() uint64 {
	elapsed := time.Since(c.Genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / c.Interval)
}
