package timing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// epsilon is the tolerance of the epoch comparisons. Instants are stored as
// exact decimals, so it only absorbs round-off of epochs computed in
// floating point by callers.
var epsilon = decimal.New(1, -12)

// A TimeInstant is a point in simulated time. TimeInstants are immutable;
// arithmetic returns new values.
type TimeInstant struct {
	value    decimal.Decimal
	infinite bool
}

// At returns the TimeInstant of the given time.
func At(t float64) TimeInstant {
	if math.IsNaN(t) {
		panic("timing: time cannot be NaN")
	}

	if math.IsInf(t, 1) || t >= math.MaxFloat64 {
		return Infinity()
	}

	if math.IsInf(t, -1) {
		panic("timing: time cannot be negative infinity")
	}

	return TimeInstant{value: decimal.NewFromFloat(t)}
}

// Zero returns the time at which every simulation starts.
func Zero() TimeInstant {
	return TimeInstant{}
}

// Infinity returns a TimeInstant that is later than any finite instant.
func Infinity() TimeInstant {
	return TimeInstant{infinite: true}
}

// IsInfinite tells if the instant is Infinity.
func (t TimeInstant) IsInfinite() bool {
	return t.infinite
}

// Add returns t + other.
func (t TimeInstant) Add(other TimeInstant) TimeInstant {
	if t.infinite || other.infinite {
		return Infinity()
	}

	return TimeInstant{value: t.value.Add(other.value)}
}

// AddFloat returns t + d.
func (t TimeInstant) AddFloat(d float64) TimeInstant {
	return t.Add(At(d))
}

// Sub returns t - other.
func (t TimeInstant) Sub(other TimeInstant) TimeInstant {
	if other.infinite {
		panic("timing: cannot subtract infinity")
	}

	if t.infinite {
		return Infinity()
	}

	return TimeInstant{value: t.value.Sub(other.value)}
}

// Float64 returns the nearest float64 of the instant. Infinity returns
// +Inf.
func (t TimeInstant) Float64() float64 {
	if t.infinite {
		return math.Inf(1)
	}

	return t.value.InexactFloat64()
}

// Cmp compares the two instants exactly. It returns -1 if t is earlier than
// other, 0 if they are the same instant, and 1 if t is later.
func (t TimeInstant) Cmp(other TimeInstant) int {
	switch {
	case t.infinite && other.infinite:
		return 0
	case t.infinite:
		return 1
	case other.infinite:
		return -1
	}

	return t.value.Cmp(other.value)
}

// Before tells if t is strictly earlier than other.
func (t TimeInstant) Before(other TimeInstant) bool {
	return t.Cmp(other) < 0
}

// After tells if t is strictly later than other.
func (t TimeInstant) After(other TimeInstant) bool {
	return t.Cmp(other) > 0
}

// Equal tells if t and other are exactly the same instant.
func (t TimeInstant) Equal(other TimeInstant) bool {
	return t.Cmp(other) == 0
}

// HasReachedEpoch returns true if t >= epoch, within the tolerance.
func (t TimeInstant) HasReachedEpoch(epoch TimeInstant) bool {
	if t.infinite {
		return true
	}

	if epoch.infinite {
		return false
	}

	return t.value.GreaterThanOrEqual(epoch.value.Sub(epsilon))
}

// HasPassedEpoch returns true if t > epoch, beyond the tolerance.
func (t TimeInstant) HasPassedEpoch(epoch TimeInstant) bool {
	if epoch.infinite {
		return false
	}

	if t.infinite {
		return true
	}

	return t.value.GreaterThan(epoch.value.Add(epsilon))
}

// Max returns the later of the two instants.
func Max(a, b TimeInstant) TimeInstant {
	if a.Before(b) {
		return b
	}

	return a
}

// String formats the instant with five decimals.
func (t TimeInstant) String() string {
	if t.infinite {
		return "inf"
	}

	return t.value.StringFixed(5)
}

// GoString makes %#v output readable in test failures.
func (t TimeInstant) GoString() string {
	return fmt.Sprintf("timing.At(%s)", t.String())
}

// TimeTeller can tell the current simulated time.
type TimeTeller interface {
	Now() TimeInstant
}

// A Clock holds the current simulated time. It only moves forward.
type Clock struct {
	now TimeInstant
}

// NewClock creates a clock at time 0.
func NewClock() *Clock {
	return &Clock{now: Zero()}
}

// Now returns the current time.
func (c *Clock) Now() TimeInstant {
	return c.now
}

// AdvanceTo moves the clock to t.
func (c *Clock) AdvanceTo(t TimeInstant) {
	if t.Before(c.now) {
		panic(fmt.Sprintf(
			"timing: clock cannot move backward, from %s to %s", c.now, t))
	}

	c.now = t
}

// AdvanceBy moves the clock forward by delta.
func (c *Clock) AdvanceBy(delta float64) {
	if delta < 0 {
		panic(fmt.Sprintf(
			"timing: clock cannot move backward, delta %f", delta))
	}

	c.now = c.now.AddFloat(delta)
}

// HasReachedEpoch tells if the current time has reached the epoch.
func (c *Clock) HasReachedEpoch(epoch float64) bool {
	return c.now.HasReachedEpoch(At(epoch))
}

// HasPassedEpoch tells if the current time has passed the epoch.
func (c *Clock) HasPassedEpoch(epoch float64) bool {
	return c.now.HasPassedEpoch(At(epoch))
}
