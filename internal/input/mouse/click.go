package mouse

import "time"

// DefaultDoubleClickTime is the maximum delay between the presses of a
// double click.
const DefaultDoubleClickTime = 400 * time.Millisecond

// ClickType represents the type of click detected.
type ClickType uint8

const (
	// ClickNone is returned for events that are not a left press.
	ClickNone ClickType = iota
	// ClickSingle is a single click.
	ClickSingle
	// ClickDouble is a double click.
	ClickDouble
)

// String returns a string representation of the click type.
func (c ClickType) String() string {
	switch c {
	case ClickSingle:
		return "single"
	case ClickDouble:
		return "double"
	default:
		return "none"
	}
}

// ClickCounter detects double clicks from successive left presses.
// It is not safe for concurrent use; it lives on the input goroutine.
type ClickCounter struct {
	maxTime     time.Duration
	maxDistance int

	lastPos   Position
	lastTime  time.Time
	lastCount int
}

// NewClickCounter creates a counter. Presses further apart than maxTime or
// maxDistance cells start a new sequence.
func NewClickCounter(maxTime time.Duration, maxDistance int) *ClickCounter {
	if maxTime <= 0 {
		maxTime = DefaultDoubleClickTime
	}
	return &ClickCounter{
		maxTime:     maxTime,
		maxDistance: maxDistance,
	}
}

// Record classifies ev. A double click resets the sequence, so a third
// press counts as a single click again. Zero timestamps use time.Now.
func (c *ClickCounter) Record(ev Event) ClickType {
	if ev.Action != ActionPress || ev.Button != ButtonLeft {
		return ClickNone
	}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	if c.partOfSequence(ev.Position, ts) {
		c.lastCount++
	} else {
		c.lastCount = 1
	}
	c.lastPos = ev.Position
	c.lastTime = ts

	if c.lastCount >= 2 {
		c.Reset()
		return ClickDouble
	}
	return ClickSingle
}

func (c *ClickCounter) partOfSequence(pos Position, ts time.Time) bool {
	if c.lastCount == 0 || c.lastTime.IsZero() {
		return false
	}

	// Clock skew starts a new sequence.
	elapsed := ts.Sub(c.lastTime)
	if elapsed < 0 || elapsed > c.maxTime {
		return false
	}
	return pos.Distance(c.lastPos) <= c.maxDistance
}

// Reset clears the click sequence.
func (c *ClickCounter) Reset() {
	c.lastCount = 0
	c.lastTime = time.Time{}
	c.lastPos = Position{}
}
