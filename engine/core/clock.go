package core

import "time"

type Clock struct {
	startTime time.Time
	lastFrame time.Time
	elapsed   float64
	delta     float64
}

func NewClock() *Clock {
	return &Clock{}
}

// Starts the provided clock. Resets elapsed time and the frame delta.
func (c *Clock) Start() {
	c.startTime = time.Now()
	c.lastFrame = c.startTime
	c.elapsed = 0
	c.delta = 0
}

// Updates the provided clock. Should be called once per frame, just before
// the elapsed time or the frame delta are read. Has no effect on
// non-started clocks.
func (c *Clock) Update() {
	if c.startTime.IsZero() {
		return
	}
	now := time.Now()
	c.delta = now.Sub(c.lastFrame).Seconds()
	c.elapsed = now.Sub(c.startTime).Seconds()
	c.lastFrame = now
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

// Elapsed returns seconds since Start.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Delta returns seconds between the two most recent Update calls.
func (c *Clock) Delta() float64 {
	return c.delta
}
