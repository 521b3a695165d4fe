package core

import "sort"

// Tick is a position on the logical clock.
type Tick uint64

// Token ties scheduled events to their owner (a session id). Cancelling a
// token drops every event scheduled under it.
type Token string

// EventID identifies a single scheduled event.
type EventID uint64

type event struct {
	id    EventID
	at    Tick
	token Token
	fn    func()
}

// Clock is a deterministic logical clock advanced in discrete ticks.
// It replaces wall-clock timers so delays, playback and timeouts can be driven
// and tested tick by tick. Clock is not safe for concurrent use; its owner
// serializes access.
type Clock struct {
	now    Tick
	nextID EventID
	events []event // sorted by (at, id)
}

// NewClock creates a clock at tick 0 with no pending events.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current tick.
func (c *Clock) Now() Tick {
	return c.now
}

// Schedule registers fn to run after the given number of ticks.
// A non-positive delay fires on the next processed tick.
func (c *Clock) Schedule(after int, token Token, fn func()) EventID {
	if after < 0 {
		after = 0
	}
	c.nextID++
	ev := event{id: c.nextID, at: c.now + Tick(after), token: token, fn: fn}

	i := sort.Search(len(c.events), func(i int) bool {
		e := c.events[i]
		return e.at > ev.at || (e.at == ev.at && e.id > ev.id)
	})
	c.events = append(c.events, event{})
	copy(c.events[i+1:], c.events[i:])
	c.events[i] = ev
	return ev.id
}

// Cancel removes a single event. Returns false if it already fired or was
// cancelled.
func (c *Clock) Cancel(id EventID) bool {
	for i, e := range c.events {
		if e.id == id {
			c.events = append(c.events[:i], c.events[i+1:]...)
			return true
		}
	}
	return false
}

// CancelToken removes every pending event scheduled under token and returns
// how many were dropped.
func (c *Clock) CancelToken(token Token) int {
	kept := c.events[:0]
	dropped := 0
	for _, e := range c.events {
		if e.token == token {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	// Clear the tail so dropped closures can be collected.
	for i := len(kept); i < len(c.events); i++ {
		c.events[i] = event{}
	}
	c.events = kept
	return dropped
}

// Pending returns the number of scheduled events.
func (c *Clock) Pending() int {
	return len(c.events)
}

// Advance moves the clock forward tick by tick. For each tick, each (if
// non-nil) runs first, then every event due at or before the tick fires in
// scheduling order. Events scheduled while firing run in the same tick when
// already due.
func (c *Clock) Advance(ticks int, each func(Tick)) {
	for n := 0; n < ticks; n++ {
		c.now++
		if each != nil {
			each(c.now)
		}
		c.fireDue()
	}
}

func (c *Clock) fireDue() {
	for len(c.events) > 0 && c.events[0].at <= c.now {
		ev := c.events[0]
		c.events[0] = event{}
		c.events = c.events[1:]
		ev.fn()
	}
}
