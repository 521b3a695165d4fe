package core

import "testing"

func TestClockFiresInOrder(t *testing.T) {
	c := NewClock()
	var got []string

	c.Schedule(3, "a", func() { got = append(got, "third") })
	c.Schedule(1, "a", func() { got = append(got, "first") })
	c.Schedule(1, "a", func() { got = append(got, "second") })

	c.Advance(2, nil)
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("after 2 ticks got %v, expected [first second]", got)
	}

	c.Advance(1, nil)
	if len(got) != 3 || got[2] != "third" {
		t.Fatalf("after 3 ticks got %v", got)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", c.Pending())
	}
	if c.Now() != 3 {
		t.Errorf("Now() = %d, expected 3", c.Now())
	}
}

func TestClockCancelToken(t *testing.T) {
	c := NewClock()
	fired := map[Token]int{}

	for i := 1; i <= 3; i++ {
		c.Schedule(i, "old", func() { fired["old"]++ })
	}
	c.Schedule(2, "new", func() { fired["new"]++ })

	if n := c.CancelToken("old"); n != 3 {
		t.Errorf("CancelToken() dropped %d, expected 3", n)
	}

	c.Advance(5, nil)
	if fired["old"] != 0 {
		t.Errorf("cancelled events fired %d times", fired["old"])
	}
	if fired["new"] != 1 {
		t.Errorf("surviving event fired %d times, expected 1", fired["new"])
	}
}

func TestClockCancelSingle(t *testing.T) {
	c := NewClock()
	fired := false
	id := c.Schedule(1, "x", func() { fired = true })

	if !c.Cancel(id) {
		t.Fatal("Cancel() should report true for a pending event")
	}
	if c.Cancel(id) {
		t.Error("Cancel() twice should report false")
	}
	c.Advance(2, nil)
	if fired {
		t.Error("cancelled event fired")
	}
}

func TestClockEachRunsBeforeEvents(t *testing.T) {
	c := NewClock()
	var order []string

	c.Schedule(1, "x", func() { order = append(order, "event") })
	c.Advance(1, func(Tick) { order = append(order, "tick") })

	if len(order) != 2 || order[0] != "tick" || order[1] != "event" {
		t.Errorf("order = %v, expected [tick event]", order)
	}
}

func TestClockScheduleWhileFiring(t *testing.T) {
	c := NewClock()
	count := 0

	c.Schedule(1, "x", func() {
		count++
		c.Schedule(0, "x", func() { count++ })
		c.Schedule(2, "x", func() { count++ })
	})

	c.Advance(1, nil)
	if count != 2 {
		t.Errorf("count after tick 1 = %d, expected 2 (zero-delay event runs same tick)", count)
	}
	c.Advance(2, nil)
	if count != 3 {
		t.Errorf("count after tick 3 = %d, expected 3", count)
	}
}
