package suggest

import (
	"math/rand"
	"sync"
	"time"

	"chewsy/internal/schedule"
)

// Mode is the presentation mode of a suggestion cycle.
type Mode string

const (
	// ModePresenting means a restaurant is on display awaiting a verdict.
	ModePresenting Mode = "presenting"
	// ModeTerminated means the queue ran dry; the next advance restarts.
	ModeTerminated Mode = "terminated"
	// ModeTabulating means the full catalog listing is on display instead
	// of the usual one-at-a-time card.
	ModeTabulating Mode = "tabulating"
)

// Clock reports the current day and clock value. Injected so tests can pin
// the wall clock.
type Clock func() (schedule.Day, schedule.Time)

// SystemClock reads the local wall clock.
func SystemClock() (schedule.Day, schedule.Time) {
	now := time.Now()
	return schedule.DayFromWeekday(now.Weekday()), schedule.Time{Hours: now.Hour(), Minutes: now.Minute()}
}

// Suggestion is the data the presentation layer needs to render the
// current pick.
type Suggestion struct {
	Name  string
	Hours string
}

// Cycle drives one chat's run of shuffled suggestions. All state lives
// here, never in the display layer; a Cycle must not be shared across
// chats.
type Cycle struct {
	mu      sync.Mutex
	catalog []schedule.Restaurant
	clock   Clock
	rng     *rand.Rand
	buffer  int

	queue      []schedule.Restaurant
	state      Mode // ModePresenting or ModeTerminated
	tabulating bool
	current    *Suggestion
	rows       []Row
	updatedAt  time.Time
}

// NewCycle builds a fresh cycle: viable candidates are computed for "now",
// shuffled, and the first suggestion is popped immediately. An empty
// catalog (or a dead hour) lands straight in ModeTerminated.
func NewCycle(catalog []schedule.Restaurant, clock Clock, rng *rand.Rand, buffer int) *Cycle {
	if clock == nil {
		clock = SystemClock
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if buffer <= 0 {
		buffer = schedule.DefaultTravelBuffer
	}
	c := &Cycle{
		catalog: catalog,
		clock:   clock,
		rng:     rng,
		buffer:  buffer,
		state:   ModePresenting,
	}
	c.rebuild()
	c.pop()
	c.updatedAt = time.Now()
	return c
}

// Advance handles the "reject current / show next" signal and returns the
// resulting mode. On an empty queue it terminates; pressed again after
// termination it rebuilds the queue and starts over. There is no separate
// reset signal.
func (c *Cycle) Advance() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updatedAt = time.Now()

	if len(c.queue) == 0 && c.state == ModeTerminated {
		c.rebuild()
	}
	c.pop()
	return c.modeLocked()
}

// ToggleTabulation flips the full-listing view. Entering computes the
// listing for "now"; leaving restores whatever mode was in effect before,
// queue and current suggestion untouched.
func (c *Cycle) ToggleTabulation() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updatedAt = time.Now()

	if c.tabulating {
		c.tabulating = false
		c.rows = nil
		return c.modeLocked()
	}
	day, now := c.clock()
	c.rows = Listing(c.catalog, day, now, c.buffer)
	c.tabulating = true
	return ModeTabulating
}

// Mode returns the current presentation mode.
func (c *Cycle) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modeLocked()
}

// Current returns the suggestion on display, if any.
func (c *Cycle) Current() (Suggestion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Suggestion{}, false
	}
	return *c.current, true
}

// Rows returns the tabulated listing; empty unless tabulating.
func (c *Cycle) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Remaining reports how many candidates are still queued.
func (c *Cycle) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// IsExpired reports whether the cycle has sat idle longer than timeout.
func (c *Cycle) IsExpired(timeout time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.updatedAt) > timeout
}

func (c *Cycle) modeLocked() Mode {
	if c.tabulating {
		return ModeTabulating
	}
	return c.state
}

// rebuild recomputes and reshuffles the viable queue for "now".
func (c *Cycle) rebuild() {
	day, now := c.clock()
	c.queue = Candidates(c.catalog, day, now, c.buffer)
	Shuffle(c.rng, c.queue)
	c.state = ModePresenting
	c.current = nil
}

// pop consumes the tail of the queue into the current suggestion, or
// terminates when there is nothing left to show.
func (c *Cycle) pop() {
	if len(c.queue) == 0 {
		c.state = ModeTerminated
		c.current = nil
		return
	}
	r := c.queue[len(c.queue)-1]
	c.queue = c.queue[:len(c.queue)-1]

	day, _ := c.clock()
	display := ""
	if h := r.HoursOn(day); h != nil {
		display = h.String()
	}
	c.current = &Suggestion{Name: r.Name, Hours: display}
	c.state = ModePresenting
}
