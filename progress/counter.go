// Package progress provides the thread-safe task counter that aggregates
// batch progress across workers and drives the in-place console display.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/lepinkainen/recompress/console"
)

// TaskCounter accumulates completed work across concurrent workers and
// renders a rate-limited progress panel. Units count whole items (files);
// subunits optionally count finer-grained work (seconds of footage) and,
// when a subunit total is known, drive the remaining-time estimate.
type TaskCounter struct {
	mu  sync.Mutex
	con *console.Console

	interval time.Duration
	subunits bool

	count         int
	subunitsCount float64
	total         int
	subunitsTotal float64

	startTime  time.Time
	lastReport time.Time

	// Remaining-time estimate, memoized on the driving count so fast
	// polling loops don't produce a jittery ETA.
	estimatedOn  float64
	estimateTime string
}

// New creates a counter reporting at most once per interval. When
// subunits is true, every Increment must supply a subunit amount and
// Start must be given a subunit total for the ETA to use it.
func New(interval time.Duration, subunits bool, con *console.Console) *TaskCounter {
	if con == nil {
		con = console.Default()
	}
	return &TaskCounter{
		interval: interval,
		subunits: subunits,
		con:      con,
	}
}

// Start resets all counters and timestamps for a new batch. Call exactly
// once before any Increment. subunitsTotal is ignored unless the counter
// was created in subunit mode.
func (c *TaskCounter) Start(total int, subunitsTotal float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count = 0
	c.subunitsCount = 0
	c.total = total
	c.subunitsTotal = subunitsTotal
	c.startTime = time.Now()
	c.lastReport = c.startTime
	c.estimatedOn = 0
	c.estimateTime = ""
}

// Increment atomically adds completed work. Safe to call from multiple
// workers. Both counters are monotonically non-decreasing; negative
// amounts are ignored.
func (c *TaskCounter) Increment(units int, subunits float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if units > 0 {
		c.count += units
	}
	if c.subunits && subunits > 0 {
		c.subunitsCount += subunits
	}
}

// Progress returns completed units over total units, 0 when the total
// is 0.
func (c *TaskCounter) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *TaskCounter) progressLocked() float64 {
	if c.total == 0 {
		return 0
	}
	return float64(c.count) / float64(c.total)
}

// Count returns the number of completed units.
func (c *TaskCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Report renders the progress panel: the extra lines followed by one
// generated bar line. It is a no-op unless at least the configured
// interval has elapsed since the last actual render, so callers may
// invoke it on every unit of work.
func (c *TaskCounter) Report(barWidth int, extra ...string) {
	c.mu.Lock()

	now := time.Now()
	if now.Sub(c.lastReport) < c.interval {
		c.mu.Unlock()
		return
	}
	c.lastReport = now

	value := c.progressLocked()
	bar := console.ProgressBar(value, barWidth)
	eta := c.timeReportLocked(now)
	line := fmt.Sprintf("[%d/%d] %s %.2f%% %s", c.count, c.total, bar, value*100, eta)

	lines := make([]string, 0, len(extra)+1)
	lines = append(lines, extra...)
	lines = append(lines, line)
	c.mu.Unlock()

	c.con.Render(lines)
}

// timeReportLocked extrapolates the remaining time from throughput so
// far. Subunit counters drive the estimate when subunit mode is on and
// a subunit total was provided; unit counters otherwise.
func (c *TaskCounter) timeReportLocked(now time.Time) string {
	driving := float64(c.count)
	drivingTotal := float64(c.total)
	if c.subunits && c.subunitsTotal > 0 {
		driving = c.subunitsCount
		drivingTotal = c.subunitsTotal
	}

	if driving == 0 {
		return "Estimating time..."
	}

	if driving != c.estimatedOn {
		elapsed := now.Sub(c.startTime).Seconds()
		perTask := elapsed / driving
		remaining := perTask * (drivingTotal - driving)

		c.estimateTime = console.FormatTime(remaining)
		c.estimatedOn = driving
	}

	return c.estimateTime
}
