// Package timeline is a single-threaded scheduler of delayed tasks driven
// by an explicit clock. The owner advances time; due tasks run on the
// caller's goroutine in due order, so chained delays keep their ordering
// no matter how coarse the ticks are.
package timeline

import (
	"sort"
	"time"
)

type task struct {
	due time.Duration
	seq uint64
	fn  func()
}

// Timeline holds pending tasks. The zero value is ready to use.
// It is not safe for concurrent use.
type Timeline struct {
	now   time.Duration
	seq   uint64
	tasks []task
}

// Now returns the time elapsed since the timeline started.
func (t *Timeline) Now() time.Duration {
	return t.now
}

// After schedules fn to run once d has elapsed from Now.
// Tasks with the same due time run in the order they were scheduled.
func (t *Timeline) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	t.seq++
	t.tasks = append(t.tasks, task{due: t.now + d, seq: t.seq, fn: fn})
}

// Advance moves the clock forward by d and runs every task that became due,
// including tasks scheduled by those tasks if they are due as well.
// Returns the number of tasks run.
func (t *Timeline) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := t.now + d
	fired := 0

	for {
		next, ok := t.popDue(target)
		if !ok {
			break
		}
		t.now = next.due
		next.fn()
		fired++
	}

	t.now = target
	return fired
}

// popDue removes and returns the earliest task due at or before target.
func (t *Timeline) popDue(target time.Duration) (task, bool) {
	if len(t.tasks) == 0 {
		return task{}, false
	}
	sort.Slice(t.tasks, func(i, j int) bool {
		if t.tasks[i].due != t.tasks[j].due {
			return t.tasks[i].due < t.tasks[j].due
		}
		return t.tasks[i].seq < t.tasks[j].seq
	})
	if t.tasks[0].due > target {
		return task{}, false
	}
	next := t.tasks[0]
	t.tasks = t.tasks[1:]
	return next, true
}

// Cancel drops all pending tasks. The clock keeps its value.
func (t *Timeline) Cancel() {
	t.tasks = nil
}

// Pending returns the number of tasks not yet run.
func (t *Timeline) Pending() int {
	return len(t.tasks)
}
