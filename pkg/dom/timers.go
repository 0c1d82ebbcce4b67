package dom

import (
	"sort"
	"time"
)

// The document carries its own timer queue instead of using the runtime
// clock, so transitions run deterministically: the page loop (or a test)
// advances virtual time explicitly and due callbacks fire in order.

type timer struct {
	id  int
	due time.Duration
	fn  func()
}

type timerQueue struct {
	now    time.Duration
	seq    int
	timers []*timer
}

func newTimerQueue() *timerQueue {
	return &timerQueue{}
}

func (q *timerQueue) schedule(delay time.Duration, fn func()) *timer {
	if delay < 0 {
		delay = 0
	}
	q.seq++
	t := &timer{id: q.seq, due: q.now + delay, fn: fn}
	q.timers = append(q.timers, t)
	return t
}

func (q *timerQueue) cancel(t *timer) {
	for i, candidate := range q.timers {
		if candidate == t {
			q.timers = append(q.timers[:i], q.timers[i+1:]...)
			return
		}
	}
}

// advance moves virtual time forward and runs every timer that comes
// due, in (due time, schedule order). Callbacks may schedule further
// timers; those run too if they fall within the window.
func (q *timerQueue) advance(delta time.Duration) {
	target := q.now + delta
	for {
		next := q.pop(target)
		if next == nil {
			break
		}
		q.now = next.due
		next.fn()
	}
	q.now = target
}

func (q *timerQueue) pop(until time.Duration) *timer {
	sort.SliceStable(q.timers, func(i, j int) bool {
		if q.timers[i].due != q.timers[j].due {
			return q.timers[i].due < q.timers[j].due
		}
		return q.timers[i].id < q.timers[j].id
	})
	if len(q.timers) == 0 || q.timers[0].due > until {
		return nil
	}
	t := q.timers[0]
	q.timers = q.timers[1:]
	return t
}

// Advance moves the document's virtual clock forward, firing any timers
// (fade completions and the like) that come due.
func (d *Document) Advance(delta time.Duration) {
	d.timers.advance(delta)
}

// FlushTimers runs every pending timer regardless of due time.
func (d *Document) FlushTimers() {
	for len(d.timers.timers) > 0 {
		t := d.timers.pop(1<<62 - 1)
		if t == nil {
			break
		}
		d.timers.now = t.due
		t.fn()
	}
}

// PendingTimers reports how many timers are waiting to fire.
func (d *Document) PendingTimers() int { return len(d.timers.timers) }
