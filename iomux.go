package wmediumd

//
// I/O multiplexing and wall-clock pacing (spec.md §4.1, §5).
//
// The teacher's link.go gave each simulated link its own goroutine reading
// off a channel; spec.md's single-threaded core forbids that shape for
// simulator state, so instead every input source (a netlink socket, a
// control-socket connection, an RPC bridge request) gets its own reader
// goroutine that only ever does I/O, and signals readiness by sending onto
// a small channel the scheduler goroutine polls with reflect.Select. No
// third-party event-loop library appears anywhere in the retrieved pack,
// so this multiplexer is a justified stdlib-only component (see DESIGN.md).
//

import (
	"reflect"
	"time"
)

// ReadinessFunc runs on the multiplexer's goroutine when its source becomes
// ready. It should do a single bounded read and return quickly so other
// sources are not starved.
type ReadinessFunc func()

// IOMux multiplexes any number of readiness channels onto a single
// goroutine, the same one driving the [Scheduler] (spec.md §5: "the
// simulator core is single-threaded").
type IOMux struct {
	cases     []reflect.SelectCase
	callbacks []ReadinessFunc
}

// NewIOMux creates an empty multiplexer.
func NewIOMux() *IOMux {
	return &IOMux{}
}

// Register adds a source: whenever ready becomes receivable, callback runs
// on the multiplexer's goroutine. ready is typically a buffered channel a
// reader goroutine sends an empty struct{} onto after enqueuing work for
// the callback to pick up.
func (m *IOMux) Register(ready <-chan struct{}, callback ReadinessFunc) {
	m.cases = append(m.cases, reflect.SelectCase{
		Dir:  reflect.SelectRecv,
		Chan: reflect.ValueOf(ready),
	})
	m.callbacks = append(m.callbacks, callback)
}

// Poll blocks until either a registered source becomes ready (running its
// callback once and returning true) or timeout elapses (returning false).
// A non-positive timeout disables the timeout branch, blocking forever for
// a ready source; with no sources registered, Poll then returns false at
// once.
func (m *IOMux) Poll(timeout time.Duration) bool {
	cases := m.cases
	timeoutIdx := -1
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutIdx = len(cases)
		cases = append(append([]reflect.SelectCase{}, cases...), reflect.SelectCase{
			Dir:  reflect.SelectRecv,
			Chan: reflect.ValueOf(timer.C),
		})
	}
	if len(cases) == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return false
	}
	chosen, _, _ := reflect.Select(cases)
	if chosen == timeoutIdx {
		return false
	}
	m.callbacks[chosen]()
	return true
}

// Run polls forever, invoking readiness callbacks as sources fire, until
// stop is closed.
func (m *IOMux) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		m.Poll(100 * time.Millisecond)
	}
}

// WallClockDriver paces a [Scheduler] against real time, for running the
// simulator live against a real kernel hwsim driver instead of as a fast
// deterministic batch (spec.md §4.1: "an optional live mode paces virtual
// time to wall-clock time").
type WallClockDriver struct {
	sched *Scheduler
	start time.Time
}

// NewWallClockDriver anchors virtual time zero to the current wall-clock
// time.
func NewWallClockDriver(sched *Scheduler) *WallClockDriver {
	return &WallClockDriver{sched: sched, start: time.Now()}
}

// SleepUntilNextDue blocks until wall-clock time reaches the virtual time
// of the next scheduled job, or returns immediately if the scheduler is
// idle or already past due. Call this between [Scheduler.Step] calls when
// running live.
func (d *WallClockDriver) SleepUntilNextDue() {
	nextDue, ok := d.peekNextDueNS()
	if !ok {
		return
	}
	target := d.start.Add(time.Duration(nextDue))
	if wait := time.Until(target); wait > 0 {
		time.Sleep(wait)
	}
}

func (d *WallClockDriver) peekNextDueNS() (int64, bool) {
	d.sched.mu.Lock()
	defer d.sched.mu.Unlock()
	if d.sched.heap.Len() == 0 {
		return 0, false
	}
	return d.sched.heap[0].DueNS, true
}

// ElapsedNS returns how many nanoseconds of wall-clock time have passed
// since this driver was created.
func (d *WallClockDriver) ElapsedNS() int64 {
	return int64(time.Since(d.start))
}
