package wmediumd

//
// Virtual-time event scheduler
//
// Grounded on heistp-scim/sim.go's Clock type and sorted timer list
// (timer.handleSim's sort.Search insertion), refined into a proper
// container/heap.Interface for O(log n) insert/pop as spec.md §4.1 requires.
//

import (
	"container/heap"
	"sync"
)

// Logger is the logger the simulator uses. Mirrors the teacher's
// netem.Logger shape so callers can plug in apex/log, a test spy, or
// [internal.NullLogger] without this package depending on a concrete
// logging library.
type Logger interface {
	Debugf(format string, v ...any)
	Debug(message string)
	Infof(format string, v ...any)
	Info(message string)
	Warnf(format string, v ...any)
	Warn(message string)
}

// JobFunc is the callback a scheduled [Job] invokes when it becomes due.
// It runs on the scheduler goroutine; it may schedule further jobs, cancel
// others, and mutate any simulator state.
type JobFunc func()

// JobPriority orders jobs that share the same DueNS. Lower values run
// first; jobs with equal DueNS and Priority run in insertion order.
type JobPriority int

const (
	// PriorityDefault is used by jobs with no particular ordering need.
	PriorityDefault JobPriority = 0

	// PriorityTxStart orders TX-start jobs ahead of other same-tick work so
	// TX_START notifications observe a consistent station state.
	PriorityTxStart JobPriority = -10

	// PriorityDelivery orders RX-deliver jobs after TX-start but before
	// completion bookkeeping.
	PriorityDelivery JobPriority = 0

	// PriorityComplete orders TX-complete jobs after delivery so every
	// receiver has already been given a chance to receive the frame.
	PriorityComplete JobPriority = 10

	// PriorityResumeContention orders a deferred medium-busy recheck after
	// every same-tick TX-complete job, so it observes the busy station's
	// window having already cleared rather than racing it (spec.md §4.6
	// step 3).
	PriorityResumeContention JobPriority = 20
)

// Job is a unit of scheduled work. The zero value is invalid; obtain one
// from [Scheduler.Schedule].
type Job struct {
	// DueNS is the virtual time, in nanoseconds, at which Callback runs.
	DueNS int64

	// Priority breaks ties between jobs with equal DueNS.
	Priority JobPriority

	// OwnerTag identifies the station or frame that owns this job, so
	// [Scheduler.CancelOwner] can drop every job belonging to a removed
	// station without the caller tracking individual job handles.
	OwnerTag any

	// Callback runs when the job becomes due. Nil if the job was canceled.
	Callback JobFunc

	// seq is assigned at Schedule time and breaks ties after DueNS and
	// Priority compare equal, giving FIFO insertion order as spec.md §4.1
	// requires.
	seq int64

	// index is maintained by container/heap; -1 once popped or canceled.
	index int
}

// jobHeap implements heap.Interface over *Job.
type jobHeap []*Job

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].DueNS != h[j].DueNS {
		return h[i].DueNS < h[j].DueNS
	}
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *jobHeap) Push(x any) {
	job := x.(*Job)
	job.index = len(*h)
	*h = append(*h, job)
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	job := old[n-1]
	old[n-1] = nil
	job.index = -1
	*h = old[:n-1]
	return job
}

// Scheduler is a deterministic, single-threaded, virtual-time event
// scheduler. All mutation of simulator state must happen from a job's
// Callback (spec.md §4.1, §5). The zero value is ready to use.
type Scheduler struct {
	// mu protects heap and nextSeq. Jobs are only popped and executed from
	// RunUntilIdle on the scheduler goroutine, but Schedule/Cancel may be
	// called from that same goroutine re-entrantly (a callback scheduling
	// further work), so a mutex keeps bookkeeping consistent without
	// requiring callers to reason about reentrancy.
	mu sync.Mutex

	heap jobHeap

	// now is the current virtual time in nanoseconds. Never moves backwards.
	now int64

	nextSeq int64
}

// NewScheduler creates an empty [Scheduler] with virtual time at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.heap)
	return s
}

// Now returns the current virtual time in nanoseconds.
func (s *Scheduler) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Schedule enqueues callback to run at dueNS, breaking ties by priority then
// insertion order. Returns the [Job] so the caller may [Scheduler.Cancel] it
// later.
func (s *Scheduler) Schedule(dueNS int64, priority JobPriority, ownerTag any, callback JobFunc) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := &Job{
		DueNS:    dueNS,
		Priority: priority,
		OwnerTag: ownerTag,
		Callback: callback,
		seq:      s.nextSeq,
	}
	s.nextSeq++
	heap.Push(&s.heap, job)
	return job
}

// Cancel removes job from the schedule. A no-op if job already ran or was
// already canceled.
func (s *Scheduler) Cancel(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.index < 0 || job.index >= len(s.heap) || s.heap[job.index] != job {
		return
	}
	heap.Remove(&s.heap, job.index)
	job.Callback = nil
}

// CancelOwner cancels every pending job whose OwnerTag equals ownerTag,
// comparing with ==. Used when a station is removed mid-backoff (spec.md §5,
// "Cancellation & timeouts").
func (s *Scheduler) CancelOwner(ownerTag any) []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	var canceled []*Job
	var remaining jobHeap
	for _, job := range s.heap {
		if job.OwnerTag == ownerTag {
			job.index = -1
			canceled = append(canceled, job)
			continue
		}
		remaining = append(remaining, job)
	}
	s.heap = remaining
	heap.Init(&s.heap)
	return canceled
}

// Len reports how many jobs are currently pending.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heap.Len()
}

// Step pops and runs the single next-due job, advancing virtual time to its
// DueNS. Returns false if there was no job to run.
func (s *Scheduler) Step() bool {
	s.mu.Lock()
	if s.heap.Len() == 0 {
		s.mu.Unlock()
		return false
	}
	job := heap.Pop(&s.heap).(*Job)
	if job.DueNS > s.now {
		s.now = job.DueNS
	}
	callback := job.Callback
	s.mu.Unlock()

	if callback != nil {
		callback()
	}
	return true
}

// RunUntilIdle steps the scheduler until no jobs remain pending. Callbacks
// may schedule further jobs; RunUntilIdle keeps draining until the queue is
// genuinely empty.
func (s *Scheduler) RunUntilIdle() {
	for s.Step() {
	}
}

// RunUntil steps the scheduler until either the queue is empty or the next
// job's DueNS exceeds limitNS, whichever happens first. The job that would
// cross limitNS is left pending.
func (s *Scheduler) RunUntil(limitNS int64) {
	for {
		s.mu.Lock()
		if s.heap.Len() == 0 {
			s.mu.Unlock()
			return
		}
		if s.heap[0].DueNS > limitNS {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		if !s.Step() {
			return
		}
	}
}
