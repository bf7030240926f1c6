package wmediumd

//
// Frame pipeline: ties the scheduler, registry, link matrix, and per-AC
// queues together into the TX-start / propagate / TX-complete sequence
// (spec.md §4.4, §4.6).
//
// Grounded on the teacher's linkfwdcore.go "choose a forwarder, then run
// its Forward" shape, generalized from a single deterministic forward
// decision into the full contend-transmit-ack-or-retry cycle a real medium
// requires. Delivery and status reporting are expressed as callbacks so
// this package has no dependency on the netlink or controlsocket wire
// formats (spec.md §1: wire formats are an external collaborator's
// concern).
//

import (
	"math/rand"
)

// DeliverFunc is invoked once per receiving station for each frame that
// reaches it: the destination of a unicast frame that survives its PER
// draw, or each in-range station for a broadcast/multicast frame.
type DeliverFunc func(dest *Station, frame *Frame)

// TxStartFunc is invoked when a frame begins its on-air attempt, for
// clients subscribed with [NotifyTxStart].
type TxStartFunc func(frame *Frame)

// TxCompleteFunc is invoked exactly once per frame with its final status
// (spec.md §3 invariant: "exactly one TX-status is produced per
// originating frame").
type TxCompleteFunc func(frame *Frame, status TxStatus)

// Pipeline drives frames through contention, propagation, and completion.
// It must only be touched from the scheduler goroutine (spec.md §5).
type Pipeline struct {
	Scheduler *Scheduler
	Registry  *Registry
	PER       *PERTable
	rng       *rand.Rand
	log       Logger

	// busyUntil tracks, per transmitting station index, the virtual time
	// its current on-air window ends. A station present here is actively
	// transmitting, for medium-busy (CCA) detection (spec.md §4.6 step 3).
	busyUntil map[int]int64

	OnDeliver    DeliverFunc
	OnTxStart    TxStartFunc
	OnTxComplete TxCompleteFunc
}

// NewPipeline wires a Pipeline over an existing scheduler, registry, and
// PER table. Callbacks may be left nil if the caller does not need that
// notification.
func NewPipeline(sched *Scheduler, reg *Registry, per *PERTable, rng *rand.Rand, log Logger) *Pipeline {
	if log == nil {
		log = noopLogger{}
	}
	return &Pipeline{
		Scheduler: sched,
		Registry:  reg,
		PER:       per,
		rng:       rng,
		log:       log,
		busyUntil: map[int]int64{},
	}
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Debug(string)          {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Info(string)           {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Warn(string)           {}

// Admit enqueues frame onto its source station's per-AC queue and, if the
// queue was idle, begins contention for it (spec.md §4.6 step 1: "a newly
// admitted frame joins the back of its AC's FIFO").
func (p *Pipeline) Admit(frame *Frame) error {
	src, ok := p.Registry.FindByHW(frame.SrcAddr)
	if !ok {
		return errUnknownSource(frame.SrcAddr)
	}
	q := src.Queue(frame.AC)
	if !q.Enqueue(frame) {
		p.log.Warnf("wmediumd: queue full, dropping frame from %s AC %s", frame.SrcAddr, frame.AC)
		return errQueueFullf(frame.SrcAddr, frame.AC)
	}
	if q.TxInFlight() == nil {
		p.armContention(src, q)
	}
	return nil
}

// armContention draws a backoff and schedules the next queued frame's
// TX-start job, if one is waiting and none is already in flight (spec.md
// §4.6 steps 1-2).
func (p *Pipeline) armContention(st *Station, q *Queue) {
	if q.Head() == nil || q.TxInFlight() != nil {
		return
	}
	slots := q.DrawBackoffSlots(p.rng)
	delay := q.BackoffNanos(slots)
	frame := q.PopHead()
	q.SetTxInFlight(frame) // reserve so a second Admit doesn't double-arm
	p.scheduleContendedStart(st, q, frame, delay)
}

// scheduleContendedStart arms frame's TX-start job to fire after delay, but
// defers it whenever another in-range station is already on-air at the
// moment it would otherwise fire: the backoff counter freezes until that
// station's TX window ends, then resumes (spec.md §4.6 step 3: "Medium-busy
// detection: if any other station's current TX window overlaps the
// intended start, the backoff counter freezes until the busy period ends,
// then resumes").
func (p *Pipeline) scheduleContendedStart(st *Station, q *Queue, frame *Frame, delay int64) {
	due := p.Scheduler.Now() + delay
	frame.txStartJob = p.Scheduler.Schedule(due, PriorityTxStart, st, func() {
		if busyUntil, busy := p.mediumBusyFor(st); busy {
			frame.txStartJob = p.Scheduler.Schedule(busyUntil, PriorityResumeContention, st, func() {
				p.scheduleContendedStart(st, q, frame, 0)
			})
			return
		}
		p.beginTransmit(st, q, frame)
	})
}

// mediumBusyFor reports whether the medium is currently busy from st's
// point of view: some other station is on-air and within CCA range, as
// determined by the signal st would receive from it (spec.md §4.2's
// ccaThresholdDBm, §4.6 step 3). Returns the latest time any such
// overlapping transmission ends.
func (p *Pipeline) mediumBusyFor(st *Station) (busyUntil int64, busy bool) {
	if len(p.busyUntil) == 0 {
		return 0, false
	}
	now := p.Scheduler.Now()
	stations := p.Registry.Raw()
	for idx, end := range p.busyUntil {
		if idx == st.Index || end <= now {
			continue
		}
		if !p.Registry.Links.InRange(stations, idx, st.Index) {
			continue
		}
		if end > busyUntil {
			busyUntil = end
		}
		busy = true
	}
	return busyUntil, busy
}

// beginTransmit marks frame on-air, fires TX-start notifications, and
// schedules its completion after the airtime its current retry step
// requires (spec.md §4.6 step 3).
func (p *Pipeline) beginTransmit(st *Station, q *Queue, frame *Frame) {
	if p.OnTxStart != nil {
		p.OnTxStart(frame)
	}
	step := frame.CurrentRetryStep()
	rate := RateByIndex(st.RateSet, step.RateIndex)
	airtime := Airtime(rate, len(frame.Raw), frame.Frequency)
	due := p.Scheduler.Now() + int64(airtime)
	p.busyUntil[st.Index] = due
	frame.completeJob = p.Scheduler.Schedule(due, PriorityComplete, st, func() {
		p.completeTransmit(st, q, frame)
	})
}

// completeTransmit resolves one on-air attempt and either finishes the frame
// or re-arms a retry (spec.md §4.6 steps 4-6). A broadcast/multicast frame
// is delivered to every station in range. A unicast frame is judged and
// delivered against its intended destination only; other in-range stations
// do not receive it.
func (p *Pipeline) completeTransmit(st *Station, q *Queue, frame *Frame) {
	delete(p.busyUntil, st.Index)
	stations := p.Registry.Raw()

	if frame.NoAck {
		p.deliverBroadcast(st, frame, stations)
		p.finish(st, q, frame, TxStatus{Acked: true, RetryCount: 0, FinalRateIdx: frame.CurrentRetryStep().RateIndex})
		return
	}

	dest, ok := p.Registry.FindByAnyMAC(frame.DestAddr())
	if !ok {
		p.retryOrFail(st, q, frame)
		return
	}
	if !p.Registry.Links.InRange(stations, st.Index, dest.Index) {
		p.retryOrFail(st, q, frame)
		return
	}
	step := frame.CurrentRetryStep()
	signal := p.Registry.Links.SignalDBm(stations, st.Index, dest.Index)
	if p.PER.Corrupted(signal, step.RateIndex, p.rng) {
		p.retryOrFail(st, q, frame)
		return
	}

	if frame.MarkDelivered(dest.HWAddr) && p.OnDeliver != nil {
		p.OnDeliver(dest, frame)
	}
	q.OnSuccess()
	p.finish(st, q, frame, TxStatus{Acked: true, RetryCount: frame.totalAttempts, FinalRateIdx: step.RateIndex})
}

// deliverBroadcast hands a broadcast/multicast frame to every station
// within CCA range of the transmitter (spec.md §4.4: "broadcast/multicast
// frames bypass ACK bookkeeping" but are still delivered to every in-range
// receiver).
func (p *Pipeline) deliverBroadcast(st *Station, frame *Frame, stations []*Station) {
	if p.OnDeliver == nil {
		return
	}
	for _, other := range stations {
		if other == nil || other.Index == st.Index {
			continue
		}
		if !p.Registry.Links.InRange(stations, st.Index, other.Index) {
			continue
		}
		if frame.MarkDelivered(other.HWAddr) {
			p.OnDeliver(other, frame)
		}
	}
}

// retryOrFail advances frame's rate-fallback schedule. If steps remain, it
// doubles the contention window and re-arms a fresh backoff for the same
// frame; otherwise the frame fails permanently (spec.md §4.6 step 6:
// "retry exhaustion fails the frame").
func (p *Pipeline) retryOrFail(st *Station, q *Queue, frame *Frame) {
	q.OnFailure()
	if frame.Advance() {
		slots := q.DrawBackoffSlots(p.rng)
		delay := q.BackoffNanos(slots)
		p.scheduleContendedStart(st, q, frame, delay)
		return
	}
	step := frame.CurrentRetryStep()
	p.finish(st, q, frame, TxStatus{Acked: false, RetryCount: frame.totalAttempts, FinalRateIdx: step.RateIndex})
}

// finish reports frame's final status exactly once, clears it from
// in-flight, and arms contention for whatever is now at the head of q.
func (p *Pipeline) finish(st *Station, q *Queue, frame *Frame, status TxStatus) {
	q.ClearTxInFlight()
	if p.OnTxComplete != nil {
		p.OnTxComplete(frame, status)
	}
	p.armContention(st, q)
}

// RemoveStation cancels every job owned by st (pending backoffs and
// in-flight completions) and drains its queues, returning the frames that
// were abandoned so their originating clients can be failed out (spec.md
// §5, §8 scenario 4: "station removal mid-transmission").
func (p *Pipeline) RemoveStation(st *Station) []*Frame {
	p.Scheduler.CancelOwner(st)
	delete(p.busyUntil, st.Index)
	var abandoned []*Frame
	for ac := AccessCategory(0); int(ac) < numAccessCategories; ac++ {
		abandoned = append(abandoned, st.Queue(ac).RemoveAll()...)
	}
	return abandoned
}

type errUnknownSource MACAddr

func (e errUnknownSource) Error() string {
	return "wmediumd: frame source " + MACAddr(e).String() + " is not a registered station"
}

type errQueueFull struct {
	addr MACAddr
	ac   AccessCategory
}

func errQueueFullf(addr MACAddr, ac AccessCategory) error { return errQueueFull{addr, ac} }

func (e errQueueFull) Error() string {
	return "wmediumd: queue full for " + e.addr.String() + " AC " + e.ac.String()
}
