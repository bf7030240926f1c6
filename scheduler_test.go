package wmediumd

import (
	"testing"
)

func TestSchedulerOrdersByDueTimeThenPriorityThenInsertion(t *testing.T) {
	s := NewScheduler()
	var order []string

	s.Schedule(200, PriorityDefault, nil, func() { order = append(order, "b@200") })
	s.Schedule(100, PriorityDefault, nil, func() { order = append(order, "a@100") })
	s.Schedule(100, PriorityComplete, nil, func() { order = append(order, "c@100/complete") })
	s.Schedule(100, PriorityTxStart, nil, func() { order = append(order, "d@100/txstart") })

	s.RunUntilIdle()

	want := []string{"d@100/txstart", "a@100", "c@100/complete", "b@200"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("position %d: got %q, want %q (full: %v)", i, order[i], want[i], order)
		}
	}
}

func TestSchedulerNowAdvancesMonotonically(t *testing.T) {
	s := NewScheduler()
	s.Schedule(500, PriorityDefault, nil, func() {})
	s.Step()
	if got := s.Now(); got != 500 {
		t.Fatalf("Now() = %d, want 500", got)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	ran := false
	job := s.Schedule(100, PriorityDefault, nil, func() { ran = true })
	s.Cancel(job)
	s.RunUntilIdle()
	if ran {
		t.Fatal("canceled job ran")
	}
}

func TestSchedulerCancelOwner(t *testing.T) {
	s := NewScheduler()
	owner := "station-1"
	otherOwner := "station-2"
	var ranOwner, ranOther bool
	s.Schedule(100, PriorityDefault, owner, func() { ranOwner = true })
	s.Schedule(100, PriorityDefault, otherOwner, func() { ranOther = true })

	canceled := s.CancelOwner(owner)
	if len(canceled) != 1 {
		t.Fatalf("CancelOwner returned %d jobs, want 1", len(canceled))
	}
	s.RunUntilIdle()
	if ranOwner {
		t.Fatal("owner's job ran after CancelOwner")
	}
	if !ranOther {
		t.Fatal("other owner's job was canceled too")
	}
}

func TestSchedulerRunUntilLeavesFutureJobsPending(t *testing.T) {
	s := NewScheduler()
	ranEarly, ranLate := false, false
	s.Schedule(50, PriorityDefault, nil, func() { ranEarly = true })
	s.Schedule(5000, PriorityDefault, nil, func() { ranLate = true })

	s.RunUntil(100)
	if !ranEarly {
		t.Fatal("job due before the limit did not run")
	}
	if ranLate {
		t.Fatal("job due after the limit ran early")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 pending job", s.Len())
	}
}

func TestSchedulerCallbackCanScheduleFurtherWork(t *testing.T) {
	s := NewScheduler()
	count := 0
	var step func()
	step = func() {
		count++
		if count < 3 {
			s.Schedule(s.Now()+10, PriorityDefault, nil, step)
		}
	}
	s.Schedule(10, PriorityDefault, nil, step)
	s.RunUntilIdle()
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}
