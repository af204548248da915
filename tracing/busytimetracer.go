package tracing

import (
	"sync"

	"github.com/sarchlab/vtusim/sim"
)

// BusyTimeTracer measures the cycles in which a domain has at least one task
// of interest in flight. Overlapping tasks are counted once.
type BusyTimeTracer struct {
	timeTeller    sim.TimeTeller
	filter        TaskFilter
	lock          sync.Mutex
	inflightTasks map[string]struct{}
	busySince     sim.VTimeInCycle
	busyTime      sim.VTimeInCycle
}

// NewBusyTimeTracer creates a new BusyTimeTracer. A nil filter accepts every
// task.
func NewBusyTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]struct{}),
	}
}

// BusyTime returns the number of busy cycles of the completed busy periods.
func (t *BusyTimeTracer) BusyTime() sim.VTimeInCycle {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.busyTime
}

// TerminateAllTasks closes the current busy period, if any, at the current
// time.
func (t *BusyTimeTracer) TerminateAllTasks() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.inflightTasks) == 0 {
		return
	}

	t.busyTime += t.timeTeller.CurrentTime() - t.busySince
	t.inflightTasks = make(map[string]struct{})
}

// StartTask opens a busy period if the domain was idle.
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.inflightTasks) == 0 {
		t.busySince = t.timeTeller.CurrentTime()
	}

	t.inflightTasks[task.ID] = struct{}{}
}

// StepTask does nothing
func (t *BusyTimeTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask closes the busy period when the last task ends.
func (t *BusyTimeTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.inflightTasks[task.ID]; !ok {
		return
	}

	delete(t.inflightTasks, task.ID)

	if len(t.inflightTasks) == 0 {
		t.busyTime += t.timeTeller.CurrentTime() - t.busySince
	}
}
