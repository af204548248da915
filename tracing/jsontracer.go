package tracing

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/sarchlab/vtusim/sim"
)

// JSONTracer writes every completed task as one JSON object per line.
type JSONTracer struct {
	timeTeller    sim.TimeTeller
	enc           *json.Encoder
	lock          sync.Mutex
	inflightTasks map[string]Task
	err           error
}

// NewJSONTracer creates a JSONTracer that writes to w.
func NewJSONTracer(timeTeller sim.TimeTeller, w io.Writer) *JSONTracer {
	return &JSONTracer{
		timeTeller:    timeTeller,
		enc:           json.NewEncoder(w),
		inflightTasks: make(map[string]Task),
	}
}

// StartTask records the start of a task
func (t *JSONTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// StepTask records the moment that a task reaches a milestone
func (t *JSONTracer) StepTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	for _, s := range task.Steps {
		s.Time = t.timeTeller.CurrentTime()
		original.Steps = append(original.Steps, s)
	}

	t.inflightTasks[task.ID] = original
}

// EndTask writes the task out.
func (t *JSONTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	delete(t.inflightTasks, task.ID)
	original.EndTime = t.timeTeller.CurrentTime()

	if t.err != nil {
		return
	}

	t.err = t.enc.Encode(original)
}

// Err returns the first write error, if any. Tasks ending after a failed
// write are discarded.
func (t *JSONTracer) Err() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.err
}
