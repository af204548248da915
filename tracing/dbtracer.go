package tracing

import (
	"strings"
	"sync"

	"github.com/sarchlab/vtusim/datarecording"
	"github.com/sarchlab/vtusim/sim"
	"github.com/tebeka/atexit"
)

// TaskTable is the table the DBTracer writes to.
const TaskTable = "trace"

// TaskEntry is the row stored for a completed task. Steps lists the step
// names separated by commas.
type TaskEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime uint64
	EndTime   uint64
	Steps     string
}

// DBTracer is a tracer that can store tasks into a database.
type DBTracer struct {
	lock       sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime sim.VTimeInCycle
	hasRange           bool

	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer and its table.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(TaskTable, TaskEntry{})

	t := &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits the recorded tasks to those overlapping [start, end].
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInCycle) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.startTime = startTime
	t.endTime = endTime
	t.hasRange = true
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	startingTaskMustBeValid(task)

	task.StartTime = t.timeTeller.CurrentTime()
	if t.hasRange && task.StartTime > t.endTime {
		return
	}

	task.Steps = nil
	t.tracingTasks[task.ID] = task
}

func startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task location must be set")
	}
}

// StepTask records the step names of a task.
func (t *DBTracer) StepTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	original.Steps = append(original.Steps, task.Steps...)
	t.tracingTasks[task.ID] = original
}

// EndTask marks the end of a task and writes it.
func (t *DBTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	original.EndTime = t.timeTeller.CurrentTime()
	if t.hasRange && original.EndTime < t.startTime {
		return
	}

	t.backend.InsertData(TaskTable, newTaskEntry(original))
}

func newTaskEntry(task Task) TaskEntry {
	steps := make([]string, 0, len(task.Steps))
	for _, s := range task.Steps {
		steps = append(steps, s.What)
	}

	return TaskEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Where,
		StartTime: uint64(task.StartTime),
		EndTime:   uint64(task.EndTime),
		Steps:     strings.Join(steps, ","),
	}
}

// Terminate drops the unfinished tasks and flushes the backend.
func (t *DBTracer) Terminate() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.tracingTasks = make(map[string]Task)
	t.backend.Flush()
}
