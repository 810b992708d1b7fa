package sim

// TaskStatus is the lifecycle state of a Task.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskInProgress
	TaskDone
)

// Task is a unit of work at a fixed position. Once Status is TaskDone, all
// fields are frozen for the remainder of the run.
type Task struct {
	ID            int
	X, Y          float64
	TotalWork     float64
	RemainingWork float64
	Status        TaskStatus
	FinishedStep  int // -1 until done

	stepWork          float64
	hasWorkerThisStep bool
}

// NewTask builds a task, latching it done immediately if it starts with no
// remaining work.
func NewTask(id int, x, y, total, remaining float64) *Task {
	t := &Task{ID: id, X: x, Y: y, TotalWork: total, RemainingWork: remaining, FinishedStep: -1}
	if t.RemainingWork <= 0 {
		t.RemainingWork = 0
		t.Status = TaskDone
		t.FinishedStep = 0
	}
	return t
}

// BeginStep clears the per-step scratch accumulator.
func (t *Task) BeginStep() {
	t.stepWork = 0
	t.hasWorkerThisStep = false
}

// AddWork accumulates work contributed by a worker this step.
func (t *Task) AddWork(amount float64) {
	if amount <= 0 {
		return
	}
	t.stepWork += amount
	t.hasWorkerThisStep = true
}

// EndStep applies the step's accumulated work and latches completion.
func (t *Task) EndStep(step int) {
	if t.Status == TaskDone {
		return
	}
	t.RemainingWork -= t.stepWork
	if t.RemainingWork <= 0 {
		t.RemainingWork = 0
		t.Status = TaskDone
		t.FinishedStep = step
		return
	}
	if t.hasWorkerThisStep {
		t.Status = TaskInProgress
	} else {
		t.Status = TaskPending
	}
}
