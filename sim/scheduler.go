package sim

import (
	"math/rand"
	"sort"
)

// ConfigurationPlanner assigns worker declared-types (and, on its own
// schedule, rebuilds the worker roster) for a Model. Concrete
// implementations live outside this package (ga/planner) to avoid an import
// cycle, since they need *Model.
type ConfigurationPlanner interface {
	BuildWorkers(model *Model)
}

// TaskAllocator assigns idle/eligible workers to tasks (and may route a
// worker into reconstruction). Concrete implementations live in
// ga/taskorder.
type TaskAllocator interface {
	AssignTasks(model *Model)
}

// Collector observes completed steps, e.g. to write a CSV trace. Defined
// here (rather than imported from a collector package) so Model need not
// depend on one.
type Collector interface {
	CollectStep(step int, tasks map[int]*Task) error
}

// Logger is the minimal logging surface Model and Worker depend on.
type Logger interface {
	Warnf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// Space is the bounded rectangle workers and tasks live in.
type Space struct {
	Width, Height float64
}

// Model is the complete simulation state and step function.
type Model struct {
	Space Space

	Depot   *Depot
	Workers map[int]*Worker
	Tasks   map[int]*Task

	FailureModel FailureModel
	RobotTypes   map[string]RobotTypeSpec
	TypePriority map[string]int

	TimeStep            float64
	MaxSteps            int
	ReconstructDuration float64
	HLimit              float64

	PlannerInterval   int
	AllocatorInterval int
	Planner           ConfigurationPlanner
	Allocator         TaskAllocator

	RNG *rand.Rand

	Steps int

	StepCollector Collector
	Logger        Logger
}

// Step advances the simulation by one tick: possibly rebuild the worker
// roster, begin the task accounting window, possibly reassign tasks, step
// every worker in a randomized order, close out the task accounting window,
// then hand the step to the collector.
func (m *Model) Step() {
	if m.Planner != nil && m.PlannerInterval > 0 && m.Steps%m.PlannerInterval == 0 {
		m.Planner.BuildWorkers(m)
	}

	for _, t := range m.Tasks {
		t.BeginStep()
	}

	if m.Allocator != nil && m.AllocatorInterval > 0 && m.Steps%m.AllocatorInterval == 0 {
		m.Allocator.AssignTasks(m)
	}

	for _, id := range m.shuffledWorkerIDs() {
		m.Workers[id].Step(m)
	}

	// Steps are numbered from 1: the step in progress is Steps+1.
	step := m.Steps + 1
	for _, t := range m.Tasks {
		t.EndStep(step)
	}

	if m.StepCollector != nil {
		if err := m.StepCollector.CollectStep(step, m.Tasks); err != nil {
			m.Logger.Warnf("step %d: collector: %v", step, err)
		}
	}

	m.Steps++
}

// shuffledWorkerIDs returns worker ids in a deterministic base order
// (ascending), then permuted by the model's RNG, so worker execution order
// varies run-to-run under a seed without depending on Go's unordered map
// iteration.
func (m *Model) shuffledWorkerIDs() []int {
	ids := make([]int, 0, len(m.Workers))
	for id := range m.Workers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	m.RNG.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}

// AllTasksDone reports whether every task has reached TaskDone.
func (m *Model) AllTasksDone() bool {
	for _, t := range m.Tasks {
		if t.Status != TaskDone {
			return false
		}
	}
	return true
}

// Makespan is the time of the last task completion, or MaxSteps*TimeStep if
// any task never finished.
func (m *Model) Makespan() float64 {
	lastStep := 0
	for _, t := range m.Tasks {
		if t.Status != TaskDone {
			return float64(m.MaxSteps) * m.TimeStep
		}
		if t.FinishedStep > lastStep {
			lastStep = t.FinishedStep
		}
	}
	return float64(lastStep) * m.TimeStep
}

// Run steps the model until every task completes or MaxSteps is reached.
func (m *Model) Run() {
	for !m.AllTasksDone() && m.Steps < m.MaxSteps {
		m.Step()
	}
}
