// Package collector writes CSV traces of a simulation run: per-step task
// progress, and per-planning-event Pareto fronts and chosen configurations.
package collector

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"fleetsim/sim"
)

// StepCollector appends one row per task per step to a tasks.csv file. It
// implements sim.Collector.
type StepCollector struct {
	f      *os.File
	w      *csv.Writer
	rowNum int
}

var taskCSVHeader = []string{"step", "task_id", "remaining_work", "total_work", "progress", "status", "finished_step"}

// NewStepCollector opens (truncating) "<scenarioName>_<prefix>_tasks.csv"
// under outDir, writing the header immediately.
func NewStepCollector(outDir, scenarioName, prefix string) (*StepCollector, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("collector: creating output dir: %w", err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s_%s_tasks.csv", scenarioName, prefix))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("collector: creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(taskCSVHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("collector: writing header: %w", err)
	}
	return &StepCollector{f: f, w: w}, nil
}

func statusString(s sim.TaskStatus) string {
	switch s {
	case sim.TaskPending:
		return "pending"
	case sim.TaskInProgress:
		return "in_progress"
	case sim.TaskDone:
		return "done"
	default:
		return "unknown"
	}
}

// CollectStep implements sim.Collector, appending one row per task and
// flushing after every call (flush_every=1 in the teacher's terms: safety
// over throughput, since a run's CSV trace must survive a crash mid-run).
func (c *StepCollector) CollectStep(step int, tasks map[int]*sim.Task) error {
	ids := sortedTaskIDs(tasks)
	for _, id := range ids {
		t := tasks[id]
		progress := ""
		if t.TotalWork > 0 {
			progress = formatFloat((t.TotalWork - t.RemainingWork) / t.TotalWork)
		}
		finishedStep := ""
		if t.FinishedStep >= 0 {
			finishedStep = fmt.Sprintf("%d", t.FinishedStep)
		}
		row := []string{
			fmt.Sprintf("%d", step),
			fmt.Sprintf("%d", t.ID),
			formatFloat(t.RemainingWork),
			formatFloat(t.TotalWork),
			progress,
			statusString(t.Status),
			finishedStep,
		}
		if err := c.w.Write(row); err != nil {
			return fmt.Errorf("collector: writing task row: %w", err)
		}
	}
	c.rowNum++
	c.w.Flush()
	return c.w.Error()
}

// Close flushes and closes the underlying file.
func (c *StepCollector) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}

func sortedTaskIDs(tasks map[int]*sim.Task) []int {
	ids := make([]int, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
