package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// TaskSpec is one row of the tasks CSV asset.
type TaskSpec struct {
	ID           int
	X            float64
	Y            float64
	TotalWork    float64
	RemainingWork float64
}

var tasksCSVHeader = []string{"id", "x", "y", "total_work"}

// LoadTasksCSV reads a tasks.csv asset (columns: id,x,y,total_work, with an
// optional remaining_work column that defaults to total_work when absent —
// matching the original loader's "tasks start fully unworked" default).
func LoadTasksCSV(path string) ([]TaskSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening tasks csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("config: reading tasks csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("config: tasks csv %s is empty", path)
	}

	header := rows[0]
	idx, err := columnIndex(header, tasksCSVHeader)
	if err != nil {
		return nil, fmt.Errorf("config: tasks csv %s: %w", path, err)
	}
	remainingCol, hasRemaining := -1, false
	for i, name := range header {
		if name == "remaining_work" {
			remainingCol = i
			hasRemaining = true
		}
	}

	specs := make([]TaskSpec, 0, len(rows)-1)
	for lineNum, row := range rows[1:] {
		id, err := strconv.Atoi(row[idx["id"]])
		if err != nil {
			return nil, fmt.Errorf("config: tasks csv %s line %d: invalid id: %w", path, lineNum+2, err)
		}
		x, err := strconv.ParseFloat(row[idx["x"]], 64)
		if err != nil {
			return nil, fmt.Errorf("config: tasks csv %s line %d: invalid x: %w", path, lineNum+2, err)
		}
		y, err := strconv.ParseFloat(row[idx["y"]], 64)
		if err != nil {
			return nil, fmt.Errorf("config: tasks csv %s line %d: invalid y: %w", path, lineNum+2, err)
		}
		totalWork, err := strconv.ParseFloat(row[idx["total_work"]], 64)
		if err != nil {
			return nil, fmt.Errorf("config: tasks csv %s line %d: invalid total_work: %w", path, lineNum+2, err)
		}
		remainingWork := totalWork
		if hasRemaining && row[remainingCol] != "" {
			remainingWork, err = strconv.ParseFloat(row[remainingCol], 64)
			if err != nil {
				return nil, fmt.Errorf("config: tasks csv %s line %d: invalid remaining_work: %w", path, lineNum+2, err)
			}
		}
		specs = append(specs, TaskSpec{
			ID:            id,
			X:             x,
			Y:             y,
			TotalWork:     totalWork,
			RemainingWork: remainingWork,
		})
	}
	return specs, nil
}
