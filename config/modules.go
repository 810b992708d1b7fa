package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ModuleSpec is one row of the modules CSV asset: an initial module
// instance to stock the depot with at simulation start.
type ModuleSpec struct {
	ID   int
	Type string
	X    float64
	Y    float64
	H    float64
}

var modulesCSVHeader = []string{"id", "type", "x", "y", "h"}

// LoadModulesCSV reads a modules.csv asset (columns: id,type,x,y,h).
func LoadModulesCSV(path string) ([]ModuleSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening modules csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("config: reading modules csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("config: modules csv %s is empty", path)
	}

	header := rows[0]
	idx, err := columnIndex(header, modulesCSVHeader)
	if err != nil {
		return nil, fmt.Errorf("config: modules csv %s: %w", path, err)
	}

	specs := make([]ModuleSpec, 0, len(rows)-1)
	for lineNum, row := range rows[1:] {
		id, err := strconv.Atoi(row[idx["id"]])
		if err != nil {
			return nil, fmt.Errorf("config: modules csv %s line %d: invalid id: %w", path, lineNum+2, err)
		}
		x, err := strconv.ParseFloat(row[idx["x"]], 64)
		if err != nil {
			return nil, fmt.Errorf("config: modules csv %s line %d: invalid x: %w", path, lineNum+2, err)
		}
		y, err := strconv.ParseFloat(row[idx["y"]], 64)
		if err != nil {
			return nil, fmt.Errorf("config: modules csv %s line %d: invalid y: %w", path, lineNum+2, err)
		}
		h := 0.0
		if row[idx["h"]] != "" {
			h, err = strconv.ParseFloat(row[idx["h"]], 64)
			if err != nil {
				return nil, fmt.Errorf("config: modules csv %s line %d: invalid h: %w", path, lineNum+2, err)
			}
		}
		specs = append(specs, ModuleSpec{
			ID:   id,
			Type: row[idx["type"]],
			X:    x,
			Y:    y,
			H:    h,
		})
	}
	return specs, nil
}

// columnIndex maps each required column name to its position in header,
// erroring out on any column that's missing.
func columnIndex(header []string, required []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	for _, name := range required {
		if _, ok := pos[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return pos, nil
}
