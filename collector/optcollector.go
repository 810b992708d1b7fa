package collector

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fleetsim/ga/planner"
)

// OptCollector logs every configuration-planner optimization event: the
// full Pareto front it considered (pareto.csv, one row per front member)
// and the single configuration it chose (chosen.csv, one row per event).
type OptCollector struct {
	pf, cf   *os.File
	pw, cw   *csv.Writer
	eventID  int
}

var paretoCSVHeader = []string{"event_id", "step", "rank", "objectives_json", "worker_types_json"}
var chosenCSVHeader = []string{"event_id", "step", "preference_json", "objectives_json", "worker_types_json"}

// NewOptCollector opens (truncating) the pareto and chosen CSV files under
// outDir.
func NewOptCollector(outDir, scenarioName, prefix string) (*OptCollector, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("collector: creating output dir: %w", err)
	}

	paretoPath := filepath.Join(outDir, fmt.Sprintf("%s_%s_pareto.csv", scenarioName, prefix))
	chosenPath := filepath.Join(outDir, fmt.Sprintf("%s_%s_chosen.csv", scenarioName, prefix))

	pf, err := os.Create(paretoPath)
	if err != nil {
		return nil, fmt.Errorf("collector: creating %s: %w", paretoPath, err)
	}
	cf, err := os.Create(chosenPath)
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("collector: creating %s: %w", chosenPath, err)
	}

	pw := csv.NewWriter(pf)
	cw := csv.NewWriter(cf)
	if err := pw.Write(paretoCSVHeader); err != nil {
		return nil, err
	}
	if err := cw.Write(chosenCSVHeader); err != nil {
		return nil, err
	}

	return &OptCollector{pf: pf, cf: cf, pw: pw, cw: cw}, nil
}

func dumps(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// LogOptimization records one configuration-planner decision: every member
// of the Pareto front it evaluated, plus the configuration it chose under
// preference.
func (c *OptCollector) LogOptimization(step int, front []*planner.Individual, chosen *planner.Individual, preference []float64) error {
	c.eventID++
	eid := c.eventID

	for rank, ind := range front {
		row := []string{
			fmt.Sprintf("%d", eid),
			fmt.Sprintf("%d", step),
			fmt.Sprintf("%d", rank),
			dumps(ind.Objectives),
			dumps(ind.WorkerTypes),
		}
		if err := c.pw.Write(row); err != nil {
			return fmt.Errorf("collector: writing pareto row: %w", err)
		}
	}

	row := []string{
		fmt.Sprintf("%d", eid),
		fmt.Sprintf("%d", step),
		dumps(preference),
		dumps(chosen.Objectives),
		dumps(chosen.WorkerTypes),
	}
	if err := c.cw.Write(row); err != nil {
		return fmt.Errorf("collector: writing chosen row: %w", err)
	}

	c.pw.Flush()
	c.cw.Flush()
	if err := c.pw.Error(); err != nil {
		return err
	}
	return c.cw.Error()
}

// Close flushes and closes both underlying files.
func (c *OptCollector) Close() error {
	c.pw.Flush()
	c.cw.Flush()
	err1 := c.pw.Error()
	err2 := c.cw.Error()
	err3 := c.pf.Close()
	err4 := c.cf.Close()
	for _, e := range []error{err1, err2, err3, err4} {
		if e != nil {
			return e
		}
	}
	return nil
}
