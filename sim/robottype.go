package sim

import (
	"math"
	"sort"
)

// RobotTypeSpec describes one realizable robot type: the module-type counts
// it requires to be declared, and the (speed, throughput) it grants once
// realized.
type RobotTypeSpec struct {
	Name            string
	RequiredModules map[string]int
	Speed           float64
	Throughput      float64
}

// InferRealizedType resolves which robot type a worker's current module
// counts satisfy, preferring types in typePriority order (lowest value
// first; types absent from typePriority sort last, by name, for
// determinism). Returns "" if no type's requirements are met.
func InferRealizedType(counts map[string]int, robotTypes map[string]RobotTypeSpec, typePriority map[string]int) string {
	for _, rtype := range sortedTypesByPriority(robotTypes, typePriority) {
		req := robotTypes[rtype].RequiredModules
		ok := true
		for modType, need := range req {
			if counts[modType] < need {
				ok = false
				break
			}
		}
		if ok {
			return rtype
		}
	}
	return ""
}

func sortedTypesByPriority(robotTypes map[string]RobotTypeSpec, typePriority map[string]int) []string {
	names := make([]string, 0, len(robotTypes))
	for n := range robotTypes {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, ok := typePriority[names[i]]
		if !ok {
			pi = math.MaxInt32
		}
		pj, ok2 := typePriority[names[j]]
		if !ok2 {
			pj = math.MaxInt32
		}
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}
