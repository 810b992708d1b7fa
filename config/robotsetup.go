package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"fleetsim/sim"
)

// PerformanceYaml is the speed/throughput pair nested under a robot type.
type PerformanceYaml struct {
	Speed      float64 `mapstructure:"speed" yaml:"speed"`
	Throughput float64 `mapstructure:"throughput" yaml:"throughput"`
}

// RobotTypeYaml is one entry of the robot_setup.yaml `robot_types` mapping.
type RobotTypeYaml struct {
	RequiredModules map[string]int  `mapstructure:"required_modules" yaml:"required_modules"`
	Performance     PerformanceYaml `mapstructure:"performance" yaml:"performance"`
}

// RobotSetup is the fully-decoded robot_setup.yaml asset.
type RobotSetup struct {
	ModuleTypes  []string                 `mapstructure:"modules" yaml:"modules"`
	RobotTypes   map[string]RobotTypeYaml `mapstructure:"robot_types" yaml:"robot_types"`
	TypePriority map[string]int           `mapstructure:"type_priority" yaml:"type_priority"`
}

// LoadRobotSetup reads a robot_setup.yaml asset and validates that
// type_priority names exactly the same robot types as robot_types — no
// missing entries, no extras.
func LoadRobotSetup(path string) (RobotSetup, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return RobotSetup{}, fmt.Errorf("config: reading robot setup %s: %w", path, err)
	}

	var rs RobotSetup
	if err := vp.Unmarshal(&rs); err != nil {
		return RobotSetup{}, fmt.Errorf("config: decoding robot setup %s: %w", path, err)
	}

	if len(rs.RobotTypes) == 0 {
		return RobotSetup{}, fmt.Errorf("config: robot setup %s declares no robot_types", path)
	}

	missing := make([]string, 0)
	for name := range rs.RobotTypes {
		if _, ok := rs.TypePriority[name]; !ok {
			missing = append(missing, name)
		}
	}
	extra := make([]string, 0)
	for name := range rs.TypePriority {
		if _, ok := rs.RobotTypes[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		return RobotSetup{}, fmt.Errorf(
			"config: robot setup %s: type_priority must name exactly the robot_types set (missing %v, extra %v)",
			path, missing, extra)
	}

	return rs, nil
}

// RobotTypeSpecs converts the decoded YAML mapping into the sim package's
// RobotTypeSpec map, keyed by robot type name.
func (rs RobotSetup) RobotTypeSpecs() map[string]sim.RobotTypeSpec {
	out := make(map[string]sim.RobotTypeSpec, len(rs.RobotTypes))
	for name, rt := range rs.RobotTypes {
		out[name] = sim.RobotTypeSpec{
			Name:            name,
			RequiredModules: rt.RequiredModules,
			Speed:           rt.Performance.Speed,
			Throughput:      rt.Performance.Throughput,
		}
	}
	return out
}
