// Package config loads a scenario's YAML/CSV assets into the types sim and
// the ga/* packages need to build a runnable Model.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// ComponentConfig names a pluggable component (failure model, configuration
// planner, task allocator) by module/class, with free-form params. Only the
// reference implementations of each are wired up by this codebase; the
// module/class fields exist so a scenario file can be self-documenting and
// so future components have somewhere to register.
type ComponentConfig struct {
	Module string                 `mapstructure:"module" yaml:"module"`
	Class  string                 `mapstructure:"class" yaml:"class"`
	Params map[string]interface{} `mapstructure:"params" yaml:"params"`
}

type SpaceConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

type SimSection struct {
	MaxSteps            int     `mapstructure:"max_steps" yaml:"max_steps"`
	ReconstructDuration float64 `mapstructure:"reconstruct_duration" yaml:"reconstruct_duration"`
	TimeStep            float64 `mapstructure:"time_step" yaml:"time_step"`
	HLimit              float64 `mapstructure:"H_limit" yaml:"H_limit"`
	IntervalTaskOrder   int     `mapstructure:"interval_task_order" yaml:"interval_task_order"`
	IntervalRobotConf   int     `mapstructure:"interval_robot_conf" yaml:"interval_robot_conf"`
}

type DepotSection struct {
	Position [2]float64 `mapstructure:"position" yaml:"position"`
}

// ScenarioConfig is the fully-decoded contents of a scenario YAML file plus
// its referenced CSV/YAML assets.
type ScenarioConfig struct {
	ScenarioName string `mapstructure:"scenario_name" yaml:"scenario_name"`
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`

	Space SpaceConfig `mapstructure:"space" yaml:"space"`
	Sim   SimSection  `mapstructure:"sim" yaml:"sim"`

	ModuleDepot DepotSection `mapstructure:"module_depot" yaml:"module_depot"`

	FailureModel         ComponentConfig `mapstructure:"failure_model" yaml:"failure_model"`
	ConfigurationPlanner ComponentConfig `mapstructure:"configuration_planner" yaml:"configuration_planner"`
	TaskAllocator        ComponentConfig `mapstructure:"task_allocator" yaml:"task_allocator"`

	ModulesCSV     string `mapstructure:"modules" yaml:"modules"`
	RobotSetupYaml string `mapstructure:"robot_setup" yaml:"robot_setup"`
	TasksCSV       string `mapstructure:"tasks" yaml:"tasks"`

	// Resolved absolute paths, filled in after loading, relative to the
	// scenario file's own directory.
	ModulesCSVPath     string
	RobotSetupYamlPath string
	TasksCSVPath       string

	// Loaded assets.
	Modules    []ModuleSpec
	Tasks      []TaskSpec
	RobotSetup RobotSetup
}

// LoadScenario reads the scenario YAML at path (via viper, matching the
// codebase's existing config-loading idiom) and every asset it references.
func LoadScenario(path string) (*ScenarioConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading scenario %s: %w", path, err)
	}

	cfg := &ScenarioConfig{}
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding scenario %s: %w", path, err)
	}

	if cfg.ScenarioName == "" {
		return nil, fmt.Errorf("config: scenario %s missing scenario_name", path)
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("config: scenario %s missing output_dir", path)
	}

	baseDir := filepath.Dir(path)
	if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(baseDir, cfg.OutputDir)
	}
	if cfg.ModulesCSV == "" || cfg.RobotSetupYaml == "" || cfg.TasksCSV == "" {
		return nil, fmt.Errorf("config: scenario %s missing modules/robot_setup/tasks asset references", path)
	}

	cfg.ModulesCSVPath = filepath.Join(baseDir, cfg.ModulesCSV)
	cfg.RobotSetupYamlPath = filepath.Join(baseDir, cfg.RobotSetupYaml)
	cfg.TasksCSVPath = filepath.Join(baseDir, cfg.TasksCSV)

	modules, err := LoadModulesCSV(cfg.ModulesCSVPath)
	if err != nil {
		return nil, err
	}
	cfg.Modules = modules

	robotSetup, err := LoadRobotSetup(cfg.RobotSetupYamlPath)
	if err != nil {
		return nil, err
	}
	cfg.RobotSetup = robotSetup

	tasks, err := LoadTasksCSV(cfg.TasksCSVPath)
	if err != nil {
		return nil, err
	}
	cfg.Tasks = tasks

	return cfg, nil
}
