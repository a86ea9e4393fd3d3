package incperf

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config mirrors the harness knobs for YAML/env loading.
type Config struct {
	NumWorkers    int    `yaml:"workers" env:"INCPERF_WORKERS" env-default:"100"`
	NumIterations int    `yaml:"iterations" env:"INCPERF_ITERATIONS" env-default:"1000000"`
	Variant       string `yaml:"variant" env:"INCPERF_VARIANT" env-default:"mutex"`
	NumRuns       int    `yaml:"runs" env:"INCPERF_RUNS" env-default:"1"`
	Rate          int    `yaml:"rate" env:"INCPERF_RATE" env-default:"0"`
	SimulateWork  bool   `yaml:"simulate_work" env:"INCPERF_SIMULATE_WORK"`
	Verbose       bool   `yaml:"verbose" env:"INCPERF_VERBOSE"`
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &cfg, nil
}
