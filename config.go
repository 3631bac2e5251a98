package qsurv

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

/*
Config holds the benchmark parameters: how many trials per point, the noise
sweep, the leakage strength, which code instance to run and how many workers
the sweep may use.
*/
type Config struct {
	Shots   int       `yaml:"shots"`
	Workers int       `yaml:"workers"`
	Seed    int64     `yaml:"seed"`
	PLeak   float64   `yaml:"p_leak"`
	Levels  []float64 `yaml:"levels"`
	Code    string    `yaml:"code"`
}

// NewConfig returns the reference benchmark configuration.
func NewConfig() *Config {
	return &Config{
		Shots:   2000,
		Workers: runtime.NumCPU(),
		Seed:    1,
		PLeak:   0.01,
		Levels:  []float64{0.0, 0.01, 0.02, 0.05},
		Code:    "862",
	}
}

// LoadConfig reads a YAML file over the defaults from NewConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the driver cannot run.
func (c *Config) Validate() error {
	if c.Shots <= 0 {
		return fmt.Errorf("shots must be positive, got %d", c.Shots)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if len(c.Levels) == 0 {
		return fmt.Errorf("at least one noise level is required")
	}
	for _, p := range c.Levels {
		if p < 0 || p > 1 {
			return fmt.Errorf("noise level %g outside [0,1]", p)
		}
	}
	if c.PLeak < 0 || c.PLeak > 1 {
		return fmt.Errorf("p_leak %g outside [0,1]", c.PLeak)
	}
	if _, err := CodeByName(c.Code); err != nil {
		return err
	}
	return nil
}

// CodeSpec resolves the configured code instance.
func (c *Config) CodeSpec() (Code, error) { return CodeByName(c.Code) }
