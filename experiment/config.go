// Package experiment loads energy-estimation experiment definitions from
// YAML and turns them into circuits and observable terms.
package experiment

import (
	"fmt"
	"os"
	"strconv"
)

// GateSpec is one placed gate in the preparation circuit.
type GateSpec struct {
	Gate   string `yaml:"gate"`
	Qubits []int  `yaml:"qubits"`
}

// BackendSpec names the execution backend and its rate limits.
type BackendSpec struct {
	Name                string `yaml:"name"`
	MaxJobsPerMinute    int    `yaml:"max_jobs_per_minute"`
	MaxSamplesPerMinute int    `yaml:"max_samples_per_minute"`
}

// Config is a complete experiment definition.
type Config struct {
	Name             string      `yaml:"name"`
	SamplesPerTerm   int         `yaml:"samples_per_term"`
	MaxSamplesPerJob int         `yaml:"max_samples_per_job"`
	Concurrency      int         `yaml:"concurrency"`
	Seed             int64       `yaml:"seed"`
	Terms            []string    `yaml:"terms"`
	Prep             []GateSpec  `yaml:"prep"`
	Backend          BackendSpec `yaml:"backend"`
}

// ApplyEnvOverrides lets the environment override the tunable knobs without
// editing the experiment file.
func (c *Config) ApplyEnvOverrides() {
	c.SamplesPerTerm = getEnvInt("SAMPLES_PER_TERM", c.SamplesPerTerm)
	c.MaxSamplesPerJob = getEnvInt("MAX_SAMPLES_PER_JOB", c.MaxSamplesPerJob)
	c.Concurrency = getEnvInt("CONCURRENCY", c.Concurrency)
	c.Seed = getEnvInt64("SEED", c.Seed)
	c.Backend.Name = getEnv("BACKEND_NAME", c.Backend.Name)
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("experiment name is required")
	}
	if c.SamplesPerTerm <= 0 {
		return fmt.Errorf("samples_per_term must be positive, got %d", c.SamplesPerTerm)
	}
	if c.MaxSamplesPerJob < 0 {
		return fmt.Errorf("max_samples_per_job must not be negative, got %d", c.MaxSamplesPerJob)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if len(c.Terms) == 0 {
		return fmt.Errorf("at least one term is required")
	}
	for _, spec := range c.Prep {
		if spec.Gate == "" {
			return fmt.Errorf("prep gate name is required")
		}
		if len(spec.Qubits) == 0 {
			return fmt.Errorf("prep gate %s needs at least one qubit", spec.Gate)
		}
		for _, q := range spec.Qubits {
			if q < 0 {
				return fmt.Errorf("prep gate %s has negative qubit %d", spec.Gate, q)
			}
		}
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt64 gets a 64-bit integer environment variable with a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
