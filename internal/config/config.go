// Package config loads convexcore's runtime settings: a JSON file
// whose location is switched by the OCP_ENV/CONFIG_PATH environment
// variables, decoded into a typed struct since every field here is
// known ahead of time.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config carries the settings the HTTP host and the batch worker pool
// need at startup. Anything the core math packages need (interpolation
// method, day-count convention, instrument tolerances) is a per-request
// parameter, not configuration, and is not modeled here.
type Config struct {
	// BindAddr is the address the Gin server listens on, e.g. "localhost:8080".
	BindAddr string `json:"bind_addr"`
	// LogDir is the directory internal/logger dual-writes dated JSON logs into.
	LogDir string `json:"log_dir"`
	// WorkerPoolSize bounds concurrent goroutines for batch endpoints.
	WorkerPoolSize int `json:"worker_pool_size"`
	// DefaultTreeSteps is the OAS lattice step count used when a request omits one.
	DefaultTreeSteps int `json:"default_tree_steps"`
	// DefaultLMMaxIterations bounds the global-fit Levenberg-Marquardt loop by default.
	DefaultLMMaxIterations int `json:"default_lm_max_iterations"`
	// DefaultLMTolerance is the RMS-residual stop threshold for global fit.
	DefaultLMTolerance float64 `json:"default_lm_tolerance"`
}

// Default mirrors the values NewDefaultOASSolver and
// DefaultFitterConfig already assume, so a missing config file still
// yields a runnable service.
func Default() Config {
	return Config{
		BindAddr:               "localhost:8080",
		LogDir:                 "./logs",
		WorkerPoolSize:         100,
		DefaultTreeSteps:       100,
		DefaultLMMaxIterations: 100,
		DefaultLMTolerance:     1e-10,
	}
}

// Read loads Config from ./config.json, or from CONFIG_PATH+"config.json"
// when OCP_ENV is set, switching between local and Kubernetes
// deployments. A missing or unreadable file is not fatal: Read falls
// back to Default so the service always starts.
func Read() (Config, error) {
	ocpEnv := os.Getenv("OCP_ENV")
	configPath := os.Getenv("CONFIG_PATH")

	path := "./config.json"
	if ocpEnv != "" {
		path = configPath + "config.json"
	}

	file, err := os.Open(path)
	if err != nil {
		return Default(), nil
	}
	defer file.Close()

	cfg := Default()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding %q: %w", path, err)
	}
	return cfg, nil
}
