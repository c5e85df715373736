package config

import "github.com/crucible-dev/crucible/packages/core/harness"

// DefaultConcurrency is the concurrency bound applied when parallel
// mode is requested without a value. It mirrors the scheduler's own
// default so file config and engine agree.
const DefaultConcurrency = harness.DefaultConcurrency

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		FSType:      "fsx",
		Concurrency: DefaultConcurrency,
		ModeFilter:  "all",
		Output:      "console",
	}
}
