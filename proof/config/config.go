//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the proof pass's run-time configuration (spec.md
// §6's configuration surface, expanded in SPEC_FULL.md §6.2): a small
// YAML file, overlaid with environment variables, the way deployments
// in the retrieved example pack configure their tools.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Config is every knob the proof pass reads before it starts walking a
// tree.
type Config struct {
	// RequireDecoratedFinalValue selects stmt.Return's strict mode:
	// only the decorated `return^'` name may appear in claims about a
	// method's result, not the bare `return`.
	RequireDecoratedFinalValue bool `yaml:"requireDecoratedFinalValue"`

	// ProverCommand is argv for prover.StartSubprocess, e.g.
	// ["prover", "--mode=batch"].
	ProverCommand []string `yaml:"proverCommand"`

	// ProverResourceLimitMs bounds a single query's prover-side budget
	// before it is reported as kb.ReachedLimit; enforced by the prover
	// process itself, not by this module, but recorded here so it can
	// be passed through as a command-line flag or environment variable
	// to ProverCommand's process.
	ProverResourceLimitMs int `yaml:"proverResourceLimitMs"`

	// RejectLoopsInTotalCorrectness turns on engine.Walker's strict
	// while-loop rejection (SPEC_FULL.md §9).
	RejectLoopsInTotalCorrectness bool `yaml:"rejectLoopsInTotalCorrectness"`

	// LemmaLibraryPath, if non-empty, is loaded with lemma.Load before
	// the pass starts.
	LemmaLibraryPath string `yaml:"lemmaLibraryPath"`

	// MinToolchainVersion is a semver constraint (e.g. "v1.4.0") the
	// caller's build must satisfy; validated, not enforced, by this
	// package.
	MinToolchainVersion string `yaml:"minToolchainVersion"`
}

// defaults returns the configuration used when no file and no
// environment overrides are present.
func defaults() Config {
	return Config{
		ProverCommand:         []string{"prover"},
		ProverResourceLimitMs: 5000,
		MinToolchainVersion:   "v1.0.0",
	}
}

// Load reads path as YAML into a Config seeded with defaults, then
// applies any TRUEJ_-prefixed environment variable overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides lets a deployment override individual fields
// without editing the YAML file, following the same env-prefix
// convention the rest of the retrieved example pack's CLIs use.
func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("TRUEJ_REQUIRE_DECORATED_FINAL_VALUE"); ok {
		cfg.RequireDecoratedFinalValue = v == "true" || v == "1"
	}
	if v, ok := os.LookupEnv("TRUEJ_REJECT_LOOPS_IN_TOTAL_CORRECTNESS"); ok {
		cfg.RejectLoopsInTotalCorrectness = v == "true" || v == "1"
	}
	if v, ok := os.LookupEnv("TRUEJ_PROVER_COMMAND"); ok && v != "" {
		cfg.ProverCommand = strings.Fields(v)
	}
	if v, ok := os.LookupEnv("TRUEJ_PROVER_RESOURCE_LIMIT_MS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ProverResourceLimitMs = n
		}
	}
	if v, ok := os.LookupEnv("TRUEJ_LEMMA_LIBRARY_PATH"); ok {
		cfg.LemmaLibraryPath = v
	}
	if v, ok := os.LookupEnv("TRUEJ_MIN_TOOLCHAIN_VERSION"); ok {
		cfg.MinToolchainVersion = v
	}
}

// Validate checks the fields Load cannot trust a hand-edited YAML file
// to get right on its own.
func (c *Config) Validate() error {
	if len(c.ProverCommand) == 0 {
		return fmt.Errorf("config: proverCommand must not be empty")
	}
	if c.ProverResourceLimitMs <= 0 {
		return fmt.Errorf("config: proverResourceLimitMs must be positive, got %d", c.ProverResourceLimitMs)
	}
	if !semver.IsValid(c.MinToolchainVersion) {
		return fmt.Errorf("config: minToolchainVersion %q is not a valid semantic version", c.MinToolchainVersion)
	}
	return nil
}
