// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package recommend

import "fmt"

// DefaultTopLimit is the size of the global top-K structure when unset.
const DefaultTopLimit = 10

// MaxResults caps the n accepted by the Find* queries.
const MaxResults = 1000

// Config contains the engine configuration.
type Config struct {
	// TopLimit bounds the global top-K structure and the overall query.
	TopLimit int `json:"top_limit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{TopLimit: DefaultTopLimit}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TopLimit < 1 {
		return fmt.Errorf("top_limit must be positive, got %d", c.TopLimit)
	}
	return nil
}
