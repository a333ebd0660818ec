// Package config holds shared helpers for service configuration and CLI
// entry points.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target's env-tagged fields from the process environment.
func ParseEnv(target any) error {
	if target == nil {
		return fmt.Errorf("config target is required")
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
