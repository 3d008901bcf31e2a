package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrProductionRefused is returned for operator actions that only run against non-production data
var ErrProductionRefused = errors.New("refused in production")

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment from CI, APP_ENV or ENV
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}

	switch Environment(env) {
	case Production, Test, Development:
		return Environment(env)
	case "":
		return Development
	default:
		return Environment(env)
	}
}

// RequiresSecrets reports whether sensitive values must be present at startup
func (e Environment) RequiresSecrets() bool {
	return e == Production || e == CI
}

// IsProduction returns true if the current environment is production
func (e Environment) IsProduction() bool {
	return e == Production
}

// GuardNonProduction returns ErrProductionRefused for action in production
func (e Environment) GuardNonProduction(action string) error {
	if e.IsProduction() {
		return fmt.Errorf("%s: %w", action, ErrProductionRefused)
	}
	return nil
}
