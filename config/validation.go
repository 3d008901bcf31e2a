package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Server.Port == "" {
		errs = append(errs, ValidationError{Field: "server.port", Message: "is required"})
	}
	if cfg.Database.Host == "" {
		errs = append(errs, ValidationError{Field: "database.host", Message: "is required"})
	}

	if cfg.Env.RequiresSecrets() {
		if cfg.JWT.Secret == "" {
			errs = append(errs, ValidationError{Field: "jwt.secret", Message: "is required in " + string(cfg.Env)})
		}
		if cfg.Database.Password == "" {
			errs = append(errs, ValidationError{Field: "database.password", Message: "is required in " + string(cfg.Env)})
		}
	}

	if cfg.Spoonacular.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "spoonacular.timeout", Message: "must be positive"})
	}
	if cfg.LLM.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "llm.timeout", Message: "must be positive"})
	}
	if cfg.Bonus.FetchTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "bonus.fetch_timeout", Message: "must be positive"})
	}
	if cfg.Bonus.StartupDelay < 0 {
		errs = append(errs, ValidationError{Field: "bonus.startup_delay", Message: "must not be negative"})
	}
	if cfg.Bonus.ScheduleHour < 0 || cfg.Bonus.ScheduleHour > 23 {
		errs = append(errs, ValidationError{Field: "bonus.schedule_hour", Message: "must be between 0 and 23"})
	}
	if cfg.Bonus.ScheduleWeekday < 0 || cfg.Bonus.ScheduleWeekday > 6 {
		errs = append(errs, ValidationError{Field: "bonus.schedule_weekday", Message: "must be between 0 (Sunday) and 6"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
