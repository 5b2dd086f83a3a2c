package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration and returns an error if invalid.
// The service should not start with invalid config.
func (c *Config) Validate() error {
	errs := make([]string, 0)

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}

		for _, e := range validationErrors {
			errs = append(errs, formatFieldError(e))
		}
	}

	errs = append(errs, c.dependencyErrors()...)

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// dependencyErrors reports settings that are only required by another section's choice.
func (c *Config) dependencyErrors() []string {
	var errs []string

	needsSupabase := c.Store.Driver == StoreDriverPostgREST || c.Session.Provider == SessionProviderRemote

	if needsSupabase && c.Supabase.URL == "" {
		errs = append(errs, "supabase.url is required when store.driver is postgrest or session.provider is remote")
	}

	if c.Store.Driver == StoreDriverPostgREST && c.Supabase.AnonKey == "" {
		errs = append(errs, "supabase.anon_key is required when store.driver is postgrest")
	}

	if c.Events.Provider == EventsProviderRedis {
		if c.Events.Redis.Addr == "" {
			errs = append(errs, "events.redis.addr is required when events.provider is redis")
		}

		if c.Events.Redis.Stream == "" {
			errs = append(errs, "events.redis.stream is required when events.provider is redis")
		}
	}

	return errs
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "required_unless":
		return fmt.Sprintf("%s is required unless %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return field + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath converts "Config.Server.Port" to "server.port".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}
