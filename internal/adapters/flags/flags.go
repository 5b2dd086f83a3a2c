// Package flags serves feature flags from the loaded configuration.
package flags

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// Static implements ports.FeatureFlags over the features section of the
// config. Values set through environment variables arrive as strings and
// are parsed on lookup.
type Static struct {
	values map[string]any
	logger *slog.Logger
}

// NewStatic copies values so later changes to the map are not observed.
func NewStatic(values map[string]any, logger *slog.Logger) *Static {
	if logger == nil {
		logger = slog.Default()
	}

	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[strings.ToLower(k)] = v
	}

	return &Static{values: copied, logger: logger.With(slog.String("component", "flags.Static"))}
}

func (s *Static) lookup(ctx context.Context, flag string) (any, bool) {
	v, ok := s.values[strings.ToLower(flag)]
	if !ok {
		s.logger.Log(ctx, logging.LevelTrace, "flag not set", slog.String("flag", flag))
	}

	return v, ok
}

func (s *Static) mismatch(ctx context.Context, flag string, v any, want string) {
	s.logger.WarnContext(ctx, "flag has unexpected type, using default",
		slog.String("flag", flag),
		slog.String("want", want),
		slog.String("got", fmt.Sprintf("%T", v)),
	)
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	v, ok := s.lookup(ctx, flag)
	if !ok {
		return defaultValue
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}

	s.mismatch(ctx, flag, v, "bool")

	return defaultValue
}

// GetString implements ports.FeatureFlags.
func (s *Static) GetString(ctx context.Context, flag string, defaultValue string) string {
	v, ok := s.lookup(ctx, flag)
	if !ok {
		return defaultValue
	}

	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	}

	s.mismatch(ctx, flag, v, "string")

	return defaultValue
}

// GetInt implements ports.FeatureFlags.
func (s *Static) GetInt(ctx context.Context, flag string, defaultValue int) int {
	v, ok := s.lookup(ctx, flag)
	if !ok {
		return defaultValue
	}

	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}

	s.mismatch(ctx, flag, v, "int")

	return defaultValue
}
