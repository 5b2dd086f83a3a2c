package flags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen/resource-feed/internal/ports"
)

var _ ports.FeatureFlags = (*Static)(nil)

func TestStatic_IsEnabled(t *testing.T) {
	ctx := context.Background()
	f := NewStatic(map[string]any{
		"submissions": false,
		"from_env":    "true",
		"SHOUTING":    true,
		"garbage":     "maybe",
		"number":      1,
	}, nil)

	assert.False(t, f.IsEnabled(ctx, ports.FlagSubmissions, true))
	assert.True(t, f.IsEnabled(ctx, "from_env", false))
	assert.True(t, f.IsEnabled(ctx, "shouting", false), "keys are case-insensitive")
	assert.True(t, f.IsEnabled(ctx, "garbage", true))
	assert.False(t, f.IsEnabled(ctx, "number", false))
	assert.True(t, f.IsEnabled(ctx, "missing", true))
}

func TestStatic_GetInt(t *testing.T) {
	ctx := context.Background()
	f := NewStatic(map[string]any{
		"recent_feed_days": 7,
		"yaml_int64":       int64(3),
		"json_float":       float64(14),
		"fraction":         1.5,
		"from_env":         " 30 ",
		"word":             "week",
	}, nil)

	assert.Equal(t, 7, f.GetInt(ctx, ports.FlagRecentFeedDays, 0))
	assert.Equal(t, 3, f.GetInt(ctx, "yaml_int64", 0))
	assert.Equal(t, 14, f.GetInt(ctx, "json_float", 0))
	assert.Equal(t, 2, f.GetInt(ctx, "fraction", 2))
	assert.Equal(t, 30, f.GetInt(ctx, "from_env", 0))
	assert.Equal(t, -1, f.GetInt(ctx, "word", -1))
	assert.Equal(t, 5, f.GetInt(ctx, "missing", 5))
}

func TestStatic_GetString(t *testing.T) {
	ctx := context.Background()
	f := NewStatic(map[string]any{
		"banner": "maintenance tonight",
		"count":  3,
		"list":   []string{"a"},
	}, nil)

	assert.Equal(t, "maintenance tonight", f.GetString(ctx, "banner", ""))
	assert.Equal(t, "3", f.GetString(ctx, "count", ""))
	assert.Equal(t, "fallback", f.GetString(ctx, "list", "fallback"))
	assert.Equal(t, "fallback", f.GetString(ctx, "missing", "fallback"))
}

func TestStatic_CopiesInput(t *testing.T) {
	values := map[string]any{"submissions": true}
	f := NewStatic(values, nil)

	values["submissions"] = false

	assert.True(t, f.IsEnabled(context.Background(), "submissions", false))
}
