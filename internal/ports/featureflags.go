package ports

import (
	"context"
)

// Flag names understood by the feed.
const (
	// FlagRecentFeedDays limits the home feed to resources created within the
	// last N days. Zero or negative shows everything.
	FlagRecentFeedDays = "recent_feed_days"

	// FlagSubmissions turns the submission dialog and endpoints on or off.
	FlagSubmissions = "submissions"
)

// FeatureFlags evaluates feature flags without tying callers to a provider.
// Every lookup takes a default that is returned when the flag is missing or
// has the wrong type.
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
	GetString(ctx context.Context, flag string, defaultValue string) string
	GetInt(ctx context.Context, flag string, defaultValue int) int
}
