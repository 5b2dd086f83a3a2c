package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tagOfficial  = Tag{ID: 1, Slug: "official", Name: "Official"}
	tagTutorials = Tag{ID: 2, Slug: "tutorials", Name: "Tutorials"}
)

func sampleResources() []Resource {
	return []Resource{
		{ID: 1, Title: "one", Tags: []Tag{tagOfficial}},
		{ID: 2, Title: "two", Tags: []Tag{tagTutorials}},
		{ID: 3, Title: "three", Tags: []Tag{tagOfficial, tagTutorials}},
	}
}

func ids(resources []Resource) []int64 {
	out := make([]int64, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.ID)
	}

	return out
}

func TestFilterByTag(t *testing.T) {
	tests := []struct {
		name     string
		input    []Resource
		slug     string
		expected []int64
	}{
		{
			name:     "keeps matching resources in order",
			input:    sampleResources(),
			slug:     "official",
			expected: []int64{1, 3},
		},
		{
			name:     "other tag",
			input:    sampleResources(),
			slug:     "tutorials",
			expected: []int64{2, 3},
		},
		{
			name:     "no match returns empty",
			input:    sampleResources(),
			slug:     "events",
			expected: []int64{},
		},
		{
			name:     "empty slug matches nothing",
			input:    sampleResources(),
			slug:     "",
			expected: []int64{},
		},
		{
			name:     "nil input",
			input:    nil,
			slug:     "official",
			expected: []int64{},
		},
		{
			name:     "untagged resources never match",
			input:    []Resource{{ID: 9}},
			slug:     "official",
			expected: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByTag(tt.input, tt.slug)

			require.NotNil(t, got)
			assert.Equal(t, tt.expected, ids(got))

			for _, r := range got {
				assert.True(t, r.HasTag(tt.slug))
			}
		})
	}
}

func TestFilterByTag_IncludesResourceByItsOwnTag(t *testing.T) {
	for _, r := range sampleResources() {
		got := FilterByTag(sampleResources(), r.Tags[0].Slug)
		assert.Contains(t, ids(got), r.ID)
	}
}

func TestFilterByTag_Idempotent(t *testing.T) {
	once := FilterByTag(sampleResources(), "official")
	twice := FilterByTag(once, "official")

	assert.Equal(t, once, twice)
}

func TestFilterByTag_DoesNotMutateInput(t *testing.T) {
	input := sampleResources()
	_ = FilterByTag(input, "tutorials")

	assert.Equal(t, sampleResources(), input)
}

func TestFilterCreatedSince(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	resources := []Resource{
		{ID: 1, CreatedAt: now},
		{ID: 2, CreatedAt: now.Add(-8 * 24 * time.Hour)},
		{ID: 3, CreatedAt: now.Add(-7 * 24 * time.Hour)},
	}

	got := FilterCreatedSince(resources, now.Add(-7*24*time.Hour))

	assert.Equal(t, []int64{1, 3}, ids(got))
}

func TestParseResourceID(t *testing.T) {
	id, err := ParseResourceID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := ParseResourceID(raw)
		assert.True(t, IsNotFound(err), "expected not found for %q", raw)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "official", Slugify("Official"))
	assert.Equal(t, "open-source-tools", Slugify("Open Source Tools"))
	assert.Equal(t, "events", Slugify("  Events "))
}

func BenchmarkFilterByTag(b *testing.B) {
	resources := make([]Resource, 0, 500)
	for i := range 500 {
		tag := tagOfficial
		if i%3 == 0 {
			tag = tagTutorials
		}

		resources = append(resources, Resource{ID: int64(i), Tags: []Tag{tag}})
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = FilterByTag(resources, "tutorials")
	}
}
