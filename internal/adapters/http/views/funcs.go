package views

import (
	"math/rand/v2"
	"net/url"
	"strconv"
	"time"
)

// InvalidURLText is shown instead of a link when a resource URL is unusable.
const InvalidURLText = "Invalid URL"

// ExternalLink is a resource URL checked for display.
type ExternalLink struct {
	Href  string
	Host  string
	Valid bool
}

// NewExternalLink accepts only absolute http and https URLs with a host.
// Anything else is marked invalid and rendered as plain text.
func NewExternalLink(raw string) ExternalLink {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return ExternalLink{Href: raw}
	}

	return ExternalLink{Href: u.String(), Host: u.Hostname(), Valid: true}
}

// Text is what the link shows: the host, or InvalidURLText.
func (l ExternalLink) Text() string {
	if !l.Valid {
		return InvalidURLText
	}

	return l.Host
}

var tagIcons = map[string]string{
	"official":  "megaphone",
	"tutorials": "monitor-smartphone",
	"packages":  "package",
	"events":    "calendar",
	"showcase":  "panel-top",
	"templates": "layout-template",
	"examples":  "braces",
	"opinions":  "sticky-note",
}

// TagIcon names the sidebar icon for a tag slug.
func TagIcon(slug string) string {
	if icon, ok := tagIcons[slug]; ok {
		return icon
	}

	return "pin"
}

// FormatDate renders a creation time the way the detail page shows it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format("January 2, 2006")
}

// Tagline picks one of the configured taglines at random.
func Tagline(taglines []string) string {
	if len(taglines) == 0 {
		return ""
	}

	return taglines[rand.IntN(len(taglines))] //nolint:gosec // cosmetic choice
}

// ResourcePath links a feed entry. Inside a tag feed the tag is carried
// along so the detail page can show the same feed and link back to it.
func ResourcePath(id int64, tag string) string {
	p := "/resources/" + strconv.FormatInt(id, 10)
	if tag == "" {
		return p
	}

	return p + "?" + url.Values{"tag": {tag}}.Encode()
}

// BackPath is where the detail page's back link points.
func BackPath(tag string) string {
	if tag == "" {
		return "/"
	}

	return "/tags/" + url.PathEscape(tag)
}
