package domain

import (
	"net/url"
	"strings"
	"time"
)

// User is the signed-in visitor as reported by the session provider.
type User struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

// DisplayName prefers the profile name and falls back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}

	if u.Name != "" {
		return u.Name
	}

	return u.Email
}

// SubmissionStatus tracks a submitted URL through moderation.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is a URL waiting for review before it becomes a Resource.
type Submission struct {
	ID          string
	URL         string
	SubmitterID string
	Status      SubmissionStatus
	CreatedAt   time.Time
}

const maxSubmissionURLLength = 2048

// NormalizeSubmissionURL validates a submitted URL and returns its canonical form.
// Only absolute http and https URLs with a host are accepted.
func NormalizeSubmissionURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", NewValidationError("url", "is required")
	}

	if len(raw) > maxSubmissionURLLength {
		return "", NewValidationError("url", "is too long")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", NewValidationError("url", "is not a valid URL")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", NewValidationError("url", "must use http or https")
	}

	if u.Hostname() == "" {
		return "", NewValidationError("url", "must include a host")
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	return u.String(), nil
}

// NewSubmission builds a pending submission after validating its URL.
func NewSubmission(id, rawURL string, submitter *User, now time.Time) (*Submission, error) {
	if submitter == nil || submitter.ID == "" {
		return nil, NewUnauthorizedError("submit resource")
	}

	normalized, err := NormalizeSubmissionURL(rawURL)
	if err != nil {
		return nil, err
	}

	return &Submission{
		ID:          id,
		URL:         normalized,
		SubmitterID: submitter.ID,
		Status:      SubmissionPending,
		CreatedAt:   now.UTC(),
	}, nil
}
