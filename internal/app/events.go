package app

import (
	"time"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// EventSubmissionCreated is published once a submission is stored.
const EventSubmissionCreated = "submission.created"

// SubmissionCreated implements ports.Event.
type SubmissionCreated struct {
	Submission domain.Submission
}

func (e SubmissionCreated) EventType() string { return EventSubmissionCreated }

// submissionPayload is the wire form consumers of the event stream read.
type submissionPayload struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	SubmitterID string    `json:"submitter_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e SubmissionCreated) Payload() any {
	return submissionPayload{
		ID:          e.Submission.ID,
		URL:         e.Submission.URL,
		SubmitterID: e.Submission.SubmitterID,
		Status:      string(e.Submission.Status),
		CreatedAt:   e.Submission.CreatedAt,
	}
}
