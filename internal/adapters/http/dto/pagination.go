package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// DefaultLimit is the page size when the request does not ask for one.
const DefaultLimit = 20

// MaxLimit caps the page size.
const MaxLimit = 100

var (
	// ErrInvalidCursor is returned when a cursor cannot be decoded or no
	// longer points into the feed.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first page request.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest holds the page parameters of a feed request.
type PaginationRequest struct {
	// Cursor is the NextCursor of the previous page.
	Cursor string `form:"cursor"`

	// Limit is the page size (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// PaginatedResponse is one page of a feed.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// CursorData is what a cursor encodes: the sort key of the last item and
// its id as tie-breaker.
type CursorData struct {
	Field string `json:"f"`
	Value string `json:"v"`
	ID    string `json:"id"`
}

// EncodeCursor encodes cursor data as URL-safe base64 JSON.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor reverses EncodeCursor. An empty string is ErrNoCursor.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.ID == "" {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

// Paginate cuts one page out of an already ordered feed. The cursor names
// the last item of the previous page by id; an id that is no longer in the
// feed is ErrInvalidCursor.
func Paginate[T any](items []T, req PaginationRequest, cursorOf func(T) *CursorData) (*PaginatedResponse[T], error) {
	start := 0

	cursor, err := DecodeCursor(req.Cursor)
	switch {
	case errors.Is(err, ErrNoCursor):
	case err != nil:
		return nil, err
	default:
		start = -1

		for i, item := range items {
			if cursorOf(item).ID == cursor.ID {
				start = i + 1

				break
			}
		}

		if start < 0 {
			return nil, ErrInvalidCursor
		}
	}

	limit := req.GetLimit()
	page := items[start:]

	resp := &PaginatedResponse[T]{Items: page, HasMore: len(page) > limit}
	if resp.HasMore {
		resp.Items = page[:limit]
		resp.NextCursor = EncodeCursor(cursorOf(resp.Items[limit-1]))
	}

	if resp.Items == nil {
		resp.Items = []T{}
	}

	return resp, nil
}
