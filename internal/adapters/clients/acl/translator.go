package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/resource-feed/internal/adapters/clients"
)

// BaseAdapter wraps a clients.Client and turns every non-2xx outcome into
// a domain error. Service adapters embed it.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter for the named downstream service.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{client: client, serviceName: serviceName}
}

// Name implements ports.HealthChecker.
func (a *BaseAdapter) Name() string {
	return a.serviceName
}

// Check implements ports.HealthChecker by reporting the circuit state.
func (a *BaseAdapter) Check(ctx context.Context) error {
	return a.client.Check(ctx)
}

// call is one downstream request.
type call struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
	target Target
}

// do runs c and returns the response on 2xx. The caller closes the body.
func (a *BaseAdapter) do(ctx context.Context, c call) (*http.Response, error) {
	c.target.Service = a.serviceName

	var (
		resp *http.Response
		err  error
	)

	switch c.method {
	case http.MethodPost:
		resp, err = a.client.Post(ctx, c.path, c.body, c.header)
	case http.MethodDelete:
		resp, err = a.client.Delete(ctx, c.path, c.query, c.header)
	default:
		resp, err = a.client.Get(ctx, c.path, c.query, c.header)
	}

	if err != nil {
		return nil, MapHTTPError(nil, err, c.target)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, c.target)
	}

	return resp, nil
}

// fetch runs c and decodes the JSON response into T.
func fetch[T any](ctx context.Context, a *BaseAdapter, c call) (T, error) {
	var out T

	resp, err := a.do(ctx, c)
	if err != nil {
		return out, err
	}

	return DecodeResponse[T](resp.Body)
}

// DecodeResponse decodes a JSON body into T and closes it.
func DecodeResponse[T any](body io.ReadCloser) (T, error) {
	var out T

	if body == nil {
		return out, fmt.Errorf("response body is nil")
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return out, fmt.Errorf("decoding response: %w", err)
	}

	return out, nil
}

// Translator converts one external record into a domain value. It returns
// an error when the record breaks a domain rule.
type Translator[External any, Domain any] func(ext *External) (Domain, error)

// TranslateSlice applies translate to every item and stops at the first error.
// The result is never nil.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) ([]D, error) {
	result := make([]D, 0, len(items))

	for i := range items {
		translated, err := translate(&items[i])
		if err != nil {
			return nil, fmt.Errorf("translating item %d: %w", i, err)
		}

		result = append(result, translated)
	}

	return result, nil
}
