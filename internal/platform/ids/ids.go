// Package ids generates prefixed public identifiers.
package ids

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generator produces identifiers. Tests swap it for a deterministic one.
type Generator func(prefix string) (string, error)

// NanoID returns prefix_<21 url-safe characters>.
func NanoID(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}

	return prefix + "_" + id, nil
}
