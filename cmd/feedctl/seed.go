package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/resource-feed/internal/app"
	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// SeedFile is the YAML document accepted by `feedctl seed`.
//
//	tags:
//	  - name: Official
//	resources:
//	  - title: Go documentation
//	    url: https://go.dev/doc
//	    tags: [Official]
type SeedFile struct {
	Tags      []SeedTag      `yaml:"tags"`
	Resources []SeedResource `yaml:"resources"`
}

// SeedTag names a tag. The slug is derived from the name when empty.
type SeedTag struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// SeedResource is one resource and the names of its tags.
type SeedResource struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	URL         string    `yaml:"url"`
	Thumbnail   string    `yaml:"thumbnail"`
	CreatedAt   time.Time `yaml:"created_at"`
	Tags        []string  `yaml:"tags"`
}

// Seeder is the part of the store seeding writes to.
type Seeder interface {
	UpsertTag(ctx context.Context, slug, name string) (int64, error)
	CreateResource(ctx context.Context, r *domain.Resource, tagIDs []int64) error
}

var errNoTitle = errors.New("resource title is required")

// ParseSeedFile decodes and checks a seed document. Unknown fields are errors.
func ParseSeedFile(r io.Reader) (*SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed SeedFile
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}

	known := make(map[string]bool, len(seed.Tags))
	for _, t := range seed.Tags {
		known[t.slug()] = true
	}

	for i, res := range seed.Resources {
		if res.Title == "" {
			return nil, fmt.Errorf("resource %d: %w", i, errNoTitle)
		}

		for _, name := range res.Tags {
			if !known[domain.Slugify(name)] {
				return nil, fmt.Errorf("resource %q: unknown tag %q", res.Title, name)
			}
		}
	}

	return &seed, nil
}

func (t SeedTag) slug() string {
	if t.Slug != "" {
		return t.Slug
	}

	return domain.Slugify(t.Name)
}

// Apply writes the tags, then the resources with up to workers inserts in flight.
func (s *SeedFile) Apply(ctx context.Context, store Seeder, workers int) error {
	tagIDs := make(map[string]int64, len(s.Tags))

	for _, t := range s.Tags {
		id, err := store.UpsertTag(ctx, t.slug(), t.Name)
		if err != nil {
			return err
		}

		tagIDs[t.slug()] = id
	}

	return app.FanOut(ctx, workers, s.Resources, func(ctx context.Context, res SeedResource) error {
		ids := make([]int64, 0, len(res.Tags))
		for _, name := range res.Tags {
			ids = append(ids, tagIDs[domain.Slugify(name)])
		}

		return store.CreateResource(ctx, &domain.Resource{
			Title:       res.Title,
			Description: res.Description,
			URL:         res.URL,
			Thumbnail:   res.Thumbnail,
			CreatedAt:   res.CreatedAt,
		}, ids)
	})
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		path    string
		workers int
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load tags and resources from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			seed, err := ParseSeedFile(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			store, logger, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if migrate {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
			}

			if err := seed.Apply(ctx, store, workers); err != nil {
				return err
			}

			logger.Info("seed applied",
				slog.String("file", path),
				slog.Int("tags", len(seed.Tags)),
				slog.Int("resources", len(seed.Resources)),
			)

			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "seed YAML file")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent resource inserts")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "create missing tables first")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
