// Package views renders the server-side HTML pages of the feed.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// Page template names.
const (
	PageHome       = "home"
	PageFeed       = "feed"
	PageResource   = "resource"
	PageSubmission = "submission"
	PageError      = "error"
	PageNotFound   = "notfound"
)

// EmptyFeedText is shown in place of an empty feed.
const EmptyFeedText = "No resources found"

//go:embed templates/*.html
var templateFS embed.FS

// shared holds the templates every page is parsed with.
var shared = []string{"layout.html", "sidebar.html", "feed_list.html"}

// Site is the static site information every page receives.
type Site struct {
	Title       string
	BaseURL     string
	AnalyticsID string
	SignInURL   string
	Taglines    []string
}

// Page is the model handed to every template.
type Page struct {
	Site Site

	Title string
	User  *domain.User

	// CanSubmit shows the submission dialog for signed-in users.
	CanSubmit bool

	Tags      []domain.Tag
	ActiveTag string

	Feed    []domain.Resource
	FeedTag string

	Resource *domain.Resource
	BackURL  string
	Tagline  string

	Submission *domain.Submission
	Message    string

	Status    int
	RequestID string
}

// Renderer implements gin's render.HTMLRender over the embedded templates.
// Each page is parsed once into its own clone of the shared templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates. md may be nil, in which case a default
// markdown renderer is used.
func New(site Site, md *Markdown) (*Renderer, error) {
	if md == nil {
		md = NewMarkdown()
	}

	funcs := template.FuncMap{
		"markdown":     md.Render,
		"externalLink": NewExternalLink,
		"tagIcon":      TagIcon,
		"date":         FormatDate,
		"resourcePath": ResourcePath,
		"tagPath":      BackPath,
		"pageTitle": func(title string) string {
			if title == "" {
				return site.Title
			}

			return fmt.Sprintf("%s - %s", title, site.Title)
		},
	}

	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, prefixed(shared)...)
	if err != nil {
		return nil, fmt.Errorf("parsing shared templates: %w", err)
	}

	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(names))}

	for _, name := range names {
		file := path.Base(name)
		if slices.Contains(shared, file) {
			continue
		}

		tmpl, err := template.Must(base.Clone()).ParseFS(templateFS, name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}

		r.pages[strings.TrimSuffix(file, ".html")] = tmpl
	}

	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		return missingPage(name)
	}

	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]

	return ok
}

type missingPage string

func (m missingPage) Render(http.ResponseWriter) error {
	return fmt.Errorf("views: unknown page %q", string(m))
}

func (missingPage) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func prefixed(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = "templates/" + f
	}

	return out
}
