package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/resource-feed/internal/adapters/http/dto"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/middleware"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/views"
	"github.com/jsamuelsen/resource-feed/internal/app"
	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// PagesHandler serves the HTML pages. The engine's HTML renderer must be a
// views.Renderer.
type PagesHandler struct {
	feed        FeedQueries
	submissions Submitter
	site        views.Site
}

// NewPagesHandler creates the handler. submissions may be nil, which hides
// the submission dialog and rejects posts.
func NewPagesHandler(feed FeedQueries, submissions Submitter, site views.Site) *PagesHandler {
	if feed == nil {
		panic("PagesHandler: feed is required")
	}

	return &PagesHandler{feed: feed, submissions: submissions, site: site}
}

// RegisterRoutes mounts the page routes.
func (h *PagesHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Home)
	r.GET("/tags/:slug", h.Tag)
	r.GET("/resources/:id", h.Resource)
	r.GET("/resources/:id/related", h.Related)
	r.POST("/submissions", middleware.RequireUser(SubmitOperation, h.RenderError), h.Submit)
}

// page builds the model shared by every page.
func (h *PagesHandler) page(c *gin.Context, title string) views.Page {
	user := middleware.OptionalUser(c)

	return views.Page{
		Site:      h.site,
		Title:     title,
		User:      user,
		CanSubmit: user != nil && h.submissions != nil && h.submissions.Enabled(c.Request.Context()),
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *PagesHandler) feedPage(c *gin.Context, title string, fp *app.FeedPage) views.Page {
	p := h.page(c, title)
	p.Tags = fp.Tags
	p.Feed = fp.Resources
	p.FeedTag = fp.TagSlug
	p.ActiveTag = fp.TagSlug
	p.Tagline = views.Tagline(h.site.Taglines)

	return p
}

// Home renders the full feed with a random tagline in the main pane.
func (h *PagesHandler) Home(c *gin.Context) {
	fp, err := h.feed.HomePage(c.Request.Context())
	if err != nil {
		h.RenderError(c, err)

		return
	}

	c.HTML(http.StatusOK, views.PageHome, h.feedPage(c, "", fp))
}

// Tag renders the feed of one tag. An unknown tag is an empty feed.
func (h *PagesHandler) Tag(c *gin.Context) {
	slug := c.Param("slug")

	fp, err := h.feed.TagPage(c.Request.Context(), slug)
	if err != nil {
		h.RenderError(c, err)

		return
	}

	c.HTML(http.StatusOK, views.PageFeed, h.feedPage(c, tagName(fp.Tags, slug), fp))
}

// Resource renders a resource. The feed pane shows the tag named by ?tag,
// which is also where the back link points.
func (h *PagesHandler) Resource(c *gin.Context) {
	id, err := domain.ParseResourceID(c.Param("id"))
	if err != nil {
		h.RenderError(c, err)

		return
	}

	tag := c.Query("tag")

	rp, err := h.feed.ResourcePage(c.Request.Context(), id, tag)
	if err != nil {
		h.RenderError(c, err)

		return
	}

	p := h.feedPage(c, rp.Resource.Title, &rp.FeedPage)
	p.Resource = rp.Resource
	p.BackURL = views.BackPath(tag)
	p.Tagline = ""

	c.HTML(http.StatusOK, views.PageResource, p)
}

// Related renders the resources sharing a tag with the given one.
func (h *PagesHandler) Related(c *gin.Context) {
	id, err := domain.ParseResourceID(c.Param("id"))
	if err != nil {
		h.RenderError(c, err)

		return
	}

	fp, err := h.feed.RelatedPage(c.Request.Context(), id)
	if err != nil {
		h.RenderError(c, err)

		return
	}

	c.HTML(http.StatusOK, views.PageFeed, h.feedPage(c, "Related resources", fp))
}

// Submit handles the sidebar submission form.
func (h *PagesHandler) Submit(c *gin.Context) {
	if h.submissions == nil {
		h.RenderError(c, app.ErrSubmissionsDisabled)

		return
	}

	var req dto.SubmitRequest
	if err := dto.Bind(c, &req); err != nil {
		h.RenderError(c, err)

		return
	}

	user, err := middleware.CurrentUser(c)
	if err != nil {
		h.RenderError(c, err)

		return
	}

	sub, err := h.submissions.Submit(c.Request.Context(), app.SubmitInput{User: user, URL: req.URL})
	if err != nil {
		h.RenderError(c, err)

		return
	}

	p := h.page(c, "Submission received")
	p.Submission = sub
	p.Message = dto.SubmissionReviewMessage

	c.HTML(http.StatusCreated, views.PageSubmission, p)
}

// NotFound is the engine's NoRoute handler.
func (h *PagesHandler) NotFound(c *gin.Context) {
	h.RenderError(c, domain.ErrNotFound)
}

// RenderError is the middleware.ErrorResponder of the pages: a not found
// page for NotFound errors and the error page for everything else.
func (h *PagesHandler) RenderError(c *gin.Context, err error) {
	status, resp := dto.MapDomainError(err)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("page failed",
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}

	name, title := views.PageError, "Error"
	if status == http.StatusNotFound {
		name, title = views.PageNotFound, "Not found"
	}

	p := views.Page{
		Site:      h.site,
		Title:     title,
		Status:    status,
		Message:   resp.Error.Message,
		RequestID: middleware.GetRequestID(c),
	}

	if status == http.StatusNotFound {
		p.Message = ""
	}

	c.HTML(status, name, p)
	c.Abort()
}

func tagName(tags []domain.Tag, slug string) string {
	for _, t := range tags {
		if t.Slug == slug {
			return t.Name
		}
	}

	return slug
}
