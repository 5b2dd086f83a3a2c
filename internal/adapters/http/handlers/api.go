package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/resource-feed/internal/adapters/http/dto"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/middleware"
	"github.com/jsamuelsen/resource-feed/internal/app"
	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// APIHandler serves the JSON API under /api/v1.
type APIHandler struct {
	feed        FeedQueries
	submissions Submitter
}

// NewAPIHandler creates the handler. submissions may be nil.
func NewAPIHandler(feed FeedQueries, submissions Submitter) *APIHandler {
	if feed == nil {
		panic("APIHandler: feed is required")
	}

	return &APIHandler{feed: feed, submissions: submissions}
}

// RegisterRoutes mounts the API routes on rg.
func (h *APIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resources", h.ListResources)
	rg.GET("/resources/:id", h.GetResource)
	rg.GET("/resources/:id/related", h.RelatedResources)
	rg.GET("/tags", h.ListTags)
	rg.POST("/submissions", middleware.RequireUser(SubmitOperation, middleware.JSONErrors), h.CreateSubmission)
}

// ListResources returns the feed newest first, optionally for one tag,
// one page at a time.
func (h *APIHandler) ListResources(c *gin.Context) {
	var q dto.FeedQuery
	if err := dto.BindQuery(c, &q); err != nil {
		dto.HandleError(c, err)

		return
	}

	ctx := c.Request.Context()

	var (
		resources []domain.Resource
		err       error
	)

	if q.Tag != "" {
		resources, err = h.feed.ResourcesByTag(ctx, q.Tag)
	} else {
		resources, err = h.feed.AllResources(ctx)
	}

	if err != nil {
		dto.HandleError(c, err)

		return
	}

	page, err := dto.Paginate(dto.ToResourceResponses(resources), q.PaginationRequest, dto.ResourceCursor)
	if errors.Is(err, dto.ErrInvalidCursor) {
		dto.HandleError(c, domain.NewValidationError("cursor", "cursor is invalid or expired"))

		return
	}

	if err != nil {
		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, page)
}

// GetResource returns one resource.
func (h *APIHandler) GetResource(c *gin.Context) {
	id, err := domain.ParseResourceID(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	res, err := h.feed.Resource(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.ToResourceResponse(res))
}

// RelatedResources returns the resources sharing a tag with the given one.
func (h *APIHandler) RelatedResources(c *gin.Context) {
	id, err := domain.ParseResourceID(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	related, err := h.feed.RelatedResources(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.ListResponse[dto.ResourceResponse]{Items: dto.ToResourceResponses(related)})
}

// ListTags returns the tags with their resource counts.
func (h *APIHandler) ListTags(c *gin.Context) {
	tags, err := h.feed.Sidebar(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	items := make([]dto.TagResponse, len(tags))
	for i, t := range tags {
		items[i] = dto.ToTagResponse(t)
	}

	c.JSON(http.StatusOK, dto.ListResponse[dto.TagResponse]{Items: items})
}

// CreateSubmission queues a URL for review.
func (h *APIHandler) CreateSubmission(c *gin.Context) {
	if h.submissions == nil {
		dto.HandleError(c, app.ErrSubmissionsDisabled)

		return
	}

	var req dto.SubmitRequest
	if err := dto.Bind(c, &req); err != nil {
		dto.HandleError(c, err)

		return
	}

	user, err := middleware.CurrentUser(c)
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	sub, err := h.submissions.Submit(c.Request.Context(), app.SubmitInput{User: user, URL: req.URL})
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusCreated, dto.ToSubmissionResponse(sub))
}
