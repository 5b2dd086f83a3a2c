package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/resource-feed/internal/adapters/http/middleware"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/views"
	"github.com/jsamuelsen/resource-feed/internal/app"
	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/mocks"
)

const sessionCookie = "sb-access-token"

var (
	tagOfficial  = domain.Tag{ID: 1, Slug: "official", Name: "Official"}
	tagTutorials = domain.Tag{ID: 2, Slug: "tutorials", Name: "Tutorials"}

	base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	exampleFeed = []domain.Resource{
		{ID: 3, Title: "three", URL: "https://example.com/3", CreatedAt: base.Add(2 * time.Hour), Tags: []domain.Tag{tagOfficial, tagTutorials}},
		{ID: 2, Title: "two", URL: "not a url", CreatedAt: base.Add(time.Hour), Tags: []domain.Tag{tagTutorials}},
		{ID: 1, Title: "one", URL: "https://go.dev/doc", Description: "The **docs**.", CreatedAt: base, Tags: []domain.Tag{tagOfficial}},
	}

	sidebarTags = []domain.Tag{
		{ID: 1, Slug: "official", Name: "Official", ResourceCount: 2},
		{ID: 2, Slug: "tutorials", Name: "Tutorials", ResourceCount: 2},
	}

	ada = &domain.User{ID: "user-1", Name: "Ada"}

	testSite = views.Site{Title: "Resource Feed", SignInURL: "/auth/sign-in", Taglines: []string{"Fresh links every day"}}
)

type fixture struct {
	router      *gin.Engine
	store       *mocks.MockResourceStore
	submissions *mocks.MockSubmissionStore
	events      *mocks.MockEventPublisher
	sessions    *mocks.MockSessionProvider
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:       mocks.NewMockResourceStore(t),
		submissions: mocks.NewMockSubmissionStore(t),
		events:      mocks.NewMockEventPublisher(t),
		sessions:    mocks.NewMockSessionProvider(t),
	}

	feed := app.NewFeedService(app.FeedServiceConfig{Store: f.store, Logger: discardLogger()})
	subs := app.NewSubmissionService(app.SubmissionServiceConfig{
		Store:  f.submissions,
		Events: f.events,
		Logger: discardLogger(),
		NewID:  func(prefix string) (string, error) { return prefix + "_test", nil },
		Now:    func() time.Time { return base },
	})

	renderer, err := views.New(testSite, nil)
	require.NoError(t, err)

	pages := NewPagesHandler(feed, subs, testSite)

	router := gin.New()
	router.HTMLRender = renderer
	router.Use(middleware.RequestID(), middleware.RequestScope(), middleware.Session(f.sessions, sessionCookie))
	router.NoRoute(pages.NotFound)

	pages.RegisterRoutes(router)
	NewAPIHandler(feed, subs).RegisterRoutes(router.Group("/api/v1"))

	f.router = router

	return f
}

func (f *fixture) expectSidebar() {
	f.store.EXPECT().ListTags(mock.Anything).Return(sidebarTags, nil).Once()
}

func (f *fixture) expectFeed() {
	f.store.EXPECT().ListResources(mock.Anything).Return(exampleFeed, nil).Once()
}

func (f *fixture) signIn(token string, user *domain.User) {
	f.sessions.EXPECT().CurrentUser(mock.Anything, token).Return(user, nil).Once()
}

type request struct {
	method      string
	path        string
	body        string
	contentType string
	token       string
}

func (f *fixture) do(r request) *httptest.ResponseRecorder {
	if r.method == "" {
		r.method = http.MethodGet
	}

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}

	req := httptest.NewRequest(r.method, r.path, body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	if r.token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: r.token})
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func findResource(id int64) domain.Resource {
	for _, r := range exampleFeed {
		if r.ID == id {
			return r
		}
	}

	panic("no resource")
}
