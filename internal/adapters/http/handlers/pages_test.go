package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/resource-feed/internal/adapters/http/views"
	"github.com/jsamuelsen/resource-feed/internal/domain"
)

func TestPages_Home(t *testing.T) {
	f := newFixture(t)
	f.expectFeed()
	f.expectSidebar()

	w := f.do(request{path: "/"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/resources/3"`)
	assert.Contains(t, body, `href="/resources/1"`)
	assert.Contains(t, body, "Fresh links every day")
	assert.Contains(t, body, `href="/auth/sign-in"`)
	assert.Contains(t, body, `data-lucide="monitor-smartphone"`)
}

func TestPages_HomeEmpty(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().ListResources(mock.Anything).Return([]domain.Resource{}, nil).Once()
	f.store.EXPECT().ListTags(mock.Anything).Return([]domain.Tag{}, nil).Once()

	w := f.do(request{path: "/"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), views.EmptyFeedText)
}

func TestPages_Tag(t *testing.T) {
	f := newFixture(t)
	f.expectFeed()
	f.expectSidebar()

	w := f.do(request{path: "/tags/official"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/resources/3?tag=official"`)
	assert.Contains(t, body, `href="/resources/1?tag=official"`)
	assert.NotContains(t, body, `href="/resources/2?tag=official"`)
	assert.Contains(t, body, "<title>Official - Resource Feed</title>")
}

func TestPages_UnknownTagIsEmptyFeed(t *testing.T) {
	f := newFixture(t)
	f.expectFeed()
	f.expectSidebar()

	w := f.do(request{path: "/tags/nope"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), views.EmptyFeedText)
}

func TestPages_Resource(t *testing.T) {
	f := newFixture(t)
	one := findResource(1)
	f.store.EXPECT().GetResource(mock.Anything, int64(1)).Return(&one, nil).Once()
	f.expectFeed()
	f.expectSidebar()

	w := f.do(request{path: "/resources/1?tag=official"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<a class="back" href="/tags/official">`)
	assert.Contains(t, body, ">go.dev</a>")
	assert.Contains(t, body, "<strong>docs</strong>")
	assert.Contains(t, body, "March 1, 2025")
	assert.Contains(t, body, `href="/resources/3?tag=official"`, "feed pane keeps the tag")
}

func TestPages_ResourceWithoutTag(t *testing.T) {
	f := newFixture(t)
	two := findResource(2)
	f.store.EXPECT().GetResource(mock.Anything, int64(2)).Return(&two, nil).Once()
	f.expectSidebar()

	w := f.do(request{path: "/resources/2"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<a class="back" href="/">`)
	assert.Contains(t, body, views.InvalidURLText)
	assert.NotContains(t, body, `href="not a url"`)
}

func TestPages_ResourceNotFound(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		setup func(*fixture)
	}{
		{"non-numeric id", "/resources/abc", func(*fixture) {}},
		{"missing resource", "/resources/9", func(f *fixture) {
			f.store.EXPECT().GetResource(mock.Anything, int64(9)).Return(nil, domain.NewNotFoundError("resource", "9")).Once()
			f.store.EXPECT().ListTags(mock.Anything).Return(sidebarTags, nil).Maybe()
		}},
		{"unknown route", "/nowhere", func(*fixture) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			w := f.do(request{path: tt.path})

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Body.String(), "<title>Not found - Resource Feed</title>")
		})
	}
}

func TestPages_Related(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().ListTagIDsForResource(mock.Anything, int64(1)).Return([]int64{1}, nil).Once()
	f.store.EXPECT().ListResourceIDsForTags(mock.Anything, []int64{1}).Return([]int64{1, 3}, nil).Once()
	f.store.EXPECT().ListResourcesByIDs(mock.Anything, []int64{3}).
		Return([]domain.Resource{findResource(3)}, nil).Once()
	f.expectSidebar()

	w := f.do(request{path: "/resources/1/related"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/resources/3"`)
	assert.NotContains(t, body, `href="/resources/1"`)
	assert.NotContains(t, body, `href="/resources/2"`)
}

func TestPages_RelatedWithoutSharersIsEmptyFeed(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().ListTagIDsForResource(mock.Anything, int64(2)).Return([]int64{1, 2}, nil).Once()
	f.store.EXPECT().ListResourceIDsForTags(mock.Anything, []int64{1, 2}).Return([]int64{2}, nil).Once()
	f.expectSidebar()

	w := f.do(request{path: "/resources/2/related"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), views.EmptyFeedText)
}

func TestPages_RelatedWithoutTagsIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().ListTagIDsForResource(mock.Anything, int64(5)).Return([]int64{}, nil).Once()
	f.store.EXPECT().ListTags(mock.Anything).Return(sidebarTags, nil).Maybe()

	w := f.do(request{path: "/resources/5/related"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPages_StoreFailureRendersErrorPage(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().ListResources(mock.Anything).Return(nil, errors.New("connection reset")).Once()
	f.store.EXPECT().ListTags(mock.Anything).Return(sidebarTags, nil).Maybe()

	w := f.do(request{path: "/"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Something went wrong")
	assert.NotContains(t, body, "connection reset")
	assert.Contains(t, body, w.Header().Get("X-Request-ID"))
}

func TestPages_SignedInSidebar(t *testing.T) {
	f := newFixture(t)
	f.signIn("tok", ada)
	f.expectFeed()
	f.expectSidebar()

	w := f.do(request{path: "/", token: "tok"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Ada")
	assert.Contains(t, body, "Submit a resource")
	assert.NotContains(t, body, `href="/auth/sign-in"`)
}

func TestPages_Submit(t *testing.T) {
	f := newFixture(t)
	f.signIn("tok", ada)
	f.submissions.EXPECT().CreateSubmission(mock.Anything, mock.MatchedBy(func(s *domain.Submission) bool {
		return s.URL == "https://go.dev/blog" && s.SubmitterID == ada.ID
	})).Return(nil).Once()
	f.events.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()

	w := f.do(request{
		method: http.MethodPost, path: "/submissions", token: "tok",
		contentType: "application/x-www-form-urlencoded", body: "url=https%3A%2F%2Fgo.dev%2Fblog",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "https://go.dev/blog")
	assert.Contains(t, body, "within 24 hours")
}

func TestPages_SubmitRequiresSession(t *testing.T) {
	f := newFixture(t)

	w := f.do(request{
		method: http.MethodPost, path: "/submissions",
		contentType: "application/x-www-form-urlencoded", body: "url=https%3A%2F%2Fgo.dev",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "signed-in user")
}

func TestPages_SubmitInvalidURL(t *testing.T) {
	f := newFixture(t)
	f.signIn("tok", ada)

	w := f.do(request{
		method: http.MethodPost, path: "/submissions", token: "tok",
		contentType: "application/x-www-form-urlencoded", body: "url=ftp%3A%2F%2Fexample.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
