package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"blogpulse/internal/middleware"
	"blogpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	t.Run("returns defaults for a fresh post", func(t *testing.T) {
		e, _, _ := newTestServer(t)

		rec, envelope := doJSON(t, e, http.MethodGet, "/blogs/foo/stats", nil, nil)
		assertStatus(t, rec, http.StatusOK)
		assert.True(t, envelope.Success)

		data := dataMap(t, envelope)
		assert.EqualValues(t, 0, data["likes"])
		assert.EqualValues(t, 0, data["views"])
		assert.Equal(t, []any{}, data["likedBy"])
		assert.Equal(t, false, data["isLiked"])
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		e, _, _ := newTestServer(t)

		rec, envelope := doJSON(t, e, http.MethodGet, "/blogs/nope/stats", nil, nil)
		assertStatus(t, rec, http.StatusNotFound)
		assert.False(t, envelope.Success)
		assert.NotEmpty(t, envelope.Message)
	})

	t.Run("reports membership for the header identity", func(t *testing.T) {
		e, _, _ := newTestServer(t)
		doJSON(t, e, http.MethodPost, "/blogs/foo/stats",
			models.StatsRequest{Action: "like", UserIdentifier: "u1"}, nil)

		_, envelope := doJSON(t, e, http.MethodGet, "/blogs/foo/stats", nil,
			map[string]string{middleware.IdentityHeader: "u1"})
		data := dataMap(t, envelope)
		assert.Equal(t, true, data["isLiked"])
	})
}

func TestPostStats(t *testing.T) {
	t.Run("like then like again restores the original count", func(t *testing.T) {
		e, _, _ := newTestServer(t)
		body := models.StatsRequest{Action: "like", UserIdentifier: "u1"}

		rec, envelope := doJSON(t, e, http.MethodPost, "/blogs/foo/stats", body, nil)
		assertStatus(t, rec, http.StatusOK)
		data := dataMap(t, envelope)
		assert.Equal(t, true, data["isLiked"])
		assert.EqualValues(t, 1, data["likes"])

		rec, envelope = doJSON(t, e, http.MethodPost, "/blogs/foo/stats", body, nil)
		assertStatus(t, rec, http.StatusOK)
		data = dataMap(t, envelope)
		assert.Equal(t, false, data["isLiked"])
		assert.EqualValues(t, 0, data["likes"])
	})

	t.Run("unlike when not liked still succeeds", func(t *testing.T) {
		e, _, _ := newTestServer(t)

		rec, envelope := doJSON(t, e, http.MethodPost, "/blogs/foo/stats",
			models.StatsRequest{Action: "unlike", UserIdentifier: "u1"}, nil)
		assertStatus(t, rec, http.StatusOK)
		data := dataMap(t, envelope)
		assert.Equal(t, false, data["isLiked"])
		assert.EqualValues(t, 0, data["likes"])
	})

	t.Run("identity falls back to the header", func(t *testing.T) {
		e, _, _ := newTestServer(t)

		_, envelope := doJSON(t, e, http.MethodPost, "/blogs/foo/stats",
			models.StatsRequest{Action: "like"},
			map[string]string{middleware.IdentityHeader: "header-user"})
		data := dataMap(t, envelope)
		assert.Equal(t, true, data["isLiked"])
		assert.EqualValues(t, 1, data["likes"])
	})

	t.Run("like without any identity is 400", func(t *testing.T) {
		e, _, _ := newTestServer(t)

		rec, envelope := doJSON(t, e, http.MethodPost, "/blogs/foo/stats",
			models.StatsRequest{Action: "like"}, nil)
		assertStatus(t, rec, http.StatusBadRequest)
		assert.False(t, envelope.Success)
	})

	t.Run("unknown action is 400", func(t *testing.T) {
		e, _, _ := newTestServer(t)

		rec, _ := doJSON(t, e, http.MethodPost, "/blogs/foo/stats",
			map[string]string{"action": "boost"}, nil)
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("view on unknown slug is 404", func(t *testing.T) {
		e, _, _ := newTestServer(t)

		rec, _ := doJSON(t, e, http.MethodPost, "/blogs/nope/stats",
			models.StatsRequest{Action: "view"}, nil)
		assertStatus(t, rec, http.StatusNotFound)
	})

	t.Run("ten concurrent views all count", func(t *testing.T) {
		e, posts, _ := newTestServer(t)
		const views = 10

		var wg sync.WaitGroup
		for i := 0; i < views; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				req := httptest.NewRequest(http.MethodPost, "/blogs/foo/stats",
					jsonBody(t, models.StatsRequest{Action: "view"}))
				req.Header.Set("Content-Type", "application/json")
				rec := httptest.NewRecorder()
				e.ServeHTTP(rec, req)
				assert.Equal(t, http.StatusOK, rec.Code)
			}()
		}
		wg.Wait()

		stats, err := posts.EngagementStats(t.Context(), "foo")
		require.NoError(t, err)
		assert.Equal(t, views, stats.Views)
	})
}
