package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"blogpulse/internal/metrics"
	"blogpulse/internal/middleware"
	"blogpulse/internal/models"
	"blogpulse/internal/repositories"
	"blogpulse/internal/services"
	"blogpulse/validators"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newTestServer wires the full HTTP surface over in-memory repositories and
// seeds one post with slug "foo".
func newTestServer(t *testing.T) (*echo.Echo, *repositories.MemoryPostRepository, *repositories.MemoryCommentRepository) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.Use(middleware.IdentityExtractor())

	posts := repositories.NewMemoryPostRepository()
	comments := repositories.NewMemoryCommentRepository()
	m := metrics.New(prometheus.NewRegistry())

	blogs := e.Group("/blogs")
	NewStatsHandler(services.NewEngagementService(posts, m)).RegisterStatsRoutes(blogs)
	NewCommentHandler(services.NewCommentService(comments, posts, m)).RegisterCommentRoutes(blogs)

	require.NoError(t, posts.Insert(context.Background(), &models.Post{Slug: "foo", Title: "Foo"}))
	return e, posts, comments
}

// jsonBody marshals a request body for raw httptest requests.
func jsonBody(t *testing.T, body any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

// doJSON issues a request against the test server and decodes the envelope.
func doJSON(t *testing.T, e *echo.Echo, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, models.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var envelope models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

// dataMap returns the envelope data as a decoded JSON object.
func dataMap(t *testing.T, envelope models.Response) map[string]any {
	t.Helper()
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok, "expected object data, got %T", envelope.Data)
	return data
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}

// findStored fetches a comment on blog "foo" straight from the repository.
func findStored(comments *repositories.MemoryCommentRepository, hexID string) (*models.Comment, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, err
	}
	return comments.FindByID(context.Background(), id, "foo")
}
