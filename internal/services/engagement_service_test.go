package services

import (
	"context"
	"sync"
	"testing"

	"blogpulse/internal/apperrors"
	"blogpulse/internal/metrics"
	"blogpulse/internal/models"
	"blogpulse/internal/repositories"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngagementFixture(t *testing.T) (*EngagementService, *repositories.MemoryPostRepository) {
	t.Helper()
	repo := repositories.NewMemoryPostRepository()
	service := NewEngagementService(repo, metrics.New(prometheus.NewRegistry()))
	err := repo.Insert(context.Background(), &models.Post{Slug: "foo", Title: "Foo"})
	require.NoError(t, err)
	return service, repo
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle twice returns to original state", func(t *testing.T) {
		service, _ := newEngagementFixture(t)

		liked, err := service.ToggleLike(ctx, "foo", "u1")
		require.NoError(t, err)
		assert.True(t, liked)

		liked, err = service.ToggleLike(ctx, "foo", "u1")
		require.NoError(t, err)
		assert.False(t, liked)

		stats, err := service.Stats(ctx, "foo", "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Likes)
		assert.Empty(t, stats.LikedBy)
		assert.False(t, stats.IsLiked)
	})

	t.Run("likes always equals liked_by size", func(t *testing.T) {
		service, _ := newEngagementFixture(t)

		for _, u := range []string{"u1", "u2", "u3"} {
			_, err := service.ToggleLike(ctx, "foo", u)
			require.NoError(t, err)
		}
		_, err := service.ToggleLike(ctx, "foo", "u2")
		require.NoError(t, err)

		stats, err := service.Stats(ctx, "foo", "")
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Likes)
		assert.Len(t, stats.LikedBy, stats.Likes)
	})

	t.Run("concurrent toggles from one identity never double count", func(t *testing.T) {
		service, _ := newEngagementFixture(t)
		const toggles = 20

		var wg sync.WaitGroup
		for i := 0; i < toggles; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.ToggleLike(ctx, "foo", "u1")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// Interleavings decide the final membership, but the counter can
		// never drift from the set size or exceed one for a single identity.
		stats, err := service.Stats(ctx, "foo", "u1")
		require.NoError(t, err)
		assert.Len(t, stats.LikedBy, stats.Likes)
		assert.LessOrEqual(t, stats.Likes, 1)
		assert.GreaterOrEqual(t, stats.Likes, 0)
		assert.Equal(t, stats.Likes == 1, stats.IsLiked)
	})

	t.Run("unknown slug", func(t *testing.T) {
		service, _ := newEngagementFixture(t)
		_, err := service.ToggleLike(ctx, "missing", "u1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("empty identity", func(t *testing.T) {
		service, _ := newEngagementFixture(t)
		_, err := service.ToggleLike(ctx, "foo", "  ")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestUnlike(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an existing like", func(t *testing.T) {
		service, _ := newEngagementFixture(t)
		_, err := service.ToggleLike(ctx, "foo", "u1")
		require.NoError(t, err)

		liked, err := service.Unlike(ctx, "foo", "u1")
		require.NoError(t, err)
		assert.False(t, liked)

		stats, err := service.Stats(ctx, "foo", "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Likes)
	})

	t.Run("unliking when not liked succeeds with current state", func(t *testing.T) {
		service, _ := newEngagementFixture(t)

		liked, err := service.Unlike(ctx, "foo", "u1")
		require.NoError(t, err)
		assert.False(t, liked)

		stats, err := service.Stats(ctx, "foo", "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Likes)
		assert.Equal(t, 0, stats.Views)
	})

	t.Run("unknown slug", func(t *testing.T) {
		service, _ := newEngagementFixture(t)
		_, err := service.Unlike(ctx, "missing", "u1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRecordView(t *testing.T) {
	ctx := context.Background()

	t.Run("concurrent views all count", func(t *testing.T) {
		service, _ := newEngagementFixture(t)
		const views = 10

		var wg sync.WaitGroup
		for i := 0; i < views; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, service.RecordView(ctx, "foo"))
			}()
		}
		wg.Wait()

		stats, err := service.Stats(ctx, "foo", "")
		require.NoError(t, err)
		assert.Equal(t, views, stats.Views)
	})

	t.Run("stamps last viewed", func(t *testing.T) {
		service, repo := newEngagementFixture(t)
		require.NoError(t, service.RecordView(ctx, "foo"))

		post, err := repo.FindBySlug(ctx, "foo")
		require.NoError(t, err)
		require.NotNil(t, post.LastViewed)
	})

	t.Run("unknown slug", func(t *testing.T) {
		service, _ := newEngagementFixture(t)
		assert.ErrorIs(t, service.RecordView(ctx, "missing"), apperrors.ErrNotFound)
	})
}

func TestStatsDefaults(t *testing.T) {
	service, _ := newEngagementFixture(t)

	stats, err := service.Stats(context.Background(), "foo", "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Likes)
	assert.Equal(t, 0, stats.Views)
	assert.NotNil(t, stats.LikedBy)
	assert.Empty(t, stats.LikedBy)
	assert.False(t, stats.IsLiked)
}
