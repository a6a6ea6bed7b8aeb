package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogpulse/internal/apperrors"
	"blogpulse/internal/metrics"
	"blogpulse/internal/models"
	"blogpulse/internal/repositories"
)

// EngagementService owns the per-post view/like counters and the liked-by
// set. Every mutation goes through a conditional single-document update in
// the repository; the service never computes counter state in memory.
type EngagementService struct {
	posts   repositories.PostRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(posts repositories.PostRepository, m *metrics.Metrics) *EngagementService {
	return &EngagementService{posts: posts, metrics: m, now: time.Now}
}

// RecordView counts one view event and stamps last_viewed. Each call is a
// genuine view; there is no dedup.
func (s *EngagementService) RecordView(ctx context.Context, slug string) error {
	if err := s.posts.RecordView(ctx, slug, s.now()); err != nil {
		return err
	}
	s.metrics.ViewsRecorded.Inc()
	return nil
}

// ToggleLike flips the caller's membership in the post's liked-by set and
// its paired counter. Returns the resulting membership state. When both
// conditional halves miss (a concurrent toggle for the same identity won),
// the current state is reported instead of an error.
func (s *EngagementService) ToggleLike(ctx context.Context, slug, identity string) (bool, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return false, fmt.Errorf("%w: userIdentifier is required", apperrors.ErrValidation)
	}

	applied, err := s.posts.AddLike(ctx, slug, identity)
	if err != nil {
		return false, err
	}
	if applied {
		s.metrics.ToggleApplied("post", true)
		return true, nil
	}

	applied, err = s.posts.RemoveLike(ctx, slug, identity)
	if err != nil {
		return false, err
	}
	if applied {
		s.metrics.ToggleApplied("post", false)
		return false, nil
	}

	// Neither half matched: the post is absent, or a concurrent request
	// from the same identity flipped the state between the two updates.
	stats, err := s.posts.EngagementStats(ctx, slug)
	if err != nil {
		return false, err
	}
	return memberOf(stats.LikedBy, identity), nil
}

// Unlike removes the caller from the liked-by set if present. Unliking a
// post that was never liked succeeds and reports the current state.
func (s *EngagementService) Unlike(ctx context.Context, slug, identity string) (bool, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return false, fmt.Errorf("%w: userIdentifier is required", apperrors.ErrValidation)
	}

	applied, err := s.posts.RemoveLike(ctx, slug, identity)
	if err != nil {
		return false, err
	}
	if applied {
		s.metrics.ToggleApplied("post", false)
		return false, nil
	}

	// Not a member; still verify the post exists so unknown slugs 404.
	if _, err := s.posts.EngagementStats(ctx, slug); err != nil {
		return false, err
	}
	return false, nil
}

// Stats reads the engagement fields for a post, reporting whether the given
// identity is currently in the liked-by set. Missing fields on legacy
// documents default to 0/0/empty.
func (s *EngagementService) Stats(ctx context.Context, slug, identity string) (*models.StatsResponse, error) {
	stats, err := s.posts.EngagementStats(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &models.StatsResponse{
		Likes:   stats.Likes,
		Views:   stats.Views,
		LikedBy: stats.LikedBy,
		IsLiked: memberOf(stats.LikedBy, identity),
	}, nil
}

func memberOf(set []string, member string) bool {
	if member == "" {
		return false
	}
	for _, s := range set {
		if s == member {
			return true
		}
	}
	return false
}
