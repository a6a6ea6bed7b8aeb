package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"blogpulse/internal/apperrors"
	"blogpulse/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryPostRepository implements PostRepository in memory. The mutex plays
// the role MongoDB's single-document atomicity plays in production: each
// membership+counter mutation is one indivisible step, which is what the
// concurrency tests exercise.
type MemoryPostRepository struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

// NewMemoryPostRepository creates an empty in-memory post repository.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[string]*models.Post)}
}

func (r *MemoryPostRepository) Insert(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	clone := *post
	r.posts[post.Slug] = &clone
	return nil
}

func (r *MemoryPostRepository) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[slug]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *post
	clone.LikedBy = append([]string{}, post.LikedBy...)
	return &clone, nil
}

func (r *MemoryPostRepository) EngagementStats(_ context.Context, slug string) (*models.EngagementStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[slug]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.EngagementStats{
		Likes:   post.Likes,
		Views:   post.Views,
		LikedBy: append([]string{}, post.LikedBy...),
	}, nil
}

func (r *MemoryPostRepository) RecordView(_ context.Context, slug string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[slug]
	if !ok {
		return apperrors.ErrNotFound
	}
	post.Views++
	post.LastViewed = &at
	return nil
}

func (r *MemoryPostRepository) AddLike(_ context.Context, slug, identity string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[slug]
	if !ok || contains(post.LikedBy, identity) {
		return false, nil
	}
	post.LikedBy = append(post.LikedBy, identity)
	post.Likes++
	return true, nil
}

func (r *MemoryPostRepository) RemoveLike(_ context.Context, slug, identity string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[slug]
	if !ok || !contains(post.LikedBy, identity) {
		return false, nil
	}
	post.LikedBy = remove(post.LikedBy, identity)
	post.Likes--
	return true, nil
}

// MemoryCommentRepository implements CommentRepository in memory with the
// same single-step mutation guarantees as MemoryPostRepository.
type MemoryCommentRepository struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment
}

// NewMemoryCommentRepository creates an empty in-memory comment repository.
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *MemoryCommentRepository) Insert(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if comment.LikedBy == nil {
		comment.LikedBy = []string{}
	}
	clone := cloneComment(comment)
	r.comments[comment.ID] = &clone
	return nil
}

func (r *MemoryCommentRepository) FindByID(_ context.Context, id primitive.ObjectID, slug string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok || comment.BlogSlug != slug {
		return nil, apperrors.ErrNotFound
	}
	clone := cloneComment(comment)
	return &clone, nil
}

func (r *MemoryCommentRepository) FindRoots(_ context.Context, slug, sortMode string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roots := []models.Comment{}
	for _, c := range r.comments {
		if c.BlogSlug == slug && c.RootID == nil && !c.IsDeleted {
			roots = append(roots, cloneComment(c))
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if sortMode == models.SortPopular && roots[i].Likes != roots[j].Likes {
			return roots[i].Likes > roots[j].Likes
		}
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	return roots, nil
}

func (r *MemoryCommentRepository) FindReplies(_ context.Context, slug string, rootIDs []primitive.ObjectID) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[primitive.ObjectID]bool, len(rootIDs))
	for _, id := range rootIDs {
		wanted[id] = true
	}
	replies := []models.Comment{}
	for _, c := range r.comments {
		if c.BlogSlug == slug && c.RootID != nil && wanted[*c.RootID] && !c.IsDeleted {
			replies = append(replies, cloneComment(c))
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies, nil
}

func (r *MemoryCommentRepository) CountRoots(_ context.Context, slug string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.comments {
		if c.BlogSlug == slug && c.RootID == nil && !c.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *MemoryCommentRepository) AddLike(_ context.Context, id primitive.ObjectID, slug, identity string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok || comment.BlogSlug != slug || comment.IsDeleted || contains(comment.LikedBy, identity) {
		return false, nil
	}
	comment.LikedBy = append(comment.LikedBy, identity)
	comment.Likes++
	return true, nil
}

func (r *MemoryCommentRepository) RemoveLike(_ context.Context, id primitive.ObjectID, slug, identity string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok || comment.BlogSlug != slug || comment.IsDeleted || !contains(comment.LikedBy, identity) {
		return false, nil
	}
	comment.LikedBy = remove(comment.LikedBy, identity)
	comment.Likes--
	return true, nil
}

func (r *MemoryCommentRepository) UpdateContent(_ context.Context, id primitive.ObjectID, slug, owner, content string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok || comment.BlogSlug != slug || comment.IsDeleted || comment.OwnerIdentifier != owner {
		return false, nil
	}
	comment.Content = content
	comment.IsEdited = true
	comment.UpdatedAt = at
	return true, nil
}

func (r *MemoryCommentRepository) SoftDelete(_ context.Context, id primitive.ObjectID, slug, owner, placeholder string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok || comment.BlogSlug != slug || comment.IsDeleted || comment.OwnerIdentifier != owner {
		return false, nil
	}
	comment.Content = placeholder
	comment.IsDeleted = true
	comment.UpdatedAt = at
	return true, nil
}

func cloneComment(c *models.Comment) models.Comment {
	clone := *c
	clone.LikedBy = append([]string{}, c.LikedBy...)
	if c.RootID != nil {
		rootID := *c.RootID
		clone.RootID = &rootID
	}
	return clone
}

func contains(set []string, member string) bool {
	for _, s := range set {
		if s == member {
			return true
		}
	}
	return false
}

func remove(set []string, member string) []string {
	out := set[:0]
	for _, s := range set {
		if s != member {
			out = append(out, s)
		}
	}
	return out
}
