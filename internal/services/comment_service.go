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

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeletedPlaceholder replaces the content of soft-deleted comments. The
// record itself stays so existing replies keep resolving their root.
const DeletedPlaceholder = "[This comment has been deleted]"

// CommentService owns the comment lifecycle: creation, two-level threading,
// per-user like toggling, owner-token edits and soft deletion.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, m *metrics.Metrics) *CommentService {
	return &CommentService{comments: comments, posts: posts, metrics: m, now: time.Now}
}

// Create validates and persists a new comment or reply. A reply's parent
// must exist on the same blog, be non-deleted, and itself be a root; a
// reply to a reply is rejected as a missing parent.
func (s *CommentService) Create(ctx context.Context, slug string, req models.CreateCommentRequest, identity string) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.AuthorName) == "" || strings.TrimSpace(req.AuthorEmail) == "" {
		return nil, fmt.Errorf("%w: authorName and authorEmail are required", apperrors.ErrValidation)
	}

	if _, err := s.posts.FindBySlug(ctx, slug); err != nil {
		return nil, err
	}

	var rootID *primitive.ObjectID
	if req.ParentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent comment", apperrors.ErrNotFound)
		}
		parent, err := s.comments.FindByID(ctx, id, slug)
		if err != nil {
			return nil, fmt.Errorf("%w: parent comment", apperrors.ErrNotFound)
		}
		if parent.IsDeleted || !parent.IsRoot() {
			return nil, fmt.Errorf("%w: parent comment", apperrors.ErrNotFound)
		}
		rootID = &parent.ID
	}

	now := s.now()
	comment := &models.Comment{
		BlogSlug: slug,
		RootID:   rootID,
		Content:  content,
		Author: models.Author{
			Name:   strings.TrimSpace(req.AuthorName),
			Email:  strings.TrimSpace(req.AuthorEmail),
			Avatar: strings.TrimSpace(req.AuthorAvatar),
		},
		LikedBy:         []string{},
		OwnerIdentifier: identity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, err
	}
	s.metrics.CommentsCreated.Inc()
	return comment, nil
}

// ToggleLike flips the caller's like on a comment, with the same atomic
// contract as post likes. Soft-deleted comments are treated as absent.
func (s *CommentService) ToggleLike(ctx context.Context, id primitive.ObjectID, slug, identity string) (*models.CommentLikeResponse, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, fmt.Errorf("%w: userId is required", apperrors.ErrValidation)
	}

	liked := false
	applied, err := s.comments.AddLike(ctx, id, slug, identity)
	if err != nil {
		return nil, err
	}
	if applied {
		liked = true
		s.metrics.ToggleApplied("comment", true)
	} else {
		applied, err = s.comments.RemoveLike(ctx, id, slug, identity)
		if err != nil {
			return nil, err
		}
		if applied {
			s.metrics.ToggleApplied("comment", false)
		}
	}

	comment, err := s.comments.FindByID(ctx, id, slug)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, fmt.Errorf("%w: comment", apperrors.ErrNotFound)
	}
	if !applied {
		// Both conditional halves missed; report current membership.
		liked = memberOf(comment.LikedBy, identity)
	}
	return &models.CommentLikeResponse{Likes: comment.Likes, IsLiked: liked}, nil
}

// Edit updates a comment's content when the supplied owner token matches
// the one captured at creation.
func (s *CommentService) Edit(ctx context.Context, id primitive.ObjectID, slug, content, owner string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("%w: userIdentifier is required", apperrors.ErrValidation)
	}

	applied, err := s.comments.UpdateContent(ctx, id, slug, owner, content, s.now())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.classifyOwnerFailure(ctx, id, slug)
	}
	s.metrics.CommentsEdited.Inc()
	return s.comments.FindByID(ctx, id, slug)
}

// Delete soft-deletes a comment: the content becomes the placeholder and
// is_deleted flips, permanently. Replies stay visible.
func (s *CommentService) Delete(ctx context.Context, id primitive.ObjectID, slug, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return fmt.Errorf("%w: userIdentifier is required", apperrors.ErrValidation)
	}

	applied, err := s.comments.SoftDelete(ctx, id, slug, owner, DeletedPlaceholder, s.now())
	if err != nil {
		return err
	}
	if !applied {
		return s.classifyOwnerFailure(ctx, id, slug)
	}
	s.metrics.CommentsDeleted.Inc()
	return nil
}

// classifyOwnerFailure distinguishes why an ownership-filtered update
// matched nothing: absent or deleted comments are NotFound, an existing
// live comment means the owner token did not match.
func (s *CommentService) classifyOwnerFailure(ctx context.Context, id primitive.ObjectID, slug string) error {
	comment, err := s.comments.FindByID(ctx, id, slug)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return fmt.Errorf("%w: comment", apperrors.ErrNotFound)
	}
	return fmt.Errorf("%w: you are not the owner of this comment", apperrors.ErrForbidden)
}

// CountRoots counts non-deleted top-level comments; replies are excluded.
func (s *CommentService) CountRoots(ctx context.Context, slug string) (int64, error) {
	return s.comments.CountRoots(ctx, slug)
}

// Thread assembles the comment thread for a blog: roots ordered by sort
// mode, each carrying its replies oldest first. The result is recomputed
// fresh on every call; replies are fetched in a single batched query.
func (s *CommentService) Thread(ctx context.Context, slug, sortMode string) ([]models.CommentThread, error) {
	if sortMode != models.SortPopular {
		sortMode = models.SortNewest
	}

	roots, err := s.comments.FindRoots(ctx, slug, sortMode)
	if err != nil {
		return nil, err
	}

	rootIDs := make([]primitive.ObjectID, len(roots))
	for i, root := range roots {
		rootIDs[i] = root.ID
	}
	replies, err := s.comments.FindReplies(ctx, slug, rootIDs)
	if err != nil {
		return nil, err
	}

	byRoot := make(map[primitive.ObjectID][]models.Comment, len(roots))
	for _, reply := range replies {
		byRoot[*reply.RootID] = append(byRoot[*reply.RootID], reply)
	}

	threads := make([]models.CommentThread, len(roots))
	for i, root := range roots {
		children := byRoot[root.ID]
		if children == nil {
			children = []models.Comment{}
		}
		threads[i] = models.CommentThread{Comment: root, Replies: children}
	}
	return threads, nil
}
