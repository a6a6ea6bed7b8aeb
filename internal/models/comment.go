package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is the free-form, unverified author block attached to a comment.
type Author struct {
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Comment represents a comment on a blog post. Threading is two levels deep
// by construction: a root comment has RootID == nil, a reply carries the id
// of the root it hangs under. Because replies reference the root directly
// there is no way to express a reply to a reply.
//
// OwnerIdentifier is an opaque bearer token captured at creation. It is the
// only edit/delete credential and carries no cryptographic guarantee; anyone
// holding the string owns the comment.
type Comment struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	BlogSlug        string              `json:"blogSlug" bson:"blog_slug"`
	RootID          *primitive.ObjectID `json:"parentId" bson:"root_id,omitempty"`
	Content         string              `json:"content" bson:"content"`
	Author          Author              `json:"author" bson:"author"`
	Likes           int                 `json:"likes" bson:"likes"`
	LikedBy         []string            `json:"likedBy" bson:"liked_by"`
	IsEdited        bool                `json:"isEdited" bson:"is_edited"`
	IsDeleted       bool                `json:"isDeleted" bson:"is_deleted"`
	OwnerIdentifier string              `json:"ownerIdentifier" bson:"owner_identifier"`
	CreatedAt       time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updated_at"`
}

// IsRoot reports whether the comment is a top-level comment.
func (c *Comment) IsRoot() bool {
	return c.RootID == nil
}

// CommentThread is one root comment with its replies in conversational
// (oldest first) order.
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}

// Sort modes for GET /blogs/:slug/comments.
const (
	SortNewest  = "newest"
	SortPopular = "popular"
)

// CreateCommentRequest defines the request body for creating a comment or a
// reply. ParentID, when set, must name an existing root comment on the same
// blog.
type CreateCommentRequest struct {
	Content      string `json:"content" validate:"required"`
	ParentID     string `json:"parentId,omitempty"`
	AuthorName   string `json:"authorName" validate:"required,max=100"`
	AuthorEmail  string `json:"authorEmail" validate:"required,email"`
	AuthorAvatar string `json:"authorAvatar,omitempty" validate:"omitempty,url"`
}

// UpdateCommentRequest defines the request body for editing a comment.
type UpdateCommentRequest struct {
	Content        string `json:"content" validate:"required"`
	UserIdentifier string `json:"userIdentifier,omitempty"`
}

// DeleteCommentRequest defines the request body for deleting a comment.
type DeleteCommentRequest struct {
	UserIdentifier string `json:"userIdentifier,omitempty"`
}

// CommentLikeRequest defines the request body for toggling a comment like.
type CommentLikeRequest struct {
	UserID string `json:"userId,omitempty"`
}

// CommentLikeResponse is returned by the comment like toggle endpoint.
type CommentLikeResponse struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}

// CommentCountResponse is returned by GET /blogs/:slug/comments/count.
type CommentCountResponse struct {
	Count int64 `json:"count"`
}
