package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post stored in MongoDB. The blog CRUD side of the
// application owns title/content; the engagement fields (likes, views,
// liked_by, last_viewed) are mutated only through atomic updates issued by
// the engagement service.
//
// Invariant: len(LikedBy) == Likes. Every mutation of the pair happens in a
// single document update so the invariant holds under concurrent requests.
type Post struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Slug       string             `json:"slug" bson:"slug"`
	Title      string             `json:"title" bson:"title"`
	Content    string             `json:"content,omitempty" bson:"content,omitempty"`
	Likes      int                `json:"likes" bson:"likes"`
	Views      int                `json:"views" bson:"views"`
	LikedBy    []string           `json:"likedBy" bson:"liked_by"`
	LastViewed *time.Time         `json:"lastViewed,omitempty" bson:"last_viewed,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

// EngagementStats is the read model for a post's engagement fields. Posts
// created before the engagement fields existed decode to zero values, so the
// defaults are 0/0/empty without any migration.
type EngagementStats struct {
	Likes   int      `json:"likes" bson:"likes"`
	Views   int      `json:"views" bson:"views"`
	LikedBy []string `json:"likedBy" bson:"liked_by"`
}

// Stats actions accepted by POST /blogs/:slug/stats.
const (
	StatsActionView   = "view"
	StatsActionLike   = "like"
	StatsActionUnlike = "unlike"
)

// StatsRequest defines the request body for recording an engagement event.
type StatsRequest struct {
	Action         string `json:"action" validate:"required,oneof=view like unlike"`
	UserIdentifier string `json:"userIdentifier,omitempty"`
}

// StatsResponse is returned by both stats endpoints.
type StatsResponse struct {
	Likes   int      `json:"likes"`
	Views   int      `json:"views"`
	LikedBy []string `json:"likedBy"`
	IsLiked bool     `json:"isLiked"`
}
