package repositories

import (
	"context"
	"errors"
	"time"

	"blogpulse/internal/apperrors"
	"blogpulse/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the post-side storage operations the engagement
// service relies on. Counter/set mutations are single atomic document
// updates; there is deliberately no read-modify-write path.
type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) error
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	EngagementStats(ctx context.Context, slug string) (*models.EngagementStats, error)

	// RecordView increments views and stamps last_viewed in one update.
	// Returns ErrNotFound when the slug is unknown.
	RecordView(ctx context.Context, slug string, at time.Time) error

	// AddLike adds identity to liked_by and increments likes, conditioned
	// on identity not already being a member. Reports whether the update
	// applied; false means the post is absent or the identity already
	// liked it (the caller distinguishes).
	AddLike(ctx context.Context, slug, identity string) (bool, error)

	// RemoveLike is the inverse: pull identity and decrement likes,
	// conditioned on membership.
	RemoveLike(ctx context.Context, slug, identity string) (bool, error)
}

// MongoPostRepository implements PostRepository for MongoDB.
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// Insert creates a new post with zeroed engagement fields.
func (r *MongoPostRepository) Insert(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return storageErr(err)
}

// FindBySlug retrieves a post by its slug.
func (r *MongoPostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &post, nil
}

// EngagementStats retrieves only the engagement fields of a post. Documents
// written before the fields existed decode to zero values.
func (r *MongoPostRepository) EngagementStats(ctx context.Context, slug string) (*models.EngagementStats, error) {
	projection := options.FindOne().SetProjection(bson.M{"likes": 1, "views": 1, "liked_by": 1})
	var stats models.EngagementStats
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}, projection).Decode(&stats)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageErr(err)
	}
	if stats.LikedBy == nil {
		stats.LikedBy = []string{}
	}
	return &stats, nil
}

// RecordView increments the view counter and stamps last_viewed atomically.
func (r *MongoPostRepository) RecordView(ctx context.Context, slug string, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{"views": 1},
		"$set": bson.M{"last_viewed": at},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"slug": slug}, update)
	if err != nil {
		return storageErr(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddLike applies the insert-if-absent half of the like toggle. The filter
// requires the identity to be outside liked_by, so a concurrent duplicate
// matches nothing and the paired $inc never runs without the set change.
func (r *MongoPostRepository) AddLike(ctx context.Context, slug, identity string) (bool, error) {
	filter := bson.M{"slug": slug, "liked_by": bson.M{"$ne": identity}}
	update := bson.M{
		"$addToSet": bson.M{"liked_by": identity},
		"$inc":      bson.M{"likes": 1},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, storageErr(err)
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLike applies the remove-if-present half of the like toggle.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, slug, identity string) (bool, error) {
	filter := bson.M{"slug": slug, "liked_by": identity}
	update := bson.M{
		"$pull": bson.M{"liked_by": identity},
		"$inc":  bson.M{"likes": -1},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, storageErr(err)
	}
	return res.ModifiedCount > 0, nil
}
