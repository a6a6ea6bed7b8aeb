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

// CommentRepository defines the comment storage operations. Ownership checks
// on edit and delete live inside the update filter, so check and mutation
// are one atomic step.
type CommentRepository interface {
	Insert(ctx context.Context, comment *models.Comment) error

	// FindByID retrieves a comment scoped to a blog. Soft-deleted comments
	// are returned; callers inspect IsDeleted.
	FindByID(ctx context.Context, id primitive.ObjectID, slug string) (*models.Comment, error)

	// FindRoots returns non-deleted top-level comments for a blog ordered
	// by sort mode (models.SortNewest or models.SortPopular).
	FindRoots(ctx context.Context, slug, sort string) ([]models.Comment, error)

	// FindReplies returns non-deleted replies for the given roots in one
	// query, oldest first.
	FindReplies(ctx context.Context, slug string, rootIDs []primitive.ObjectID) ([]models.Comment, error)

	CountRoots(ctx context.Context, slug string) (int64, error)

	// AddLike / RemoveLike carry the same atomic membership+counter
	// contract as the post repository. They are scoped to a blog and never
	// match deleted comments.
	AddLike(ctx context.Context, id primitive.ObjectID, slug, identity string) (bool, error)
	RemoveLike(ctx context.Context, id primitive.ObjectID, slug, identity string) (bool, error)

	// UpdateContent edits a comment if and only if owner matches the
	// stored owner_identifier. Reports whether the update applied.
	UpdateContent(ctx context.Context, id primitive.ObjectID, slug, owner, content string, at time.Time) (bool, error)

	// SoftDelete marks the comment deleted and swaps its content for the
	// placeholder, keeping the record so replies still resolve.
	SoftDelete(ctx context.Context, id primitive.ObjectID, slug, owner, placeholder string, at time.Time) (bool, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB.
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository.
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// Insert creates a new comment.
func (r *MongoCommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if comment.LikedBy == nil {
		comment.LikedBy = []string{}
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return storageErr(err)
}

// FindByID retrieves a comment by id within a blog.
func (r *MongoCommentRepository) FindByID(ctx context.Context, id primitive.ObjectID, slug string) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "blog_slug": slug}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &comment, nil
}

// FindRoots retrieves top-level comments ordered by sort mode.
func (r *MongoCommentRepository) FindRoots(ctx context.Context, slug, sort string) ([]models.Comment, error) {
	order := bson.D{{Key: "created_at", Value: -1}}
	if sort == models.SortPopular {
		order = bson.D{{Key: "likes", Value: -1}, {Key: "created_at", Value: -1}}
	}
	filter := bson.M{"blog_slug": slug, "root_id": nil, "is_deleted": false}
	return r.find(ctx, filter, order)
}

// FindReplies retrieves replies for a set of roots, oldest first.
func (r *MongoCommentRepository) FindReplies(ctx context.Context, slug string, rootIDs []primitive.ObjectID) ([]models.Comment, error) {
	if len(rootIDs) == 0 {
		return []models.Comment{}, nil
	}
	filter := bson.M{
		"blog_slug":  slug,
		"root_id":    bson.M{"$in": rootIDs},
		"is_deleted": false,
	}
	return r.find(ctx, filter, bson.D{{Key: "created_at", Value: 1}})
}

func (r *MongoCommentRepository) find(ctx context.Context, filter bson.M, order bson.D) ([]models.Comment, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(order))
	if err != nil {
		return nil, storageErr(err)
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, storageErr(err)
	}
	return comments, nil
}

// CountRoots counts non-deleted top-level comments for a blog.
func (r *MongoCommentRepository) CountRoots(ctx context.Context, slug string) (int64, error) {
	filter := bson.M{"blog_slug": slug, "root_id": nil, "is_deleted": false}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}

// AddLike applies the insert-if-absent half of the comment like toggle.
func (r *MongoCommentRepository) AddLike(ctx context.Context, id primitive.ObjectID, slug, identity string) (bool, error) {
	filter := bson.M{"_id": id, "blog_slug": slug, "is_deleted": false, "liked_by": bson.M{"$ne": identity}}
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

// RemoveLike applies the remove-if-present half of the comment like toggle.
func (r *MongoCommentRepository) RemoveLike(ctx context.Context, id primitive.ObjectID, slug, identity string) (bool, error) {
	filter := bson.M{"_id": id, "blog_slug": slug, "is_deleted": false, "liked_by": identity}
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

// UpdateContent edits a comment when the owner token matches.
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, slug, owner, content string, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":              id,
		"blog_slug":        slug,
		"is_deleted":       false,
		"owner_identifier": owner,
	}
	update := bson.M{"$set": bson.M{
		"content":    content,
		"is_edited":  true,
		"updated_at": at,
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, storageErr(err)
	}
	return res.MatchedCount > 0, nil
}

// SoftDelete marks a comment deleted when the owner token matches.
func (r *MongoCommentRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, slug, owner, placeholder string, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":              id,
		"blog_slug":        slug,
		"is_deleted":       false,
		"owner_identifier": owner,
	}
	update := bson.M{"$set": bson.M{
		"content":    placeholder,
		"is_deleted": true,
		"updated_at": at,
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, storageErr(err)
	}
	return res.MatchedCount > 0, nil
}
