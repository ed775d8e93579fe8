package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dvillegas/socialnet-backend/internal/models"
)

// PostPageSize is the page size of a user's post feed.
const PostPageSize = 5

var ErrPostNotFound = errors.New("post not found")

type PostService struct {
	posts *mongo.Collection
}

func NewPostService(db *mongo.Database) *PostService {
	return &PostService{posts: db.Collection("posts")}
}

func (s *PostService) Create(ctx context.Context, userID primitive.ObjectID, text string) (*models.Post, error) {
	post := &models.Post{
		User:      userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	res, err := s.posts.InsertOne(ctx, post)
	if err != nil {
		logrus.WithError(err).Error("post insert failed")
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid
	}
	return post, nil
}

// VerifyOwnership reports whether postID was authored by userID. A post
// authored by someone else looks exactly like a missing post to the caller.
func (s *PostService) VerifyOwnership(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	err := s.posts.FindOne(ctx, bson.M{"_id": postID, "user": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		logrus.WithError(err).Error("post ownership check failed")
		return false, err
	}
	return true, nil
}

// Update replaces the post's text. Ownership must already have been checked.
func (s *PostService) Update(ctx context.Context, postID primitive.ObjectID, text string) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := s.posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, bson.M{"$set": bson.M{"text": text}}, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPostNotFound
	}
	if err != nil {
		logrus.WithError(err).Error("post update failed")
		return nil, err
	}
	return &post, nil
}

// Delete removes the post. Ownership must already have been checked.
func (s *PostService) Delete(ctx context.Context, postID primitive.ObjectID) error {
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		logrus.WithError(err).Error("post delete failed")
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ListByUser returns one page of a user's posts in insertion order.
func (s *PostService) ListByUser(ctx context.Context, userID primitive.ObjectID, page int64) (*Page[models.Post], error) {
	filter := bson.M{"user": userID}
	total, err := s.posts.CountDocuments(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("post count failed")
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip((page - 1) * PostPageSize).
		SetLimit(PostPageSize)
	cur, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).Error("post listing failed")
		return nil, err
	}
	var docs []models.Post
	if err := cur.All(ctx, &docs); err != nil {
		logrus.WithError(err).Error("post listing decode failed")
		return nil, err
	}
	return newPage(docs, total, page, PostPageSize), nil
}
