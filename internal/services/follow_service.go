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

const (
	// FollowingPageSize is the page size of a user's following list.
	FollowingPageSize = 2
	// FollowersPageSize is the page size of a user's followers list.
	FollowersPageSize = 4
)

var (
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// FollowStatus tags the three-way answer to "does follower follow followed?".
type FollowStatus int

const (
	StateNotFollowing FollowStatus = iota
	StateSelfFollow
	StateAlreadyFollowing
)

// FollowState is the result of CheckFollow. Callers branch on Status, never
// on a boolean collapse; Edge is set only for StateAlreadyFollowing.
type FollowState struct {
	Status FollowStatus
	Edge   *models.Follow
}

// FollowEdge is an edge joined to the counterpart user's public fields, as
// returned by the following/followers listings.
type FollowEdge struct {
	ID        primitive.ObjectID `json:"id"`
	User      models.PublicUser  `json:"user"`
	CreatedAt time.Time          `json:"created_at"`
}

// FollowService is the ledger of follow edges.
type FollowService struct {
	follows *mongo.Collection
	users   *mongo.Collection
}

func NewFollowService(db *mongo.Database) *FollowService {
	return &FollowService{
		follows: db.Collection("follows"),
		users:   db.Collection("users"),
	}
}

// CheckFollow classifies the relationship between follower and followed.
// The self check runs before the storage lookup, so CheckFollow(U, U) is
// always StateSelfFollow.
func (s *FollowService) CheckFollow(ctx context.Context, follower, followed primitive.ObjectID) (FollowState, error) {
	if follower == followed {
		return FollowState{Status: StateSelfFollow}, nil
	}
	var edge models.Follow
	err := s.follows.FindOne(ctx, bson.M{"user": follower, "followed": followed}).Decode(&edge)
	if err == mongo.ErrNoDocuments {
		return FollowState{Status: StateNotFollowing}, nil
	}
	if err != nil {
		logrus.WithError(err).Error("follow lookup failed")
		return FollowState{}, err
	}
	return FollowState{Status: StateAlreadyFollowing, Edge: &edge}, nil
}

// Follow inserts the edge. Callers must have resolved CheckFollow to
// StateNotFollowing first; the unique (user, followed) index closes the race
// between two concurrent identical requests.
func (s *FollowService) Follow(ctx context.Context, follower, followed primitive.ObjectID) (*models.Follow, error) {
	edge := &models.Follow{
		User:      follower,
		Followed:  followed,
		CreatedAt: time.Now(),
	}
	res, err := s.follows.InsertOne(ctx, edge)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrAlreadyFollowing
	}
	if err != nil {
		logrus.WithError(err).Error("follow insert failed")
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		edge.ID = oid
	}
	return edge, nil
}

// Unfollow deletes the matching edge, or reports ErrNotFollowing when none
// existed.
func (s *FollowService) Unfollow(ctx context.Context, follower, followed primitive.ObjectID) error {
	res, err := s.follows.DeleteOne(ctx, bson.M{"user": follower, "followed": followed})
	if err != nil {
		logrus.WithError(err).Error("follow delete failed")
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFollowing
	}
	return nil
}

// ListFollowing returns one page of the users userID follows.
func (s *FollowService) ListFollowing(ctx context.Context, userID primitive.ObjectID, page int64) (*Page[FollowEdge], error) {
	return s.listEdges(ctx, bson.M{"user": userID}, false, page, FollowingPageSize)
}

// ListFollowers returns one page of the users following userID.
func (s *FollowService) ListFollowers(ctx context.Context, userID primitive.ObjectID, page int64) (*Page[FollowEdge], error) {
	return s.listEdges(ctx, bson.M{"followed": userID}, true, page, FollowersPageSize)
}

func (s *FollowService) listEdges(ctx context.Context, filter bson.M, counterpartIsFollower bool, page, limit int64) (*Page[FollowEdge], error) {
	total, err := s.follows.CountDocuments(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("follow count failed")
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cur, err := s.follows.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).Error("follow listing failed")
		return nil, err
	}
	var edges []models.Follow
	if err := cur.All(ctx, &edges); err != nil {
		logrus.WithError(err).Error("follow listing decode failed")
		return nil, err
	}

	projection := options.FindOne().SetProjection(bson.M{"nick": 1, "name": 1, "image": 1})
	docs := make([]FollowEdge, 0, len(edges))
	for _, edge := range edges {
		counterpart := edge.Followed
		if counterpartIsFollower {
			counterpart = edge.User
		}
		var public models.PublicUser
		err := s.users.FindOne(ctx, bson.M{"_id": counterpart}, projection).Decode(&public)
		if err != nil && err != mongo.ErrNoDocuments {
			logrus.WithError(err).Error("follow counterpart lookup failed")
			return nil, err
		}
		docs = append(docs, FollowEdge{ID: edge.ID, User: public, CreatedAt: edge.CreatedAt})
	}
	return newPage(docs, total, page, limit), nil
}
