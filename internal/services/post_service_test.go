package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func postDoc(id, author primitive.ObjectID, text string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user", Value: author},
		{Key: "text", Value: text},
		{Key: "created_at", Value: primitive.NewDateTimeFromTime(time.Unix(1700000000, 0))},
	}
}

func TestVerifyOwnership(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("own post", func(mt *mtest.T) {
		s := NewPostService(mt.DB)
		author, postID := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialnet.posts", mtest.FirstBatch, postDoc(postID, author, "hello")))

		owned, err := s.VerifyOwnership(context.Background(), author, postID)
		require.NoError(mt, err)
		assert.True(mt, owned)
	})

	mt.Run("someone else's post looks missing", func(mt *mtest.T) {
		s := NewPostService(mt.DB)
		stranger, postID := primitive.NewObjectID(), primitive.NewObjectID()
		// The (post, user) filter matches nothing for a non-author, which
		// is indistinguishable from the post not existing.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialnet.posts", mtest.FirstBatch))

		owned, err := s.VerifyOwnership(context.Background(), stranger, postID)
		require.NoError(mt, err)
		assert.False(mt, owned)
	})
}

func TestPostUpdate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("text replaced", func(mt *mtest.T) {
		s := NewPostService(mt.DB)
		author, postID := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: postDoc(postID, author, "updated text"),
		}))

		post, err := s.Update(context.Background(), postID, "updated text")
		require.NoError(mt, err)
		assert.Equal(mt, postID, post.ID)
		assert.Equal(mt, "updated text", post.Text)
	})

	mt.Run("missing post", func(mt *mtest.T) {
		s := NewPostService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		_, err := s.Update(context.Background(), primitive.NewObjectID(), "whatever")
		assert.ErrorIs(mt, err, ErrPostNotFound)
	})
}

func TestPostDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("removed", func(mt *mtest.T) {
		s := NewPostService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, s.Delete(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("missing post", func(mt *mtest.T) {
		s := NewPostService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := s.Delete(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrPostNotFound)
	})
}
