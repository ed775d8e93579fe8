package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dvillegas/socialnet-backend/internal/middleware"
	"github.com/dvillegas/socialnet-backend/internal/services"
	"github.com/dvillegas/socialnet-backend/internal/token"
)

func followRouter(mt *mtest.T, codec *token.Codec) *chi.Mux {
	h := NewFollowHandler(services.NewFollowService(mt.DB))
	r := chi.NewRouter()
	r.Route("/follows", func(r chi.Router) {
		r.Use(middleware.Auth(codec))
		r.Post("/follow/{userId}", h.Follow)
		r.Delete("/unfollow/{userId}", h.Unfollow)
	})
	return r
}

func TestFollowSelfRejected(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("conflict without touching storage", func(mt *mtest.T) {
		codec := token.NewCodec("test-secret", time.Hour)
		router := followRouter(mt, codec)

		me := primitive.NewObjectID()
		req := httptest.NewRequest(http.MethodPost, "/follows/follow/"+me.Hex(), nil)
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: issueFor(mt, codec, me, "alice")})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(mt, http.StatusConflict, rec.Code)
		env := decodeEnvelope(mt, rec.Body.String())
		assert.JSONEq(mt, `"you cannot follow yourself"`, string(env.Message))
	})
}

func TestFollowDuplicateRejected(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing edge", func(mt *mtest.T) {
		codec := token.NewCodec("test-secret", time.Hour)
		router := followRouter(mt, codec)

		alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialnet.follows", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user", Value: alice},
			{Key: "followed", Value: bob},
			{Key: "created_at", Value: primitive.NewDateTimeFromTime(time.Unix(1700000000, 0))},
		}))

		req := httptest.NewRequest(http.MethodPost, "/follows/follow/"+bob.Hex(), nil)
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: issueFor(mt, codec, alice, "alice")})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(mt, http.StatusConflict, rec.Code)
		env := decodeEnvelope(mt, rec.Body.String())
		assert.JSONEq(mt, `"already following this user"`, string(env.Message))
	})
}

func TestUnfollowWithoutEdge(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("not found", func(mt *mtest.T) {
		codec := token.NewCodec("test-secret", time.Hour)
		router := followRouter(mt, codec)

		alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialnet.follows", mtest.FirstBatch))

		req := httptest.NewRequest(http.MethodDelete, "/follows/unfollow/"+bob.Hex(), nil)
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: issueFor(mt, codec, alice, "alice")})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(mt, http.StatusNotFound, rec.Code)
	})
}

func TestFollowSuccess(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("edge created", func(mt *mtest.T) {
		codec := token.NewCodec("test-secret", time.Hour)
		router := followRouter(mt, codec)

		alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "socialnet.follows", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		req := httptest.NewRequest(http.MethodPost, "/follows/follow/"+bob.Hex(), nil)
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: issueFor(mt, codec, alice, "alice")})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(mt, http.StatusOK, rec.Code)
		env := decodeEnvelope(mt, rec.Body.String())
		assert.Equal(mt, "success", env.Status)
	})
}
