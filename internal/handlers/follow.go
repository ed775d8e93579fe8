package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dvillegas/socialnet-backend/internal/middleware"
	"github.com/dvillegas/socialnet-backend/internal/services"
)

// FollowHandler serves the follow/unfollow operations and the follow lists.
type FollowHandler struct {
	follows *services.FollowService
}

func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

func (h *FollowHandler) identity(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		Error(w, http.StatusUnauthorized, "authentication required")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID())
	if err != nil {
		Error(w, http.StatusUnauthorized, "invalid token")
		return primitive.NilObjectID, false
	}
	return id, true
}

// Follow handles POST /follows/follow/{userId}. The three-way check runs
// first; only StateNotFollowing proceeds to the insert.
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	follower, ok := h.identity(w, r)
	if !ok {
		return
	}
	followed, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		Error(w, http.StatusNotFound, "user not found")
		return
	}

	state, err := h.follows.CheckFollow(r.Context(), follower, followed)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to follow user")
		return
	}
	switch state.Status {
	case services.StateSelfFollow:
		Error(w, http.StatusConflict, "you cannot follow yourself")
		return
	case services.StateAlreadyFollowing:
		Error(w, http.StatusConflict, "already following this user")
		return
	}

	edge, err := h.follows.Follow(r.Context(), follower, followed)
	if err != nil {
		if err == services.ErrAlreadyFollowing {
			Error(w, http.StatusConflict, "already following this user")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to follow user")
		return
	}
	Success(w, http.StatusOK, "user followed", edge)
}

// Unfollow handles DELETE /follows/unfollow/{userId}.
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	follower, ok := h.identity(w, r)
	if !ok {
		return
	}
	followed, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		Error(w, http.StatusNotFound, "user not found")
		return
	}

	state, err := h.follows.CheckFollow(r.Context(), follower, followed)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to unfollow user")
		return
	}
	if state.Status != services.StateAlreadyFollowing {
		Error(w, http.StatusNotFound, "you do not follow this user")
		return
	}

	if err := h.follows.Unfollow(r.Context(), follower, followed); err != nil {
		if err == services.ErrNotFollowing {
			Error(w, http.StatusNotFound, "you do not follow this user")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to unfollow user")
		return
	}
	Success(w, http.StatusOK, "user unfollowed", nil)
}

// ListFollowing handles GET /user/follows/{id} and /user/follows/{id}/{page}.
func (h *FollowHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	h.listEdges(w, r, h.follows.ListFollowing)
}

// ListFollowers handles GET /user/followers/{id} and /user/followers/{id}/{page}.
func (h *FollowHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	h.listEdges(w, r, h.follows.ListFollowers)
}

func (h *FollowHandler) listEdges(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID primitive.ObjectID, page int64) (*services.Page[services.FollowEdge], error)) {
	if _, ok := h.identity(w, r); !ok {
		return
	}
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusNotFound, "user not found")
		return
	}
	page := services.NormalizePage(chi.URLParam(r, "page"))

	result, err := list(r.Context(), userID, page)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list follows")
		return
	}
	SuccessWithLength(w, http.StatusOK, "follows", result, len(result.Docs))
}
