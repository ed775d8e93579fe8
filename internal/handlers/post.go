package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dvillegas/socialnet-backend/internal/middleware"
	"github.com/dvillegas/socialnet-backend/internal/services"
)

type PostRequest struct {
	Text string `json:"text"`
}

// PostHandler serves post CRUD. Mutations of posts the caller does not own
// answer "post not found", indistinguishable from a genuinely missing post.
type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) identity(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
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

// Create handles POST /post/create.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		Error(w, http.StatusBadRequest, "text is required")
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req.Text)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	Success(w, http.StatusCreated, "post created", post)
}

// Update handles PUT /post/update/{postId}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postId"))
	if err != nil {
		Error(w, http.StatusNotFound, "post not found")
		return
	}
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		Error(w, http.StatusBadRequest, "text is required")
		return
	}

	owned, err := h.posts.VerifyOwnership(r.Context(), userID, postID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	if !owned {
		Error(w, http.StatusNotFound, "post not found")
		return
	}

	post, err := h.posts.Update(r.Context(), postID, req.Text)
	if err != nil {
		if err == services.ErrPostNotFound {
			Error(w, http.StatusNotFound, "post not found")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	Success(w, http.StatusOK, "post updated", post)
}

// Delete handles DELETE /post/delete/{postId}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postId"))
	if err != nil {
		Error(w, http.StatusNotFound, "post not found")
		return
	}

	owned, err := h.posts.VerifyOwnership(r.Context(), userID, postID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	if !owned {
		Error(w, http.StatusNotFound, "post not found")
		return
	}

	if err := h.posts.Delete(r.Context(), postID); err != nil {
		if err == services.ErrPostNotFound {
			Error(w, http.StatusNotFound, "post not found")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	Success(w, http.StatusOK, "post deleted", nil)
}

// ListByUser handles GET /post/user/{id} and /post/user/{id}/{page}.
func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identity(w, r); !ok {
		return
	}
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusNotFound, "user not found")
		return
	}
	page := services.NormalizePage(chi.URLParam(r, "page"))

	result, err := h.posts.ListByUser(r.Context(), userID, page)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	SuccessWithLength(w, http.StatusOK, "posts", result, len(result.Docs))
}
