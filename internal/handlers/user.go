package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dvillegas/socialnet-backend/internal/middleware"
	"github.com/dvillegas/socialnet-backend/internal/services"
)

// maxUploadSize caps avatar uploads at 10MB.
const maxUploadSize = 10 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Profile handles GET /user/profile/{nick}.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	nick := chi.URLParam(r, "nick")
	user, err := h.users.FindByNick(r.Context(), nick)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if user == nil {
		Error(w, http.StatusNotFound, "user not found")
		return
	}
	Success(w, http.StatusOK, "user profile", user)
}

// Update handles PUT /user/update. At least one field must be present.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var update services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if update.Empty() {
		Error(w, http.StatusBadRequest, "no fields to update")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID())
	if err != nil {
		Error(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		switch err {
		case services.ErrNickTaken:
			Error(w, http.StatusConflict, "nick already taken")
		case services.ErrUserNotFound:
			Error(w, http.StatusNotFound, "user not found")
		default:
			Error(w, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}
	Success(w, http.StatusOK, "profile updated", user)
}

// Upload handles POST /user/upload: a multipart "file" field holding the new
// avatar. Non-image files are removed from temp storage and rejected.
func (h *UserHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if h.uploads == nil {
		Error(w, http.StatusInternalServerError, "upload service unavailable")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		Error(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		Error(w, http.StatusBadRequest, "only jpeg, jpg, png and gif files are accepted")
		return
	}

	imageRef, err := h.uploads.UploadAvatar(r.Context(), file)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to upload file")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID())
	if err != nil {
		Error(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := h.users.UpdateImage(r.Context(), userID, imageRef)
	if err != nil {
		if err == services.ErrUserNotFound {
			Error(w, http.StatusNotFound, "user not found")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to update image")
		return
	}
	Success(w, http.StatusOK, "image uploaded", user)
}

// List handles GET /user/list and /user/list/{page}.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := services.NormalizePage(chi.URLParam(r, "page"))
	result, err := h.users.List(r.Context(), page)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	SuccessWithLength(w, http.StatusOK, "users", result, len(result.Docs))
}
