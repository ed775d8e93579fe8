package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dvillegas/socialnet-backend/internal/middleware"
	"github.com/dvillegas/socialnet-backend/internal/models"
	"github.com/dvillegas/socialnet-backend/internal/services"
	"github.com/dvillegas/socialnet-backend/internal/token"
	"github.com/dvillegas/socialnet-backend/pkg/utils"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Nick     string `json:"nick"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Nick     string `json:"nick"`
	Password string `json:"password"`
}

// UserHandler serves registration, login, profile and listing endpoints.
type UserHandler struct {
	users        *services.UserService
	uploads      *services.CloudinaryService
	codec        *token.Codec
	cookieMaxAge time.Duration
	secureCookie bool
}

func NewUserHandler(users *services.UserService, uploads *services.CloudinaryService, codec *token.Codec, cookieMaxAge time.Duration, secureCookie bool) *UserHandler {
	return &UserHandler{
		users:        users,
		uploads:      uploads,
		codec:        codec,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// Register handles POST /user/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Nick == "" || req.Email == "" || req.Password == "" {
		Error(w, http.StatusBadRequest, "name, nick, email and password are required")
		return
	}

	if errs := h.users.ValidateRegistration(req.Name, req.Nick, req.Email, req.Password); len(errs) > 0 {
		Error(w, http.StatusBadRequest, errs)
		return
	}

	existing, err := h.users.Exists(r.Context(), req.Nick, req.Email)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to register user")
		return
	}
	if existing != nil {
		Error(w, http.StatusConflict, "user already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	user := &models.User{
		Name:     req.Name,
		Nick:     req.Nick,
		Email:    req.Email,
		Password: hashed,
	}
	if err := h.users.Register(r.Context(), user); err != nil {
		if err == services.ErrUserExists {
			Error(w, http.StatusConflict, "user already exists")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	Success(w, http.StatusCreated, "user registered", nil)
}

// Login handles POST /user/login: verifies credentials, issues a token and
// sets the auth cookie. The cookie lifetime is independent of the claim's
// expiry; both are enforced.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Nick == "" || req.Password == "" {
		Error(w, http.StatusBadRequest, "nick and password are required")
		return
	}

	user, err := h.users.FindByNick(r.Context(), req.Nick)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if user == nil || !utils.CheckPassword(req.Password, user.Password) {
		Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	signed, err := h.codec.Issue(user)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	Success(w, http.StatusOK, "logged in", signed)
}
