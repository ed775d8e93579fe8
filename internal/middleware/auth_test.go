package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dvillegas/socialnet-backend/internal/models"
	"github.com/dvillegas/socialnet-backend/internal/token"
)

func authedUser() *models.User {
	return &models.User{
		ID:        primitive.NewObjectID(),
		Name:      "Alice Example",
		Nick:      "alice",
		Email:     "alice@example.com",
		Image:     models.DefaultImage,
		CreatedAt: time.Unix(1700000000, 0),
	}
}

// gated wraps a probe handler that records the claims Auth attached.
func gated(codec *token.Codec) (http.Handler, **token.Claims) {
	var seen *token.Claims
	handler := Auth(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestAuthNoCookie(t *testing.T) {
	t.Parallel()

	handler, seen := gated(token.NewCodec("secret", time.Hour))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, *seen)
	assert.JSONEq(t, `{"status":"error","message":"authentication required"}`, rec.Body.String())
}

func TestAuthInvalidToken(t *testing.T) {
	t.Parallel()

	handler, seen := gated(token.NewCodec("secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, *seen)
}

func TestAuthWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := token.NewCodec("other-secret", time.Hour).Issue(authedUser())
	require.NoError(t, err)

	handler, seen := gated(token.NewCodec("secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: signed})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, *seen)
}

func TestAuthExpiredToken(t *testing.T) {
	t.Parallel()

	// The signature verifies; expiry alone must cause the rejection.
	codec := token.NewCodec("secret", -time.Minute)
	signed, err := codec.Issue(authedUser())
	require.NoError(t, err)

	handler, seen := gated(codec)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: signed})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, *seen)
}

func TestAuthValidToken(t *testing.T) {
	t.Parallel()

	codec := token.NewCodec("secret", time.Hour)
	user := authedUser()
	signed, err := codec.Issue(user)
	require.NoError(t, err)

	handler, seen := gated(codec)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: signed})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, *seen)
	assert.Equal(t, user.ID.Hex(), (*seen).UserID())
	assert.Equal(t, "alice", (*seen).Nick)
}

func TestAuthQuotedCookieValue(t *testing.T) {
	t.Parallel()

	// Intermediate layers may re-serialize the cookie with quotes around
	// the token; the gate strips them before decoding.
	codec := token.NewCodec("secret", time.Hour)
	signed, err := codec.Issue(authedUser())
	require.NoError(t, err)

	handler, seen := gated(codec)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "'" + signed + "'"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, *seen)
}
