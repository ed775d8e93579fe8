package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dvillegas/socialnet-backend/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:          primitive.NewObjectID(),
		Name:        "Alice Example",
		Nick:        "alice",
		Email:       "alice@example.com",
		Description: "just here for the cat pictures",
		Image:       models.DefaultImage,
		CreatedAt:   time.Unix(1700000000, 0),
	}
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret", 30*24*time.Hour)
	user := testUser()

	signed, err := codec.Issue(user)
	require.NoError(t, err)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)

	assert.Equal(t, user.ID.Hex(), claims.UserID())
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, user.Nick, claims.Nick)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Description, claims.Description)
	assert.Equal(t, user.Image, claims.Image)
	assert.Equal(t, user.CreatedAt.Unix(), claims.CreatedAt)

	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time), "expiry must be after issued-at")
	assert.Equal(t, int64(30*24*3600), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
	assert.False(t, claims.Expired(time.Now()))
}

func TestDecodeIsIdempotent(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret", time.Hour)
	signed, err := codec.Issue(testUser())
	require.NoError(t, err)

	first, err := codec.Decode(signed)
	require.NoError(t, err)
	second, err := codec.Decode(signed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := NewCodec("right-secret", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewCodec("wrong-secret", time.Hour).Decode(signed)
	assert.Error(t, err)
}

func TestDecodeGarbage(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret", time.Hour)
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Decode(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestDecodeDoesNotCheckExpiry(t *testing.T) {
	t.Parallel()

	// A token past its expiry still decodes; rejecting it is the caller's
	// job via Claims.Expired.
	codec := NewCodec("super-secret", -time.Minute)
	signed, err := codec.Issue(testUser())
	require.NoError(t, err)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.True(t, claims.Expired(time.Now()))
}

func TestExpiredBoundary(t *testing.T) {
	t.Parallel()

	codec := NewCodec("super-secret", time.Hour)
	signed, err := codec.Issue(testUser())
	require.NoError(t, err)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)

	assert.False(t, claims.Expired(claims.ExpiresAt.Add(-time.Second)))
	assert.True(t, claims.Expired(claims.ExpiresAt.Time))
	assert.True(t, claims.Expired(claims.ExpiresAt.Add(time.Second)))
}
