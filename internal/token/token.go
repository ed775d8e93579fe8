package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dvillegas/socialnet-backend/internal/models"
)

// ErrInvalidToken is returned when a token fails signature or shape checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity payload embedded in an auth token. It is built from
// a stored user at login, carried inside the token, and attached to the
// request context on each authenticated call. It is never persisted.
type Claims struct {
	jwt.RegisteredClaims
	Name        string `json:"name"`
	Nick        string `json:"nick"`
	Email       string `json:"email"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image"`
	CreatedAt   int64  `json:"created_at"`
}

// UserID returns the subject of the claim, the hex ObjectID of the user.
func (c *Claims) UserID() string {
	return c.Subject
}

// Expired reports whether the claim's expiry is at or before now. Decode does
// not check expiry; callers are responsible for calling this.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

// Codec issues and decodes signed identity tokens. It is a pure function of
// its inputs, the secret and the clock.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user with iat = now and exp = now + ttl.
// Timestamps are whole-second Unix values.
func (c *Codec) Issue(user *models.User) (string, error) {
	now := time.Now().Truncate(time.Second)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Name:        user.Name,
		Nick:        user.Nick,
		Email:       user.Email,
		Description: user.Description,
		Image:       user.Image,
		CreatedAt:   user.CreatedAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and parses the payload. It deliberately does
// NOT validate expiry: a successfully decoded token may still be expired, and
// the caller must check Claims.Expired against its own clock.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
