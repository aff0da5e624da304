package tokens

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is used when the caller does not specify a lifetime.
const DefaultTTL = 24 * time.Hour

var (
	ErrNoSecret     = errors.New("token signing secret is not configured")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	Secret []byte
	TTL    time.Duration
}

// Issue signs a token carrying the user's identity. A non-positive ttl
// falls back to the service TTL, then to DefaultTTL.
func (s *Service) Issue(userID, email, role string, ttl time.Duration) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrNoSecret
	}
	if ttl <= 0 {
		ttl = s.TTL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.Secret)
}

// Parse verifies the signature and expiry and returns the decoded claims.
// Expired and malformed/forged tokens fail with distinct errors.
func (s *Service) Parse(tokenStr string) (*Claims, error) {
	if len(s.Secret) == 0 {
		return nil, ErrNoSecret
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}

	return &claims, nil
}

// ExtractBearer pulls the raw token out of an Authorization header value.
// Anything that is not exactly "Bearer <token>" yields an empty string.
func ExtractBearer(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
