package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// Claims defines the JWT claims structure.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenStatus is the outcome of verifying a token. Expired and Invalid are
// distinct so callers can surface different messages for each.
type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenExpired
	TokenInvalid
)

// Issuer creates and verifies signed tokens with a process-wide symmetric
// secret. Verification is entirely offline: validity depends only on the
// signature and the embedded expiry.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer signing with the given secret.
func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret, ttl: TokenTTL, now: time.Now}
}

// Issue creates a new HS256-signed token for the given user, expiring TokenTTL
// from now.
func (i *Issuer) Issue(userID int64, username string) (string, error) {
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(i.now().Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses and validates a token string. The signing method is pinned to
// HS256; a token signed any other way is Invalid regardless of its contents.
func (i *Issuer) Verify(tokenStr string) (*Claims, TokenStatus) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, TokenExpired
		}
		return nil, TokenInvalid
	}
	if !token.Valid {
		return nil, TokenInvalid
	}
	return claims, TokenValid
}
