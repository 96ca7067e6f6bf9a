package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every verification failure: bad signature, malformed
// token, expired claims. Callers must not learn which check failed.
var ErrTokenInvalid = errors.New("invalid token")

// Principal is the minimal authenticated identity carried inside a token.
type Principal struct {
	Email string
	Name  string
}

// Claims is the wire form of a session token payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies session tokens with a single symmetric secret.
// Tokens are stateless: nothing is retained after signing, expiry is the only
// termination path.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

var defaultManager *JWTManager

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	m := &JWTManager{secret: []byte(secret), ttl: ttl}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes).
func DefaultJWT() *JWTManager { return defaultManager }

// Issue signs a token for the principal. Tokens carry an issued-at claim, so
// two tokens for the same principal are not byte-equal.
func (m *JWTManager) Issue(p Principal) (string, time.Time, error) {
	exp := time.Now().Add(m.ttl)
	claims := &Claims{
		Email: p.Email,
		Name:  p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Verify checks signature and expiry and returns the embedded principal.
// All failures collapse into ErrTokenInvalid.
func (m *JWTManager) Verify(tokenStr string) (Principal, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return Principal{}, ErrTokenInvalid
	}
	return Principal{Email: claims.Email, Name: claims.Name}, nil
}
