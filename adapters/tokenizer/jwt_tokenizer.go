package tokenizer

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

const audienceSession = "asiqtix:session"

// JWTTokenizer issues and verifies HS256 session tokens. Sessions are
// stateless: integrity rests entirely on the secret, and issued tokens
// cannot be revoked before their natural expiry.
type JWTTokenizer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTTokenizer creates a tokenizer signing with the given secret and
// session lifetime.
func NewJWTTokenizer(secret []byte, ttl time.Duration) *JWTTokenizer {
	return &JWTTokenizer{secret: secret, ttl: ttl}
}

// Issue produces a signed session token for the identity.
func (j *JWTTokenizer) Issue(identity core.Identity) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   core.NormalizeAddress(identity.Address),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audienceSession},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Roles:   identity.Roles,
		ChainID: identity.ChainID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Verify parses and validates a session token, returning the embedded
// identity. Any parse, signature or expiry failure maps to ErrInvalidToken.
func (j *JWTTokenizer) Verify(tokenStr string) (core.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, core.ErrInvalidToken
		}
		return j.secret, nil
	}, jwt.WithAudience(audienceSession), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return core.Identity{}, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return core.Identity{}, core.ErrInvalidToken
	}

	return core.Identity{
		Address: claims.Subject,
		Roles:   claims.Roles,
		ChainID: claims.ChainID,
	}, nil
}

var _ ports.Tokenizer = (*JWTTokenizer)(nil)
