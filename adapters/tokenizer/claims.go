package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with the role set and chain id a
// verified wallet session carries.
type SessionClaims struct {
	jwt.RegisteredClaims
	Roles   []string `json:"roles"`
	ChainID int64    `json:"chain_id,omitempty"`
}
