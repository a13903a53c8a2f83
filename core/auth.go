package core

import (
	"regexp"
	"strings"
	"time"
)

// Role names assigned to verified addresses.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// NormalizeAddress lowercases and trims a wallet address.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsValidAddress reports whether addr normalizes to a 0x-prefixed 40-hex-digit address.
func IsValidAddress(addr string) bool {
	return addressPattern.MatchString(NormalizeAddress(addr))
}

// SignInMessage is the parsed form of a submitted sign-in message. It is
// untrusted input until the recovered signer is confirmed against Address.
type SignInMessage struct {
	Domain         string    // Optional origin binder
	Address        string    // Address claimed inside the message
	URI            string    // Optional
	Version        string    // Optional
	ChainID        int64     // 0 when absent
	Nonce          string    // Server-issued challenge echoed back
	IssuedAt       time.Time // Zero when absent
	ExpirationTime time.Time // Zero when absent
	Raw            string    // Exact bytes the wallet signed
}

// Identity is the outcome of a successful handshake or a verified session token.
type Identity struct {
	Address string
	Roles   []string
	ChainID int64
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	for _, r := range id.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
