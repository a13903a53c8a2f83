// Package service contains the business logic behind the HTTP handlers.
package service

import (
	"context"
	"fmt"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// AuthService drives the SIWE handshake: nonce issuance, signature
// verification and session issuance.
type AuthService struct {
	nonces    ports.NonceStore
	verifier  ports.SignatureVerifier
	tokenizer ports.Tokenizer
	admins    ports.AdminRegistry
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	nonces ports.NonceStore,
	verifier ports.SignatureVerifier,
	tokenizer ports.Tokenizer,
	admins ports.AdminRegistry,
) *AuthService {
	return &AuthService{
		nonces:    nonces,
		verifier:  verifier,
		tokenizer: tokenizer,
		admins:    admins,
	}
}

// RequestNonce issues a fresh challenge for the address. A repeated request
// replaces the previous nonce.
func (s *AuthService) RequestNonce(ctx context.Context, address string) (string, error) {
	if !core.IsValidAddress(address) {
		return "", core.ErrInvalidAddress
	}

	nonce, err := s.nonces.Issue(ctx, address)
	if err != nil {
		return "", fmt.Errorf("issue nonce: %w", err)
	}
	return nonce, nil
}

// Login verifies a signed message against the recorded nonce and mints a
// session token. Roles are derived from the admin allow-list at issuance
// time only.
func (s *AuthService) Login(ctx context.Context, message, signature string) (core.Identity, string, error) {
	address, chainID, err := s.verifier.Verify(ctx, message, signature)
	if err != nil {
		return core.Identity{}, "", err
	}

	roles, err := s.rolesFor(ctx, address)
	if err != nil {
		return core.Identity{}, "", err
	}

	identity := core.Identity{
		Address: address,
		Roles:   roles,
		ChainID: chainID,
	}

	token, err := s.tokenizer.Issue(identity)
	if err != nil {
		return core.Identity{}, "", fmt.Errorf("issue session token: %w", err)
	}

	return identity, token, nil
}

// ValidateToken verifies a session token and returns its identity.
func (s *AuthService) ValidateToken(token string) (core.Identity, error) {
	return s.tokenizer.Verify(token)
}

// IsAdmin answers allow-list membership for an address.
func (s *AuthService) IsAdmin(ctx context.Context, address string) (bool, error) {
	return s.admins.IsAdmin(ctx, address)
}

func (s *AuthService) rolesFor(ctx context.Context, address string) ([]string, error) {
	admin, err := s.admins.IsAdmin(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("check admin list: %w", err)
	}
	if admin {
		return []string{core.RoleAdmin}, nil
	}
	return []string{core.RoleCustomer}, nil
}
