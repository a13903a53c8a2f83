// Package http wires the gin handlers, guards and router for the API.
package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/service"
)

// AuthHandlers contains HTTP handlers for the SIWE handshake.
type AuthHandlers struct {
	auth *service.AuthService
	env  string
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(auth *service.AuthService, env string) *AuthHandlers {
	return &AuthHandlers{auth: auth, env: env}
}

// Health reports liveness.
func (h *AuthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"env":  h.env,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// Nonce handles GET /api/nonce?address=0x…
func (h *AuthHandlers) Nonce(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		address = c.Query("addr")
	}

	nonce, err := h.auth.RequestNonce(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
			return
		}
		log.Printf("nonce issuance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create nonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// VerifyRequest is the body of POST /api/verify.
type VerifyRequest struct {
	Message   string `json:"message" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// Verify handles POST /api/verify: the challenge/response step of the
// handshake. Every authentication-domain failure maps to 400; only store
// unavailability produces a 500.
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message & signature required"})
		return
	}

	identity, token, err := h.auth.Login(c.Request.Context(), req.Message, req.Signature)
	if err != nil {
		status, msg := verifyFailure(err)
		if status == http.StatusInternalServerError {
			log.Printf("verify failed: %v", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":  identity.Address,
		"roles":    identity.Roles,
		"chain_id": identity.ChainID,
		"token":    token,
	})
}

// Me handles GET /api/me for a verified session.
func (h *AuthHandlers) Me(c *gin.Context) {
	identity := CallerIdentity(c)
	c.JSON(http.StatusOK, gin.H{
		"address":  identity.Address,
		"roles":    identity.Roles,
		"chain_id": identity.ChainID,
	})
}

// verifyFailure maps handshake errors to status and client message. The
// individual auth failures share one status so responses do not become an
// oracle, while the message stays human-readable.
func verifyFailure(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrMalformedMessage):
		return http.StatusBadRequest, "malformed message"
	case errors.Is(err, core.ErrBadSignature):
		return http.StatusBadRequest, "bad signature"
	case errors.Is(err, core.ErrAddressMismatch):
		return http.StatusBadRequest, "address mismatch"
	case errors.Is(err, core.ErrInvalidNonce):
		return http.StatusBadRequest, "invalid or expired nonce"
	case errors.Is(err, core.ErrDomainMismatch):
		return http.StatusBadRequest, "domain mismatch"
	case errors.Is(err, core.ErrMessageExpired):
		return http.StatusBadRequest, "message expired"
	default:
		return http.StatusInternalServerError, "verification failed"
	}
}
