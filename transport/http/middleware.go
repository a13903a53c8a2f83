package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/service"
)

// identityKey is the gin context key the guards store the caller under.
const identityKey = "identity"

// walletHeader is the low-assurance identity header. It carries no
// cryptographic guarantee and is honored only by OptionalIdentity for
// read-level visibility decisions, never by RequireAuth or RequireAdmin.
const walletHeader = "X-Wallet-Address"

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return token, token != ""
}

// RequireAuth admits only requests carrying a valid session token and stores
// the verified identity in the context.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := auth.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAdmin admits only verified sessions whose role set includes admin.
// The wallet header is deliberately not accepted here. Both checks run
// before any downstream handler.
func RequireAdmin(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := auth.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalIdentity resolves a caller identity when one is offered: a valid
// bearer token wins; otherwise a well-formed wallet header is accepted as a
// weak identity with roles looked up from the allow-list. Requests without
// either proceed anonymously.
func OptionalIdentity(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if identity, err := auth.ValidateToken(token); err == nil {
				c.Set(identityKey, identity)
			}
			c.Next()
			return
		}

		addr := core.NormalizeAddress(c.GetHeader(walletHeader))
		if addr == "" {
			addr = core.NormalizeAddress(c.Query("wallet"))
		}
		if core.IsValidAddress(addr) {
			roles := []string{core.RoleCustomer}
			if admin, err := auth.IsAdmin(c.Request.Context(), addr); err == nil && admin {
				roles = []string{core.RoleAdmin}
			}
			c.Set(identityKey, core.Identity{Address: addr, Roles: roles})
		}
		c.Next()
	}
}

// CallerIdentity returns the identity a guard stored, or the zero value for
// anonymous requests.
func CallerIdentity(c *gin.Context) core.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(core.Identity); ok {
			return identity
		}
	}
	return core.Identity{}
}
