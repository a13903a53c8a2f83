package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// AdminHandlers manages the administrator allow-list. Every route is mounted
// behind RequireAdmin.
type AdminHandlers struct {
	admins ports.AdminRegistry
}

// NewAdminHandlers creates new allow-list handlers.
func NewAdminHandlers(admins ports.AdminRegistry) *AdminHandlers {
	return &AdminHandlers{admins: admins}
}

// List handles GET /api/admins.
func (h *AdminHandlers) List(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		log.Printf("list admins: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list admins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": admins})
}

// Add handles POST /api/admins.
func (h *AdminHandlers) Add(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		Note    string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if !core.IsValidAddress(req.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}

	if err := h.admins.Add(c.Request.Context(), req.Address, req.Note); err != nil {
		log.Printf("add admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add admin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "address": core.NormalizeAddress(req.Address)})
}

// Remove handles DELETE /api/admins/:address.
func (h *AdminHandlers) Remove(c *gin.Context) {
	address := c.Param("address")
	if !core.IsValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}

	if err := h.admins.Remove(c.Request.Context(), address); err != nil {
		log.Printf("remove admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove admin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "address": core.NormalizeAddress(address)})
}
