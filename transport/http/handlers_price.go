package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kurooo23/AsiqTIX/service"
)

// PriceHandlers exposes the aggregated POL price.
type PriceHandlers struct {
	prices *service.PriceService
}

// NewPriceHandlers creates new price handlers.
func NewPriceHandlers(prices *service.PriceService) *PriceHandlers {
	return &PriceHandlers{prices: prices}
}

// Pol handles GET /api/price/pol.
func (h *PriceHandlers) Pol(c *gin.Context) {
	quote, err := h.prices.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrPriceUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "price unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "price lookup failed"})
		return
	}

	resp := gin.H{
		"price_idr":  quote.PriceIDR,
		"source":     quote.Source,
		"updated_at": quote.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if quote.Stale {
		resp["stale"] = true
		resp["reason"] = quote.StaleReason
	}
	c.JSON(http.StatusOK, resp)
}
