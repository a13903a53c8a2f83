package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// EventHandlers serves the event catalog and the admin upload proxy.
type EventHandlers struct {
	events    ports.EventRepository
	files     ports.FileStore
	maxUpload int64
}

// NewEventHandlers creates new event handlers.
func NewEventHandlers(events ports.EventRepository, files ports.FileStore, maxUpload int64) *EventHandlers {
	return &EventHandlers{events: events, files: files, maxUpload: maxUpload}
}

// EventRequest is the create/update payload.
type EventRequest struct {
	Title        string          `json:"title" binding:"required,max=160"`
	DateISO      string          `json:"date_iso" binding:"required,min=10"`
	Venue        string          `json:"venue" binding:"required,max=160"`
	Description  string          `json:"description" binding:"max=4000"`
	ImageURL     string          `json:"image_url" binding:"omitempty,url"`
	PricePOL     decimal.Decimal `json:"price_pol"`
	TotalTickets int             `json:"total_tickets" binding:"min=0"`
	Listed       *bool           `json:"listed"`
}

func (r *EventRequest) toEvent(id string) (*core.Event, error) {
	if r.PricePOL.IsNegative() {
		return nil, errors.New("price_pol must not be negative")
	}
	listed := true
	if r.Listed != nil {
		listed = *r.Listed
	}
	return &core.Event{
		ID:           id,
		Title:        r.Title,
		DateISO:      r.DateISO,
		Venue:        r.Venue,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		PricePOL:     r.PricePOL,
		TotalTickets: r.TotalTickets,
		Listed:       listed,
	}, nil
}

// List handles GET /api/events. Unlisted events are visible only to admins
// asking for them explicitly; the OptionalIdentity guard supplies the caller.
func (h *EventHandlers) List(c *gin.Context) {
	identity := CallerIdentity(c)
	wantAll := c.Query("all") == "1" || c.Query("include_unlisted") == "1"
	includeUnlisted := identity.IsAdmin() && wantAll

	events, err := h.events.List(c.Request.Context(), includeUnlisted)
	if err != nil {
		log.Printf("list events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": events})
}

// Get handles GET /api/events/:id.
func (h *EventHandlers) Get(c *gin.Context) {
	ev, err := h.events.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		log.Printf("get event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	if !ev.Listed && !CallerIdentity(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "unlisted event"})
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Create handles POST /api/events.
func (h *EventHandlers) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := req.toEvent(uuid.New().String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.events.Create(c.Request.Context(), ev); err != nil {
		log.Printf("create event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// Update handles PUT /api/events/:id.
func (h *EventHandlers) Update(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	ev, err := req.toEvent(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.events.Update(c.Request.Context(), id, ev); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		log.Printf("update event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Delete handles DELETE /api/events/:id.
func (h *EventHandlers) Delete(c *gin.Context) {
	err := h.events.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		log.Printf("delete event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetListed handles PATCH /api/events/:id/list.
func (h *EventHandlers) SetListed(c *gin.Context) {
	var req struct {
		Listed *bool `json:"listed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Listed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listed must be boolean"})
		return
	}

	ev, err := h.events.SetListed(c.Request.Context(), c.Param("id"), *req.Listed)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		log.Printf("set listed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Upload handles POST /api/upload: stores an image for an event record and
// returns its public URL.
func (h *EventHandlers) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > h.maxUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxUpload+1))
	if err != nil || int64(len(data)) > h.maxUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if ext == "" {
		ext = "jpg"
	}
	path := "events/" + uuid.New().String() + "." + ext

	contentType := file.Header.Get("Content-Type")
	url, err := h.files.Save(c.Request.Context(), path, contentType, data)
	if err != nil {
		log.Printf("save upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "path": path, "url": url})
}
