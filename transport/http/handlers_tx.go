package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// txHistoryLimit caps the bootstrap listing, matching what clients render.
const txHistoryLimit = 100

// TxHandlers serves the wallet transaction ledger. All routes require a
// verified session; the wallet header is not accepted here.
type TxHandlers struct {
	txs       ports.TransactionRepository
	publisher ports.EventPublisher
}

// NewTxHandlers creates new transaction handlers.
func NewTxHandlers(txs ports.TransactionRepository, publisher ports.EventPublisher) *TxHandlers {
	return &TxHandlers{txs: txs, publisher: publisher}
}

// List handles GET /api/transactions for the authenticated wallet.
func (h *TxHandlers) List(c *gin.Context) {
	identity := CallerIdentity(c)

	txs, err := h.txs.ListByWallet(c.Request.Context(), identity.Address, txHistoryLimit)
	if err != nil {
		log.Printf("list transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": txs})
}

// TopupRequest is the body of POST /api/topup.
type TopupRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// Topup handles POST /api/topup.
func (h *TxHandlers) Topup(c *gin.Context) {
	var req TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	tx := &core.Transaction{
		ID:          uuid.New().String(),
		Wallet:      CallerIdentity(c).Address,
		Kind:        core.TxKindTopup,
		Amount:      req.Amount,
		Description: "Top up",
		Status:      core.TxStatusConfirmed,
	}
	h.record(c, tx)
}

// PurchaseRequest is the body of POST /api/purchase.
type PurchaseRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	RefID       string          `json:"ref_id"`
	Description string          `json:"description"`
}

// Purchase handles POST /api/purchase. Purchases are recorded as negative
// ledger amounts.
func (h *TxHandlers) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	description := req.Description
	if description == "" {
		description = "Ticket purchase"
	}

	tx := &core.Transaction{
		ID:          uuid.New().String(),
		Wallet:      CallerIdentity(c).Address,
		Kind:        core.TxKindPurchase,
		Amount:      req.Amount.Abs().Neg(),
		RefID:       req.RefID,
		Description: description,
		Status:      core.TxStatusConfirmed,
	}
	h.record(c, tx)
}

func (h *TxHandlers) record(c *gin.Context, tx *core.Transaction) {
	if err := h.txs.Insert(c.Request.Context(), tx); err != nil {
		log.Printf("insert transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record transaction"})
		return
	}

	// The row is committed; a publish failure only delays fan-out.
	if h.publisher != nil {
		if err := h.publisher.PublishTransaction(c.Request.Context(), tx); err != nil {
			log.Printf("publish transaction event: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "tx": tx})
}
