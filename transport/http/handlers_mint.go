package http

import (
	"log"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

// mintABIJSON describes the non-custodial mint entrypoint of the ticket NFT
// contract. Clients broadcast the prepared transaction themselves.
const mintABIJSON = `[{
	"name": "mintToVault",
	"type": "function",
	"stateMutability": "payable",
	"inputs": [
		{"name": "to", "type": "address"},
		{"name": "tokenId", "type": "uint256"},
		{"name": "quantity", "type": "uint256"},
		{"name": "orderId", "type": "string"}
	],
	"outputs": []
}]`

// MintHandlers prepares NFT mint transactions for client-side broadcasting.
type MintHandlers struct {
	contract     common.Address
	unitPriceWei *big.Int
	mintABI      abi.ABI
}

// NewMintHandlers creates mint handlers for the given contract and unit
// price (wei, decimal string; empty or unparsable means free mint).
func NewMintHandlers(contract string, fixedPriceWei string) (*MintHandlers, error) {
	parsed, err := abi.JSON(strings.NewReader(mintABIJSON))
	if err != nil {
		return nil, err
	}

	price := new(big.Int)
	if _, ok := price.SetString(fixedPriceWei, 10); !ok {
		price.SetInt64(0)
	}

	return &MintHandlers{
		contract:     common.HexToAddress(contract),
		unitPriceWei: price,
		mintABI:      parsed,
	}, nil
}

// Price handles GET /api/mint/price.
func (h *MintHandlers) Price(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"priceWei": h.unitPriceWei.String()})
}

// PrepareRequest is the body of POST /api/mint/prepare.
type PrepareRequest struct {
	Quantity int64  `json:"quantity"`
	TokenID  int64  `json:"token_id"`
	OrderID  string `json:"order_id"`
}

// Prepare handles POST /api/mint/prepare: returns the transaction fields the
// authenticated wallet should sign and broadcast.
func (h *MintHandlers) Prepare(c *gin.Context) {
	var req PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.TokenID <= 0 {
		req.TokenID = 1
	}

	identity := CallerIdentity(c)
	to := common.HexToAddress(identity.Address)

	data, err := h.mintABI.Pack("mintToVault",
		to, big.NewInt(req.TokenID), big.NewInt(req.Quantity), req.OrderID)
	if err != nil {
		log.Printf("pack mint calldata: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare transaction"})
		return
	}

	total := new(big.Int).Mul(h.unitPriceWei, big.NewInt(req.Quantity))

	c.JSON(http.StatusOK, gin.H{
		"to":    h.contract.Hex(),
		"value": total.String(),
		"data":  hexutil.Encode(data),
	})
}
