package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// TransactionTopic carries newly recorded wallet transactions so other
// instances can fan them out to connected clients.
const TransactionTopic = "asiqtix.tx.created"

// TransactionEvent is the published payload for a new transaction.
type TransactionEvent struct {
	ID     string `json:"id"`
	Wallet string `json:"wallet"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
	Status string `json:"status"`
}

// WatermillPublisher implements EventPublisher on top of a watermill publisher.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a publisher for transaction events.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     TransactionTopic,
	}
}

// PublishTransaction publishes a tx.created event keyed by the transaction id.
func (p *WatermillPublisher) PublishTransaction(ctx context.Context, tx *core.Transaction) error {
	event := TransactionEvent{
		ID:     tx.ID,
		Wallet: tx.Wallet,
		Kind:   tx.Kind,
		Amount: tx.Amount.String(),
		Status: tx.Status,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(tx.ID, payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
