package brokermessage

import (
	"context"
	"encoding/json"
	"fmt"

	"crispy/internal/order/domain/dto"
)

type Broker interface {
	Publish(ctx context.Context, messageID string, body []byte) error
}

// StatusPublisher sends StatusChanged events to the notification exchange.
type StatusPublisher struct {
	broker Broker
}

func NewStatusPublisher(broker Broker) *StatusPublisher {
	return &StatusPublisher{broker: broker}
}

func (p *StatusPublisher) PublishStatusChanged(ctx context.Context, msg dto.StatusChanged) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}
	if err := p.broker.Publish(ctx, msg.MessageID, body); err != nil {
		return fmt.Errorf("publish status change for %s: %w", msg.OrderNumber, err)
	}
	return nil
}
