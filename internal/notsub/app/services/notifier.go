package services

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"crispy/internal/notsub/app/core"
	"crispy/internal/order/domain/dto"
	"crispy/internal/xpkg/logger"
)

// Notifier turns status change events into customer notifications. Delivery
// channels (email, SMS) are out of scope; notifications are written to out.
type Notifier struct {
	out   io.Writer
	mylog logger.Logger
}

func NewNotifier(out io.Writer, mylog logger.Logger) *Notifier {
	return &Notifier{out: out, mylog: mylog}
}

// Decode parses and checks one message body.
func Decode(body []byte) (dto.StatusChanged, error) {
	var msg dto.StatusChanged
	if err := json.Unmarshal(body, &msg); err != nil {
		return dto.StatusChanged{}, fmt.Errorf("%w: %v", core.ErrMalformedMessage, err)
	}
	if strings.TrimSpace(msg.OrderNumber) == "" || !msg.NewStatus.Valid() {
		return dto.StatusChanged{}, fmt.Errorf("%w: order %q status %q", core.ErrMalformedMessage, msg.OrderNumber, msg.NewStatus)
	}
	return msg, nil
}

func (n *Notifier) Notify(msg dto.StatusChanged) error {
	n.mylog.Action("notification_received").
		WithGroup("details").
		With("order_number", msg.OrderNumber, "new_status", string(msg.NewStatus)).
		Info("Received status update for order")

	line := fmt.Sprintf("Notification for order %s: Status changed from '%s' to '%s' by %s.",
		msg.OrderNumber, msg.OldStatus, msg.NewStatus, msg.ChangedBy)
	if msg.Notes != "" {
		line += " Note: " + msg.Notes
	}
	if _, err := fmt.Fprintln(n.out, line); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}
