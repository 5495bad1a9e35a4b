package consumer

import (
	"context"
	"errors"
	"fmt"

	"crispy/internal/notsub/app/core"
	"crispy/internal/notsub/app/services"
	"crispy/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

type Broker interface {
	Consume(ctx context.Context, queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
}

type Notification struct {
	mb       Broker
	notifier *services.Notifier
	queue    string
	mylog    logger.Logger
}

func NewNotification(mb Broker, notifier *services.Notifier, queue string, mylog logger.Logger) *Notification {
	return &Notification{
		mb:       mb,
		notifier: notifier,
		queue:    queue,
		mylog:    mylog,
	}
}

// Run consumes until ctx is cancelled or the delivery channel closes, then
// waits for in-flight messages.
func (n *Notification) Run(ctx context.Context) error {
	deliveries, err := n.mb.Consume(ctx, n.queue, core.ConsumerTag, core.Prefetch)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", n.queue, err)
	}
	n.mylog.Action("consume_started").Info("Waiting for status updates", "queue", n.queue)
	return n.work(ctx, deliveries)
}

func (n *Notification) work(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	var g errgroup.Group
	g.SetLimit(core.Prefetch)

	for {
		select {
		case <-ctx.Done():
			n.mylog.Action("work_shutdown").Info("Stopping message consumption due to context cancel")
			return g.Wait()
		case msg, ok := <-deliveries:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				n.handle(msg)
				return nil
			})
		}
	}
}

// handle acks processed messages. Malformed ones are dropped without
// requeue; write failures are requeued.
func (n *Notification) handle(msg amqp.Delivery) {
	mylog := n.mylog.Action("process_message").With("message_id", msg.MessageId)

	err := n.process(msg.Body)
	if err == nil {
		if ackErr := msg.Ack(false); ackErr != nil {
			mylog.Error("Failed to ack", ackErr)
		}
		return
	}

	requeue := !errors.Is(err, core.ErrMalformedMessage)
	mylog.Error("Failed to process status update", err, "requeue", requeue)
	if nackErr := msg.Nack(false, requeue); nackErr != nil {
		mylog.Error("Failed to nack", nackErr)
	}
}

func (n *Notification) process(body []byte) error {
	event, err := services.Decode(body)
	if err != nil {
		return err
	}
	return n.notifier.Notify(event)
}
