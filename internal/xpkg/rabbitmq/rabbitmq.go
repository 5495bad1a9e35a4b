package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crispy/internal/xpkg/config"
	apperr "crispy/internal/xpkg/errors"
	"crispy/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnInterval = 5 * time.Second

type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMQ
	conn         *amqp.Connection
	ch           *amqp.Channel
	mylog        logger.Logger
	reconnecting bool
	mu           sync.Mutex
}

// New dials the broker and declares the durable fanout exchange used for
// order status notifications. ctx bounds the background reconnect loop.
func New(ctx context.Context, rabbitmqCfg config.RabbitMQ, mylog logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		ctx:   ctx,
		cfg:   rabbitmqCfg,
		mylog: mylog,
	}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMBConn, err)
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.cfg.URL())
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	err = ch.ExchangeDeclare(
		r.cfg.Exchange, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

func (r *RabbitMQ) IsAlive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return apperr.ErrMBConn
	}
	if r.ch == nil || r.ch.IsClosed() {
		return apperr.ErrMBCh
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

// Publish sends a persistent JSON message to the exchange. A lost connection
// triggers a background reconnect and the message is reported as failed.
func (r *RabbitMQ) Publish(ctx context.Context, messageID string, body []byte) error {
	if err := r.IsAlive(); err != nil {
		r.mylog.Action("publish").Error("Connection to rabbitmq is closed", err)
		go r.reconnect()
		return err
	}

	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	return ch.PublishWithContext(ctx, r.cfg.Exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Consume declares the queue, binds it to the exchange and starts delivery
// with manual acknowledgement.
func (r *RabbitMQ) Consume(ctx context.Context, queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	if err := ch.QueueBind(queue, "", r.cfg.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue %s: %w", queue, err)
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	return ch.ConsumeWithContext(ctx, queue, consumer, false, false, false, false, nil)
}

func (r *RabbitMQ) reconnect() {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.reconnecting = false
		r.mu.Unlock()
	}()

	t := time.NewTicker(reconnInterval)
	defer t.Stop()
	log := r.mylog.Action("rabbitmq_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err != nil {
				log.Warn("RabbitMQ failed to reconnect", "error", err.Error())
				continue
			}
			log.Info("RabbitMQ reconnected")
			return
		case <-r.ctx.Done():
			return
		}
	}
}
