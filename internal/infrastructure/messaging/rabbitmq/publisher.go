package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/france-explorer/internal/application/auth"
	"github.com/baechuer/france-explorer/internal/application/location"
)

const (
	DefaultExchange = "france.events"

	RoutingUserRegistered          = "auth.user.registered"
	RoutingDescriptionGenerated    = "location.description.generated"
	RoutingDescriptionsInvalidated = "location.descriptions.invalidated"

	confirmWait = 2 * time.Second
	appID       = "france-explorer"
)

// Publisher sends JSON events to a topic exchange with publisher confirms.
// One channel is shared, so publishes are serialized.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
}

var (
	_ auth.EventPublisher     = (*Publisher)(nil)
	_ location.EventPublisher = (*Publisher)(nil)
)

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

func (p *Publisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return p.publishJSON(ctx, RoutingUserRegistered, evt)
}

func (p *Publisher) PublishDescriptionGenerated(ctx context.Context, evt location.DescriptionGeneratedEvent) error {
	return p.publishJSON(ctx, RoutingDescriptionGenerated, evt)
}

func (p *Publisher) PublishDescriptionsInvalidated(ctx context.Context, evt location.DescriptionsInvalidatedEvent) error {
	return p.publishJSON(ctx, RoutingDescriptionsInvalidated, evt)
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, confirms, err := p.openChannel(conn)
	if err != nil {
		_ = conn.Close()
		return err
	}

	p.conn, p.ch, p.confirmCh = conn, ch, confirms
	return nil
}

// openChannel declares the durable topic exchange and puts the channel in
// confirm mode.
func (p *Publisher) openChannel(conn *amqp.Connection) (*amqp.Channel, <-chan amqp.Confirmation, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("rabbitmq exchange %q: %w", p.exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("rabbitmq confirm mode: %w", err)
	}
	return ch, ch.NotifyPublish(make(chan amqp.Confirmation, 1)), nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	p.resetConn()
	return p.connect()
}

func newMessage(routingKey string, body []byte) amqp.Publishing {
	return amqp.Publishing{
		MessageId:    uuid.NewString(),
		AppId:        appID,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         routingKey,
		Body:         body,
	}
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// Not mandatory: an exchange with no bound queue still acks.
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, newMessage(routingKey, body)); err != nil {
		p.resetConn()
		return fmt.Errorf("rabbitmq publish %s: %w", routingKey, err)
	}

	return p.awaitConfirm(ctx, routingKey)
}

func (p *Publisher) awaitConfirm(ctx context.Context, routingKey string) error {
	select {
	case conf, ok := <-p.confirmCh:
		switch {
		case !ok:
			p.resetConn()
			return fmt.Errorf("rabbitmq channel closed awaiting confirm for %s", routingKey)
		case !conf.Ack:
			return fmt.Errorf("rabbitmq nack for %s (tag %d)", routingKey, conf.DeliveryTag)
		}
		return nil
	case <-ctx.Done():
		// a late confirm would desync the channel
		p.resetConn()
		return ctx.Err()
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch, p.confirmCh = nil, nil, nil
}
