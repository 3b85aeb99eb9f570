package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
)

// Publisher 將帳本紀錄發佈到 RabbitMQ topic exchange
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	// amqp.Channel 不支援並發 Publish
	mu sync.Mutex
}

// NewPublisher 連線並宣告 durable topic exchange
func NewPublisher(uri, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

// Publish 依序發佈，遇到第一個錯誤就停止
func (p *Publisher) Publish(ctx context.Context, entries []*domain.LedgerEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := json.Marshal(newLedgerEvent(entry))
		if err != nil {
			return fmt.Errorf("failed to marshal ledger event: %w", err)
		}

		err = p.channel.Publish(
			p.exchange,             // exchange
			routingKey(entry.Type), // routing key
			false,                  // mandatory
			false,                  // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				CorrelationId: entry.RefID.String(),
				Timestamp:     entry.OccurredAt,
				Body:          body,
				DeliveryMode:  amqp.Persistent, // make message persistent
			})
		if err != nil {
			return fmt.Errorf("failed to publish ledger entry %d: %w", entry.ID, err)
		}
	}
	return nil
}

func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
