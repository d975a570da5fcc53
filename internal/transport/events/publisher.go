// Package events публикует события оплаты участников в kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/segmentio/kafka-go"
)

const defaultWriteTimeout = 5 * time.Second

// Writer часть kafka.Writer, через которую идет публикация.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer       Writer
	writeTimeout time.Duration
}

// NewPublisher создает издателя в топик topic. Сообщения одного счета попадают в одну партицию:
// ключом служит идентификатор счета.
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	})
}

func NewPublisherWithWriter(w Writer) *Publisher {
	return &Publisher{writer: w, writeTimeout: defaultWriteTimeout}
}

// Publish сериализует событие в JSON и отправляет его. Тип события дублируется в заголовке.
func (p *Publisher) Publish(ctx context.Context, event domain.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if writeErr := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(strconv.FormatInt(event.BillID, 10)),
		Value:   data,
		Headers: []kafka.Header{{Key: "type", Value: []byte(event.Type)}},
		Time:    event.OccurredAt,
	}); writeErr != nil {
		return fmt.Errorf("write %s event: %w", event.Type, writeErr)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close() //nolint:wrapcheck
}
