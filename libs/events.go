package libs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"toy-store/models"
)

const EventOrderPaid = "order.paid"

type OrderPaidEvent struct {
	OrderID      string          `json:"order_id"`
	DisplayID    int64           `json:"display_id"`
	CartID       string          `json:"cart_id"`
	CustomerID   string          `json:"customer_id,omitempty"`
	Email        string          `json:"email"`
	Total        decimal.Decimal `json:"total"`
	CurrencyCode string          `json:"currency_code"`
	TxnID        string          `json:"txn_id"`
	PaidAt       time.Time       `json:"paid_at"`
}

func NewOrderPaidEvent(order *models.Order, paidAt time.Time) OrderPaidEvent {
	return OrderPaidEvent{
		OrderID:      order.ID,
		DisplayID:    order.DisplayID,
		CartID:       order.CartID,
		CustomerID:   order.CustomerID,
		Email:        order.Email,
		Total:        order.Total,
		CurrencyCode: order.CurrencyCode,
		TxnID:        order.TxnID,
		PaidAt:       paidAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// Each order.paid event is flushed on its own.
const (
	publishBatchTimeout = 10 * time.Millisecond
	publishWriteTimeout = 5 * time.Second
)

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              1,
		BatchTimeout:           publishBatchTimeout,
		WriteTimeout:           publishWriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

// PublishOrderPaid keys the message by order id so events for one order stay
// ordered.
func (p *KafkaPublisher) PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPaid)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
