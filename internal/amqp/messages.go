package amqp

import (
	"encoding/json"
	"time"
)

// Payment event kinds carried on the wire.
const (
	EventPaymentCreated = "payment.created"
	EventPaymentDeleted = "payment.deleted"
)

// PaymentEventMessage is the lightweight envelope published when a
// payment changes. It carries only identifiers; the export worker
// fetches the full payment from the database.
type PaymentEventMessage struct {
	Event     string    `json:"event"`
	PaymentID int64     `json:"payment_id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPaymentEventMessage(event string, paymentID, userID int64) *PaymentEventMessage {
	return &PaymentEventMessage{
		Event:     event,
		PaymentID: paymentID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *PaymentEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentEventMessageFromJSON(data []byte) (*PaymentEventMessage, error) {
	var msg PaymentEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
