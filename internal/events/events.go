// Package events carries domain events from the API to background workers.
package events

import (
	"context"
	"time"
)

// PaymentRecorded is emitted after a payment document has been stored.
type PaymentRecorded struct {
	PaymentID     string    `json:"paymentId"`
	Email         string    `json:"email"`
	TransactionID string    `json:"transactionId,omitempty"`
	Price         float64   `json:"price"`
	Date          time.Time `json:"date"`
	ClassesID     []string  `json:"classesId"`
	ClassNames    []string  `json:"classNames,omitempty"`
}

// Publisher defines the interface for sending events.
type Publisher interface {
	PublishPaymentRecorded(ctx context.Context, event PaymentRecorded) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPaymentRecorded(context.Context, PaymentRecorded) error { return nil }
func (NoopPublisher) Close() error                                                  { return nil }
