// Package payment adapts the card-payment provider to core.PaymentIntentCreator.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrNotConfigured is returned when no provider secret key was supplied.
var ErrNotConfigured = errors.New("payment provider is not configured")

// StripeIntents creates card payment intents through the Stripe API.
type StripeIntents struct {
	api *client.API
}

// NewStripeIntents returns a creator for secretKey. An empty key yields a
// creator whose calls fail with ErrNotConfigured, so the rest of the API can
// still run without payments.
func NewStripeIntents(secretKey string) *StripeIntents {
	if secretKey == "" {
		return &StripeIntents{}
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeIntents{api: sc}
}

// CreatePaymentIntent creates a card-only intent for amount (smallest
// currency unit) and returns its client secret.
func (s *StripeIntents) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if s.api == nil {
		return "", ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
