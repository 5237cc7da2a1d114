package payment

import (
	"context"
	"errors"
	"testing"
)

func TestUnconfiguredStripe(t *testing.T) {
	intents := NewStripeIntents("")
	if _, err := intents.CreatePaymentIntent(context.Background(), 1000, "usd"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}
