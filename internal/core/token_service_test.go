package core

import (
	"errors"
	"testing"
	"time"

	"summercamp-backend-go/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	svc := NewTokenServiceWithClock("secret", 10*time.Hour, clock.Now)

	identity := models.Identity{Email: "camper@example.com", Name: "Camper"}
	token, err := svc.Sign(identity)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	clock.t = clock.t.Add(9*time.Hour + 59*time.Minute)
	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}
	if *got != identity {
		t.Errorf("Verify = %+v, want %+v", *got, identity)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, err := svc.Verify(token); !errors.Is(err, ErrForbidden) {
		t.Errorf("Verify after expiry error = %v, want ErrForbidden", err)
	}
}

func TestTokenSignIsDeterministic(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc := NewTokenServiceWithClock("secret", time.Hour, func() time.Time { return now })
	a, _ := svc.Sign(models.Identity{Email: "a@example.com"})
	b, _ := svc.Sign(models.Identity{Email: "a@example.com"})
	if a != b {
		t.Error("same identity and clock produced different tokens")
	}
}

func TestTokenVerifyRejects(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	foreign, err := other.Sign(models.Identity{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	for name, token := range map[string]string{
		"wrong secret": foreign,
		"garbage":      "not.a.token",
		"empty":        "",
		"alg none":     "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJlbWFpbCI6ImFAZXhhbXBsZS5jb20ifQ.",
	} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrForbidden) {
			t.Errorf("%s: error = %v, want ErrForbidden", name, err)
		}
	}
}

func TestTokenSignRequiresEmail(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.Sign(models.Identity{Name: "nobody"}); !errors.Is(err, ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
