//go:build !integration

package payment

import (
	"context"
	"errors"
	"testing"

	"shake-ai-wallet/internal/domain"
	"shake-ai-wallet/internal/domain/model"
)

type minterFunc func(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (string, error)

func (f minterFunc) CreateCheckoutSession(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (string, error) {
	return f(ctx, items, successURL, cancelURL, meta)
}

func TestBackendGatewayCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("should parse the embedded session payload", func(t *testing.T) {
		g := NewBackendGateway(minterFunc(func(context.Context, []model.CheckoutItem, string, string, map[string]string) (string, error) {
			return `{"id":"cs_test_123","url":"https://checkout.example.com/cs_test_123"}`, nil
		}))

		sess, err := g.CreateSession(ctx, nil, "s", "c", nil)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if sess.ID != "cs_test_123" || sess.URL == "" {
			t.Errorf("unexpected session %+v", sess)
		}
	})

	t.Run("should fail when the payload has no URL", func(t *testing.T) {
		g := NewBackendGateway(minterFunc(func(context.Context, []model.CheckoutItem, string, string, map[string]string) (string, error) {
			return `{"id":"cs_test_123"}`, nil
		}))

		if _, err := g.CreateSession(ctx, nil, "s", "c", nil); !errors.Is(err, domain.ErrSessionCreationFailed) {
			t.Errorf("expected ErrSessionCreationFailed, but got %v", err)
		}
	})

	t.Run("should fail on malformed payloads", func(t *testing.T) {
		g := NewBackendGateway(minterFunc(func(context.Context, []model.CheckoutItem, string, string, map[string]string) (string, error) {
			return `not json`, nil
		}))

		if _, err := g.CreateSession(ctx, nil, "s", "c", nil); !errors.Is(err, domain.ErrSessionCreationFailed) {
			t.Errorf("expected ErrSessionCreationFailed, but got %v", err)
		}
	})

	t.Run("should wrap minter errors", func(t *testing.T) {
		g := NewBackendGateway(minterFunc(func(context.Context, []model.CheckoutItem, string, string, map[string]string) (string, error) {
			return "", errors.New("backend down")
		}))

		if _, err := g.CreateSession(ctx, nil, "s", "c", nil); !errors.Is(err, domain.ErrSessionCreationFailed) {
			t.Errorf("expected ErrSessionCreationFailed, but got %v", err)
		}
	})
}
