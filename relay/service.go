package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/alovak/checkout-relay/internal/metrics"
	"github.com/alovak/checkout-relay/internal/receipt"
	"github.com/alovak/checkout-relay/processor"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Service orchestrates the relay's upstream calls. It holds no mutable state;
// every request runs independently against the processor client.
type Service struct {
	processor *processor.Client
	notifier  receipt.Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(client *processor.Client, notifier receipt.Notifier, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		processor: client,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

// InitiatePayment creates a capture-intent order for the given currency and
// amount. The processor is called exactly once; failures are returned to the
// caller without retry.
func (s *Service) InitiatePayment(ctx context.Context, currency, amount string) (*processor.Order, error) {
	order := processor.OrderRequest{
		Intent: processor.OrderIntentCapture,
		PurchaseUnits: []processor.PurchaseUnit{
			{
				InvoiceID: uuid.New().String(),
				Amount: processor.Amount{
					CurrencyCode: currency,
					Value:        amount,
				},
			},
		},
	}

	start := time.Now()
	created, err := s.processor.CreateOrder(ctx, order)
	s.metrics.ObserveUpstream("create_order", start, err)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	s.logger.Info("order created",
		slog.String("order_id", created.ID),
		slog.String("status", created.Status),
	)

	return created, nil
}

// CompleteOrder applies the intent to an existing order. When the response
// carries an order id and an email was supplied, a receipt is dispatched
// exactly once; dispatch failures are logged, not surfaced.
func (s *Service) CompleteOrder(ctx context.Context, orderID, intent, email string) (*processor.Order, error) {
	start := time.Now()
	order, err := s.processor.OrderAction(ctx, orderID, intent)
	s.metrics.ObserveUpstream("order_action", start, err)
	if err != nil {
		return nil, fmt.Errorf("completing order: %w", err)
	}

	s.logger.Info("order action completed",
		slog.String("order_id", order.ID),
		slog.String("intent", intent),
		slog.String("status", order.Status),
	)

	if order.ID != "" && email != "" {
		if err := s.notifier.Dispatch(ctx, order.ID, email); err != nil {
			s.logger.Error("dispatching receipt", "err", err, slog.String("order_id", order.ID))
		}
	}

	return order, nil
}

// ClientToken obtains an identity client token for the browser SDK,
// optionally scoped to a customer id.
func (s *Service) ClientToken(ctx context.Context, customerID string) (string, error) {
	start := time.Now()
	token, err := s.processor.GenerateClientToken(ctx, customerID)
	s.metrics.ObserveUpstream("client_token", start, err)
	if err != nil {
		return "", fmt.Errorf("generating client token: %w", err)
	}

	return token, nil
}
