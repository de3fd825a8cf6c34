package receipt

import (
	"context"

	"golang.org/x/exp/slog"
)

// Notifier dispatches a payment receipt for a captured order. The delivery
// channel (mailer, queue) is owned by an external system; the relay only
// triggers it.
type Notifier interface {
	Dispatch(ctx context.Context, orderID, email string) error
}

// LogNotifier records each dispatch in the service log. It stands in for the
// external mailer in environments where none is attached.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger.With(slog.String("component", "receipt")),
	}
}

func (n *LogNotifier) Dispatch(ctx context.Context, orderID, email string) error {
	n.logger.Info("receipt dispatched",
		slog.String("order_id", orderID),
		slog.String("email", email),
	)
	return nil
}
