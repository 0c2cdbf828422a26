package notifier

import (
	"context"

	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/ports"

	"github.com/rs/zerolog"
)

// LogNotifier is the default Notifier implementation. Actual delivery is
// handled by the mail pipeline outside this service; this implementation
// records the events it would have sent so they show up in log-based
// alerting during development.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a logging notifier
func NewLogNotifier(logger zerolog.Logger) ports.Notifier {
	return &LogNotifier{logger: logger}
}

// SendWelcome logs the welcome email event
func (n *LogNotifier) SendWelcome(ctx context.Context, subscriber *domain.Subscriber, config *domain.PopupConfig) error {
	n.logger.Info().
		Str("event", "welcome_email").
		Str("storeID", subscriber.StoreID).
		Str("to", subscriber.Email).
		Str("discountCode", config.DiscountCode).
		Msg("Welcome email queued")
	return nil
}

// SendAdminNotification logs the admin notification event
func (n *LogNotifier) SendAdminNotification(ctx context.Context, store *domain.Store, subscriber *domain.Subscriber) error {
	n.logger.Info().
		Str("event", "admin_notification").
		Str("storeID", store.ID).
		Str("to", store.Email).
		Str("subscriberEmail", subscriber.Email).
		Msg("Admin notification queued")
	return nil
}
