package ports

import (
	"context"

	"foxx-popup-service/internal/domain"
)

// Notifier defines the fire-and-forget transactional email boundary.
// Failures are logged by implementations and never surfaced to the
// subscribe caller.
type Notifier interface {
	// SendWelcome sends the welcome email (with any discount code) to a
	// new or reactivated subscriber.
	SendWelcome(ctx context.Context, subscriber *domain.Subscriber, config *domain.PopupConfig) error

	// SendAdminNotification notifies the store owner of a new subscriber.
	SendAdminNotification(ctx context.Context, store *domain.Store, subscriber *domain.Subscriber) error
}
