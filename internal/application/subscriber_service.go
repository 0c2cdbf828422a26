package application

import (
	"context"
	"strings"
	"time"

	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// tempEmailDomains is the server-side copy of the disposable-address
// blocklist the runtime also enforces.
var tempEmailDomains = []string{
	"mailinator.com", "guerrillamail.com", "10minutemail.com",
	"tempmail.com", "temp-mail.org", "throwaway.email", "yopmail.com",
	"trashmail.com", "sharklasers.com", "getnada.com", "dispostable.com",
}

// SubscribeInput is the public subscribe request body
type SubscribeInput struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Company   string `json:"company,omitempty" validate:"omitempty,max=200"`
	Address   string `json:"address,omitempty" validate:"omitempty,max=500"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=100"`
}

// SubscribeResult is returned to the popup on success
type SubscribeResult struct {
	Subscriber         *domain.Subscriber `json:"-"`
	Reactivated        bool               `json:"-"`
	DiscountCode       string             `json:"discount_code,omitempty"`
	DiscountPercentage int                `json:"discount_percentage,omitempty"`
}

// SubscriberService handles subscription capture, reactivation and the
// suppression-check lookup the runtime uses.
type SubscriberService struct {
	storeRepo      ports.StoreRepository
	configRepo     ports.PopupConfigRepository
	subscriberRepo ports.SubscriberRepository
	notifier       ports.Notifier
	commerce       *CommerceService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewSubscriberService creates a new subscriber service
func NewSubscriberService(
	storeRepo ports.StoreRepository,
	configRepo ports.PopupConfigRepository,
	subscriberRepo ports.SubscriberRepository,
	notifier ports.Notifier,
	commerce *CommerceService,
	logger zerolog.Logger,
) *SubscriberService {
	return &SubscriberService{
		storeRepo:      storeRepo,
		configRepo:     configRepo,
		subscriberRepo: subscriberRepo,
		notifier:       notifier,
		commerce:       commerce,
		validate:       validator.New(),
		logger:         logger,
	}
}

// Subscribe creates or reactivates a subscription. Email and commerce
// side effects run detached and can never fail the response.
func (s *SubscriberService) Subscribe(ctx context.Context, storeID string, input *SubscribeInput) (*SubscribeResult, error) {
	if storeID == "" {
		return nil, &ValidationError{Field: "store_id", Message: "store id is required"}
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, validationMessage(err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	store, err := s.storeRepo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrNotFound
	}

	config, err := s.configRepo.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, ErrNotFound
	}

	if reason := emailPolicyViolation(email, config); reason != "" {
		return nil, &ValidationError{Field: "email", Message: reason}
	}

	existing, err := s.subscriberRepo.GetByStoreAndEmail(ctx, storeID, email)
	if err != nil {
		return nil, err
	}

	var subscriber *domain.Subscriber
	reactivated := false

	switch {
	case existing != nil && existing.IsActive:
		return nil, ErrDuplicateSubscriber
	case existing != nil:
		existing.IsActive = true
		existing.UnsubscribedAt = nil
		existing.SessionID = input.SessionID
		applyOptionalFields(existing, input)
		if err := s.subscriberRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		subscriber = existing
		reactivated = true
	default:
		subscriber = &domain.Subscriber{
			ID:        uuid.NewString(),
			StoreID:   storeID,
			Email:     email,
			SessionID: input.SessionID,
			IsActive:  true,
			CreatedAt: time.Now(),
		}
		applyOptionalFields(subscriber, input)
		if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("storeID", storeID).
		Str("subscriberID", subscriber.ID).
		Bool("reactivated", reactivated).
		Msg("Subscription captured")

	s.fireSideEffects(ctx, store, config, subscriber)

	return &SubscribeResult{
		Subscriber:         subscriber,
		Reactivated:        reactivated,
		DiscountCode:       config.DiscountCode,
		DiscountPercentage: config.DiscountPercentage,
	}, nil
}

// fireSideEffects triggers the welcome email, the admin notification and
// the commerce tagging call without blocking or failing the response.
func (s *SubscriberService) fireSideEffects(ctx context.Context, store *domain.Store, config *domain.PopupConfig, subscriber *domain.Subscriber) {
	detached := context.WithoutCancel(ctx)
	go func() {
		if s.notifier != nil {
			if err := s.notifier.SendWelcome(detached, subscriber, config); err != nil {
				s.logger.Warn().Err(err).Str("subscriberID", subscriber.ID).Msg("Welcome email failed")
			}
			if err := s.notifier.SendAdminNotification(detached, store, subscriber); err != nil {
				s.logger.Warn().Err(err).Str("subscriberID", subscriber.ID).Msg("Admin notification failed")
			}
		}
		if s.commerce != nil && store.CommerceShopDomain != "" {
			if err := s.commerce.TagSubscriber(detached, store, subscriber.Email); err != nil {
				s.logger.Warn().Err(err).Str("subscriberID", subscriber.ID).Msg("Commerce tagging failed")
			}
		}
	}()
}

// IsSubscribed is the cheap lookup behind the runtime's suppression
// logic; any internal failure reads as "not subscribed" because this path
// is a UX optimization, not a correctness check.
func (s *SubscriberService) IsSubscribed(ctx context.Context, storeID, email string) bool {
	if storeID == "" || email == "" {
		return false
	}
	subscriber, err := s.subscriberRepo.GetByStoreAndEmail(ctx, storeID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		s.logger.Warn().Err(err).Str("storeID", storeID).Msg("Subscription check failed")
		return false
	}
	return subscriber != nil && subscriber.IsActive
}

// Unsubscribe deactivates a subscription and records when.
func (s *SubscriberService) Unsubscribe(ctx context.Context, storeID, email string) error {
	subscriber, err := s.subscriberRepo.GetByStoreAndEmail(ctx, storeID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if subscriber == nil {
		return ErrNotFound
	}

	now := time.Now()
	subscriber.IsActive = false
	subscriber.UnsubscribedAt = &now
	if err := s.subscriberRepo.Update(ctx, subscriber); err != nil {
		return err
	}

	s.logger.Info().Str("storeID", storeID).Str("subscriberID", subscriber.ID).Msg("Subscriber unsubscribed")
	return nil
}

// ListSubscribers returns all subscribers for the admin surface.
func (s *SubscriberService) ListSubscribers(ctx context.Context, storeID string) ([]*domain.Subscriber, error) {
	return s.subscriberRepo.ListByStore(ctx, storeID)
}

func applyOptionalFields(subscriber *domain.Subscriber, input *SubscribeInput) {
	if input.Name != "" {
		subscriber.Name = input.Name
	}
	if input.Phone != "" {
		subscriber.Phone = input.Phone
	}
	if input.Company != "" {
		subscriber.Company = input.Company
	}
	if input.Address != "" {
		subscriber.Address = input.Address
	}
}

// emailPolicyViolation applies the config-driven domain rules; returns a
// caller-facing message or "".
func emailPolicyViolation(email string, config *domain.PopupConfig) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "invalid email address"
	}
	dom := email[at+1:]

	for _, blocked := range tempEmailDomains {
		if dom == blocked {
			return "temporary email addresses are not accepted"
		}
	}
	for _, blocked := range config.BlockedEmailDomains {
		if dom == strings.ToLower(blocked) {
			return "this email domain is not accepted"
		}
	}
	if len(config.AllowedEmailDomains) > 0 {
		for _, allowed := range config.AllowedEmailDomains {
			if dom == strings.ToLower(allowed) {
				return ""
			}
		}
		return "please use your company email address"
	}
	return ""
}

func validationMessage(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		field := strings.ToLower(errs[0].Field())
		if errs[0].Tag() == "required" {
			return &ValidationError{Field: field, Message: field + " is required"}
		}
		return &ValidationError{Field: field, Message: field + " is invalid"}
	}
	return &ValidationError{Message: "invalid request"}
}
