package application

import (
	"context"
	"fmt"
	"strings"

	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/ports"

	"github.com/rs/zerolog"
)

const subscriberTag = "foxx-subscriber"

// CommerceService wraps the outbound commerce platform calls: credential
// verification, subscriber tagging and discount code lookups. Tokens are
// stored encrypted and decrypted per call.
type CommerceService struct {
	storeRepo     ports.StoreRepository
	client        ports.CommerceClient
	encryptionSvc ports.EncryptionService
	logger        zerolog.Logger
}

// NewCommerceService creates a new commerce service
func NewCommerceService(
	storeRepo ports.StoreRepository,
	client ports.CommerceClient,
	encryptionSvc ports.EncryptionService,
	logger zerolog.Logger,
) *CommerceService {
	return &CommerceService{
		storeRepo:     storeRepo,
		client:        client,
		encryptionSvc: encryptionSvc,
		logger:        logger,
	}
}

// VerifyCredentials checks a shop domain and access token by fetching the
// shop resource, then persists them (token encrypted) on the store.
func (s *CommerceService) VerifyCredentials(ctx context.Context, store *domain.Store, shopDomain, accessToken string) error {
	if shopDomain == "" || accessToken == "" {
		return &ValidationError{Message: "shop domain and access token are required"}
	}

	if _, err := s.client.GetShop(ctx, shopDomain, accessToken); err != nil {
		s.logger.Warn().Err(err).Str("storeID", store.ID).Str("shop", shopDomain).Msg("Commerce credential verification failed")
		return fmt.Errorf("credential verification failed: %w", err)
	}

	encryptedToken, err := s.encryptionSvc.Encrypt(accessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}

	if err := s.storeRepo.SetCommerceCredentials(ctx, store.ID, shopDomain, encryptedToken); err != nil {
		return fmt.Errorf("failed to save commerce credentials: %w", err)
	}
	store.CommerceShopDomain = shopDomain
	store.CommerceAccessToken = encryptedToken

	s.logger.Info().Str("storeID", store.ID).Str("shop", shopDomain).Msg("Commerce credentials verified and saved")
	return nil
}

// TagSubscriber adds the subscriber tag to a matching commerce customer.
// Best effort: a store without a connected shop or a customer that does
// not exist is not an error worth surfacing.
func (s *CommerceService) TagSubscriber(ctx context.Context, store *domain.Store, email string) error {
	if store.CommerceShopDomain == "" || store.CommerceAccessToken == "" {
		return nil
	}

	accessToken, err := s.encryptionSvc.Decrypt(store.CommerceAccessToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt access token: %w", err)
	}

	customers, err := s.client.SearchCustomers(ctx, store.CommerceShopDomain, accessToken, "email:"+email)
	if err != nil {
		return fmt.Errorf("failed to search customers: %w", err)
	}
	if len(customers) == 0 {
		return nil
	}

	customer := customers[0]
	if hasTag(customer.Tags, subscriberTag) {
		return nil
	}
	if customer.Tags == "" {
		customer.Tags = subscriberTag
	} else {
		customer.Tags = customer.Tags + ", " + subscriberTag
	}

	if _, err := s.client.UpdateCustomer(ctx, store.CommerceShopDomain, accessToken, &customer); err != nil {
		return fmt.Errorf("failed to tag customer: %w", err)
	}

	s.logger.Info().
		Str("storeID", store.ID).
		Str("shop", store.CommerceShopDomain).
		Msg("Tagged commerce customer as subscriber")
	return nil
}

// VerifyDiscountCode reports whether the code exists on any price rule of
// the connected shop.
func (s *CommerceService) VerifyDiscountCode(ctx context.Context, store *domain.Store, code string) (bool, error) {
	if store.CommerceShopDomain == "" || store.CommerceAccessToken == "" {
		return false, &ValidationError{Message: "no commerce integration configured"}
	}
	if code == "" {
		return false, &ValidationError{Field: "code", Message: "discount code is required"}
	}

	accessToken, err := s.encryptionSvc.Decrypt(store.CommerceAccessToken)
	if err != nil {
		return false, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	rules, err := s.client.ListPriceRules(ctx, store.CommerceShopDomain, accessToken)
	if err != nil {
		return false, fmt.Errorf("failed to list price rules: %w", err)
	}

	for _, rule := range rules {
		codes, err := s.client.ListDiscountCodes(ctx, store.CommerceShopDomain, accessToken, int64(rule.Id))
		if err != nil {
			s.logger.Warn().Err(err).Int64("priceRuleID", int64(rule.Id)).Msg("Failed to list discount codes for price rule")
			continue
		}
		for _, dc := range codes {
			if strings.EqualFold(dc.Code, code) {
				return true, nil
			}
		}
	}

	return false, nil
}

func hasTag(tags, tag string) bool {
	for _, t := range strings.Split(tags, ",") {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}
