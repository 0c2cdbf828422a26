package shopify

import (
	"context"
	"fmt"

	"foxx-popup-service/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

type client struct {
	app    goshopify.App
	logger zerolog.Logger
}

// NewClient creates a new commerce client adapter
func NewClient(apiKey, apiSecret string, logger zerolog.Logger) ports.CommerceClient {
	return &client{
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
		logger: logger,
	}
}

// createClient is a helper to create a goshopify client
func (c *client) createClient(shopDomain string, accessToken string) (*goshopify.Client, error) {
	sc, err := goshopify.NewClient(c.app, shopDomain, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return sc, nil
}

func (c *client) GetShop(ctx context.Context, shopDomain string, accessToken string) (*goshopify.Shop, error) {
	sc, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	shop, err := sc.Shop.Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return shop, nil
}

func (c *client) SearchCustomers(ctx context.Context, shopDomain string, accessToken string, query string) ([]goshopify.Customer, error) {
	sc, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	customers, err := sc.Customer.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

func (c *client) UpdateCustomer(ctx context.Context, shopDomain string, accessToken string, customer *goshopify.Customer) (*goshopify.Customer, error) {
	sc, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	updated, err := sc.Customer.Update(ctx, *customer)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return updated, nil
}

func (c *client) ListPriceRules(ctx context.Context, shopDomain string, accessToken string) ([]goshopify.PriceRule, error) {
	sc, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	rules, err := sc.PriceRule.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list price rules: %w", err)
	}
	return rules, nil
}

func (c *client) ListDiscountCodes(ctx context.Context, shopDomain string, accessToken string, priceRuleID int64) ([]goshopify.PriceRuleDiscountCode, error) {
	sc, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	codes, err := sc.DiscountCode.List(ctx, uint64(priceRuleID))
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}
	return codes, nil
}
