package ports

import (
	"context"

	shopify "github.com/bold-commerce/go-shopify/v4"
)

// CommerceClient defines the outbound commerce platform operations this
// service consumes: credential verification, customer tagging and discount
// code lookups.
type CommerceClient interface {
	// GetShop verifies credentials by fetching the shop resource
	GetShop(ctx context.Context, shop string, accessToken string) (*shopify.Shop, error)

	// Customer API, used for tagging subscribers
	SearchCustomers(ctx context.Context, shop string, accessToken string, query string) ([]shopify.Customer, error)
	UpdateCustomer(ctx context.Context, shop string, accessToken string, customer *shopify.Customer) (*shopify.Customer, error)

	// Discount Code API (requires PriceRule ID)
	ListPriceRules(ctx context.Context, shop string, accessToken string) ([]shopify.PriceRule, error)
	ListDiscountCodes(ctx context.Context, shop string, accessToken string, priceRuleID int64) ([]shopify.PriceRuleDiscountCode, error)
}
