package checkout

import (
	"math"

	"github.com/lunashop/storefront/internal/config"
	"github.com/lunashop/storefront/internal/domain"
)

// Pricing computes checkout totals from the cart subtotal. The flat shipping fee is
// waived once the subtotal reaches the free-shipping threshold; tax is a fixed
// percentage of the subtotal.
type Pricing struct {
	Currency              string
	ShippingFee           float64
	FreeShippingThreshold float64
	TaxRate               float64
}

// NewPricing creates pricing rules from configuration
func NewPricing(cfg config.PricingConfig) Pricing {
	return Pricing{
		Currency:              cfg.Currency,
		ShippingFee:           cfg.ShippingFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		TaxRate:               cfg.TaxRate,
	}
}

// Totals derives shipping, tax and grand total for the given subtotal
func (p Pricing) Totals(subtotal float64) domain.Totals {
	shipping := p.ShippingFee
	if subtotal >= p.FreeShippingThreshold {
		shipping = 0
	}
	tax := round2(subtotal * p.TaxRate)

	return domain.Totals{
		Subtotal:   round2(subtotal),
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: round2(subtotal + shipping + tax),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
