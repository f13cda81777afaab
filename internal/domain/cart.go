package domain

// VariantKey identifies one distinct line item in the cart: the same product added in a
// different color or size is a separate line. Empty Color/Size mean the product has no
// such variant axis. The struct is comparable, so matching is plain value equality.
type VariantKey struct {
	ProductID string `json:"product_id"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// Product is the snapshot of a catalog product needed to add it to the cart
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	Stock         int      `json:"stock"`
}

// UnitPrice returns the discounted price when one is set, else the list price
func (p Product) UnitPrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// CartLine represents one product+variant entry in the cart
type CartLine struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	ImageURL   string  `json:"image_url,omitempty"`
	Color      string  `json:"color,omitempty"`
	Size       string  `json:"size,omitempty"`
	Quantity   int     `json:"quantity"`
	StockLimit int     `json:"stock_limit"`
}

// Key returns the line's identity key
func (l CartLine) Key() VariantKey {
	return VariantKey{ProductID: l.ProductID, Color: l.Color, Size: l.Size}
}
