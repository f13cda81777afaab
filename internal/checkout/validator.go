package checkout

import (
	"strings"

	"github.com/lunashop/storefront/internal/domain"
)

// ValidateShipping returns a field -> message map for every required shipping field
// that is empty or whitespace-only. An empty map means the form may be submitted.
func ValidateShipping(info domain.ShippingInfo) map[string]string {
	fields := map[string]string{
		"name":    info.Name,
		"address": info.Address,
		"city":    info.City,
		"zip":     info.Zip,
		"email":   info.Email,
		"phone":   info.Phone,
	}

	errs := make(map[string]string)
	for field, value := range fields {
		if strings.TrimSpace(value) == "" {
			errs[field] = field + " is required"
		}
	}
	return errs
}
