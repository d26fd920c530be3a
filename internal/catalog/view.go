package catalog

import (
	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/pricing"
)

// ProductView is a product as served by the API, with display pricing attached.
type ProductView struct {
	domain.Product
	pricing.DisplayPricing
}

func NewView(p domain.Product) ProductView {
	return ProductView{Product: p, DisplayPricing: pricing.Display(&p)}
}

func NewViews(rows []domain.Product) []ProductView {
	views := make([]ProductView, 0, len(rows))
	for _, p := range rows {
		views = append(views, NewView(p))
	}
	return views
}
