package repo

import (
	"context"

	"github.com/nkazancev/shop_wishlist/internal/models"
)

// GetPurchasableProduct resolves a product id against the catalog filtered
// to what the storefront currently displays.
func (r *GormRepo) GetPurchasableProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND displayed_on_eshop = ? AND active = ?", id, true, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
