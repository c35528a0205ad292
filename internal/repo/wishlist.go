package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nkazancev/shop_wishlist/internal/models"
)

func (r *GormRepo) SearchWishlist(ctx context.Context, userID uint, name string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// FindOrCreateWishlist returns the wishlist named name owned by userID,
// creating it when absent. Two requests can both observe "not found" and
// race on the insert; the (user_id, name) unique index settles it and the
// loser re-runs the search to return the winner's row.
func (r *GormRepo) FindOrCreateWishlist(ctx context.Context, userID uint, name string) (*models.Wishlist, bool, error) {
	wishlist, err := r.SearchWishlist(ctx, userID, name)
	if err == nil {
		return wishlist, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := models.Wishlist{UserID: userID, Name: name}
	err = r.DB.WithContext(ctx).Create(&created).Error
	if err == nil {
		return &created, true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		wishlist, err = r.SearchWishlist(ctx, userID, name)
		return wishlist, false, err
	}
	return nil, false, err
}

func (r *GormRepo) GetOwnedWishlist(ctx context.Context, id, userID uint) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *GormRepo) ListWishlists(ctx context.Context, userID uint) ([]models.Wishlist, error) {
	var wishlists []models.Wishlist
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&wishlists).Error; err != nil {
		return nil, err
	}
	return wishlists, nil
}

func (r *GormRepo) RenameWishlist(ctx context.Context, wishlist *models.Wishlist, name string) error {
	return r.DB.WithContext(ctx).
		Model(wishlist).
		Update("name", name).Error
}

func (r *GormRepo) DeleteWishlist(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wishlist_id = ?", id).
			Delete(&models.WishlistProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Wishlist{}, id).Error
	})
}

func (r *GormRepo) AddProduct(ctx context.Context, wishlistID, productID uint) error {
	row := models.WishlistProduct{
		WishlistID: wishlistID,
		ProductID:  productID,
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wishlist_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

func (r *GormRepo) RemoveProduct(ctx context.Context, wishlistID, productID uint) error {
	return r.DB.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistProduct{}).Error
}

func (r *GormRepo) WishlistProducts(ctx context.Context, wishlistID uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN wishlist_products ON wishlist_products.product_id = products.id").
		Where("wishlist_products.wishlist_id = ?", wishlistID).
		Order("products.id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
