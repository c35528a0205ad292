package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type Product struct {
	ID               uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string  `gorm:"not null"                 json:"name"`
	Description      string  `gorm:"not null"                 json:"description"`
	Price            float64 `gorm:"not null"                 json:"price"`
	DisplayedOnEshop bool    `gorm:"default:false"            json:"displayed_on_eshop"`
	Active           bool    `gorm:"default:false"            json:"active"`
}

type Wishlist struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"           json:"id"`
	UserID uint   `gorm:"uniqueIndex:idx_user_name;not null" json:"user_id"`
	Name   string `gorm:"uniqueIndex:idx_user_name;not null" json:"name"`
}

// WishlistProduct links a wishlist to a product. The composite unique
// index makes membership a set: re-adding the same product is a no-op.
type WishlistProduct struct {
	ID         uint `gorm:"primaryKey;autoIncrement"                  json:"id"`
	WishlistID uint `gorm:"uniqueIndex:idx_wishlist_product;not null" json:"wishlist_id"`
	ProductID  uint `gorm:"uniqueIndex:idx_wishlist_product;not null" json:"product_id"`
}

func (Wishlist) TableName() string {
	return "wishlists"
}

func (WishlistProduct) TableName() string {
	return "wishlist_products"
}
