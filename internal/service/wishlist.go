package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nkazancev/shop_wishlist/internal/logging"
	"github.com/nkazancev/shop_wishlist/internal/models"
	"github.com/nkazancev/shop_wishlist/internal/repo"
)

var (
	ErrValidation      = errors.New("validation")
	ErrNotOwner        = errors.New("not owner")
	ErrInvalidWishlist = errors.New("invalid wishlist")
	ErrNotFound        = errors.New("not found")
	ErrNameTaken       = errors.New("name already taken")
)

const DefaultName = "Default"

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// EventProducer is satisfied by mykafka.Producer.
type EventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

type WishlistService struct {
	Repo     *repo.GormRepo
	Producer EventProducer
}

func (s *WishlistService) publish(ctx context.Context, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "wishlist_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "error", err)
	}
}

// FindOrCreate returns the wishlist named name owned by userID, creating
// it when none exists. Calling it twice with the same pair returns the
// same row both times.
func (s *WishlistService) FindOrCreate(ctx context.Context, userID uint, name string) (*models.Wishlist, error) {
	if name == "" {
		name = DefaultName
	}

	wishlist, created, err := s.Repo.FindOrCreateWishlist(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	if created {
		s.publish(ctx, fmt.Sprint(userID), map[string]any{
			"type":       "wishlist_created",
			"wishlistID": wishlist.ID,
			"userID":     userID,
			"name":       wishlist.Name,
		})
	}

	return wishlist, nil
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.Wishlist, error) {
	return s.Repo.ListWishlists(ctx, userID)
}

// Get resolves a wishlist for its owner. A wishlist owned by somebody
// else and a nonexistent id are indistinguishable to the caller.
func (s *WishlistService) Get(ctx context.Context, id, userID uint) (*models.Wishlist, error) {
	wishlist, err := s.Repo.GetOwnedWishlist(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("wishlist %d: %w", id, ErrNotOwner)
	}
	if err != nil {
		return nil, err
	}
	return wishlist, nil
}

func (s *WishlistService) Products(ctx context.Context, wishlistID uint) ([]models.Product, error) {
	return s.Repo.WishlistProducts(ctx, wishlistID)
}

// Rename changes a wishlist's name unless another wishlist of the same
// owner already carries it, in which case the original name is kept and
// ErrNameTaken reported.
func (s *WishlistService) Rename(ctx context.Context, id, userID uint, name string) (*models.Wishlist, error) {
	if name == "" {
		return nil, fmt.Errorf("name must not be empty: %w", ErrValidation)
	}

	wishlist, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.SearchWishlist(ctx, userID, name); err == nil {
		return nil, fmt.Errorf("wishlist %q: %w", name, ErrNameTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.Repo.RenameWishlist(ctx, wishlist, name); err != nil {
		return nil, err
	}

	s.publish(ctx, fmt.Sprint(userID), map[string]any{
		"type":       "wishlist_renamed",
		"wishlistID": wishlist.ID,
		"userID":     userID,
		"name":       name,
	})

	return wishlist, nil
}

func (s *WishlistService) Delete(ctx context.Context, id, userID uint) error {
	wishlist, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteWishlist(ctx, wishlist.ID); err != nil {
		return err
	}

	s.publish(ctx, fmt.Sprint(userID), map[string]any{
		"type":       "wishlist_deleted",
		"wishlistID": wishlist.ID,
		"userID":     userID,
	})

	return nil
}

// SetMembership adds or removes a product. An explicit wishlist id must
// resolve to a wishlist owned by userID; without one the user's default
// wishlist is used, created on first touch. Both directions are
// idempotent.
func (s *WishlistService) SetMembership(ctx context.Context, userID, productID uint, action string, wishlistID *uint) (*models.Wishlist, error) {
	var wishlist *models.Wishlist
	var err error

	if wishlistID != nil {
		wishlist, err = s.Repo.GetOwnedWishlist(ctx, *wishlistID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wishlist %d: %w", *wishlistID, ErrInvalidWishlist)
		}
		if err != nil {
			return nil, err
		}
	} else {
		wishlist, err = s.FindOrCreate(ctx, userID, DefaultName)
		if err != nil {
			return nil, err
		}
	}

	if action != ActionAdd && action != ActionRemove {
		return nil, fmt.Errorf("action %q: %w", action, ErrNotFound)
	}

	product, err := s.Repo.GetPurchasableProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	eventType := "product_added"
	if action == ActionAdd {
		err = s.Repo.AddProduct(ctx, wishlist.ID, product.ID)
	} else {
		err = s.Repo.RemoveProduct(ctx, wishlist.ID, product.ID)
		eventType = "product_removed"
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, fmt.Sprint(userID), map[string]any{
		"type":       eventType,
		"wishlistID": wishlist.ID,
		"productID":  product.ID,
		"userID":     userID,
	})

	return wishlist, nil
}
