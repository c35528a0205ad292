package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nkazancev/shop_wishlist/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	// A ":memory:" DSN gives every pooled connection its own empty
	// database; a per-test file keeps all connections on one DB.
	dsn := fmt.Sprintf("file:%s/test.db", t.TempDir())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Wishlist{}, &models.WishlistProduct{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &GormRepo{DB: db}
}

func TestWishlistUniqueConstraint(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	require.NoError(t, r.DB.Create(&models.Wishlist{UserID: 1, Name: "Default"}).Error)

	err := r.DB.Create(&models.Wishlist{UserID: 1, Name: "Default"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// same name under a different owner is fine
	require.NoError(t, r.DB.Create(&models.Wishlist{UserID: 2, Name: "Default"}).Error)
}

func TestFindOrCreateWishlist(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	first, created, err := r.FindOrCreateWishlist(ctx, 1, "Default")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := r.FindOrCreateWishlist(ctx, 1, "Default")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, r.DB.Model(&models.Wishlist{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// Two requests can both miss the search and race on the insert. Losing
// the insert must surface the winner's row, not an error. The callback
// slips a conflicting row in between the search and the create.
func TestFindOrCreateWishlist_CreateRace(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	var winner models.Wishlist
	injected := false
	err := r.DB.Callback().Create().Before("gorm:create").Register("inject_conflict", func(tx *gorm.DB) {
		if injected {
			return
		}
		injected = true
		winner = models.Wishlist{UserID: 1, Name: "Default"}
		// tx.Session would inherit the create's transaction and roll back
		// with it; inject through the outer pool so the row commits.
		if err := r.DB.Session(&gorm.Session{NewDB: true}).Create(&winner).Error; err != nil {
			t.Errorf("injecting conflicting row: %v", err)
		}
	})
	require.NoError(t, err)

	got, created, err := r.FindOrCreateWishlist(ctx, 1, "Default")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, got.ID)

	var count int64
	require.NoError(t, r.DB.Model(&models.Wishlist{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddProductIdempotent(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	wishlist, _, err := r.FindOrCreateWishlist(ctx, 1, "Default")
	require.NoError(t, err)

	require.NoError(t, r.AddProduct(ctx, wishlist.ID, 7))
	require.NoError(t, r.AddProduct(ctx, wishlist.ID, 7))

	var count int64
	require.NoError(t, r.DB.Model(&models.WishlistProduct{}).
		Where("wishlist_id = ?", wishlist.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetPurchasableProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	visible := models.Product{Name: "lamp", Description: "d", Price: 1, DisplayedOnEshop: true, Active: true}
	hidden := models.Product{Name: "ghost", Description: "d", Price: 1, DisplayedOnEshop: true, Active: false}
	require.NoError(t, r.DB.Create(&visible).Error)
	require.NoError(t, r.DB.Create(&hidden).Error)

	got, err := r.GetPurchasableProduct(ctx, visible.ID)
	require.NoError(t, err)
	assert.Equal(t, visible.ID, got.ID)

	_, err = r.GetPurchasableProduct(ctx, hidden.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
