package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nkazancev/shop_wishlist/internal/logging"
	"github.com/nkazancev/shop_wishlist/internal/service"
	"github.com/nkazancev/shop_wishlist/internal/util"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) GetID(c echo.Context) (uint, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, errors.New("unauthorized")
	}

	userID, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New("unauthorized")
	}

	return uint(userID), nil
}

func wishlistPath(id uint) string {
	return fmt.Sprintf("/wishlists/%d", id)
}

func redirectBack(c echo.Context, fallback string) error {
	target := c.Request().Referer()
	if target == "" {
		target = fallback
	}
	return c.Redirect(http.StatusFound, target)
}

// RenderWishlists handles GET and POST /wishlists. A POST carrying a name
// finds or creates that wishlist; everything else renders the caller's
// wishlists.
func (h *WishlistHTTP) RenderWishlists(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.list")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("wishlists_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if name := c.FormValue("name"); c.Request().Method == http.MethodPost && name != "" {
		wishlist, err := h.Svc.FindOrCreate(ctx, userID, name)
		if err != nil {
			l.Error("wishlist_create_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		l.Info("wishlist_created_or_found", "wishlist_id", wishlist.ID)
		if util.IsXHR(c.Request()) {
			return c.String(http.StatusOK, "success")
		}
		return c.Redirect(http.StatusFound, wishlistPath(wishlist.ID))
	}

	wishlists, err := h.Svc.List(ctx, userID)
	if err != nil {
		l.Error("wishlists_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.Render(http.StatusOK, "wishlists.html", map[string]any{
		"Notice":    takeFlash(c),
		"Wishlists": wishlists,
	})
}

// RenderWishlist handles GET /wishlists/:id. A wishlist owned by another
// user renders the same not-found as a nonexistent id.
func (h *WishlistHTTP) RenderWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("wishlist_get_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("wishlist_get_error", "status", 404, "reason", "id is not an integer")
		return echo.NewHTTPError(http.StatusNotFound, "wishlist not found")
	}

	wishlist, err := h.Svc.Get(ctx, uint(id), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			l.Warn("wishlist_get_error", "status", 404)
			return echo.NewHTTPError(http.StatusNotFound, "wishlist not found")
		}
		l.Error("wishlist_get_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	products, err := h.Svc.Products(ctx, wishlist.ID)
	if err != nil {
		l.Error("wishlist_get_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.Render(http.StatusOK, "wishlist.html", map[string]any{
		"Notice":   takeFlash(c),
		"Wishlist": wishlist,
		"Products": products,
	})
}

// RenameWishlist handles POST /wishlists/:id. A name collision keeps the
// current name and reports through a notice, not an error status.
func (h *WishlistHTTP) RenameWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.rename")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("wishlist_rename_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("wishlist_rename_error", "status", 404, "reason", "id is not an integer")
		return echo.NewHTTPError(http.StatusNotFound, "wishlist not found")
	}

	name := c.FormValue("name")
	if name == "" {
		return h.RenderWishlist(c)
	}

	wishlist, err := h.Svc.Rename(ctx, uint(id), userID, name)
	switch {
	case errors.Is(err, service.ErrNameTaken):
		l.Info("wishlist_rename_collision", "name", name)
		setFlash(c, "Wishlist with name: "+name+" already exists.")
		return redirectBack(c, wishlistPath(uint(id)))
	case errors.Is(err, service.ErrNotOwner):
		l.Warn("wishlist_rename_error", "status", 404)
		return echo.NewHTTPError(http.StatusNotFound, "wishlist not found")
	case err != nil:
		l.Error("wishlist_rename_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("wishlist_renamed", "wishlist_id", wishlist.ID, "name", name)
	setFlash(c, "Changed name of wishlist to "+name+".")
	if util.IsXHR(c.Request()) {
		return c.String(http.StatusOK, "success")
	}
	return redirectBack(c, wishlistPath(wishlist.ID))
}

// DeleteWishlist handles DELETE /wishlists/:id. Non-XHR callers get the
// redirect target as the body, mirroring the in-page delete flow.
func (h *WishlistHTTP) DeleteWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.delete")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("wishlist_delete_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("wishlist_delete_error", "status", 404, "reason", "id is not an integer")
		return echo.NewHTTPError(http.StatusNotFound, "wishlist not found")
	}

	if err := h.Svc.Delete(ctx, uint(id), userID); err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			l.Warn("wishlist_delete_error", "status", 404)
			return echo.NewHTTPError(http.StatusNotFound, "wishlist not found")
		}
		l.Error("wishlist_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("wishlist_deleted", "wishlist_id", id)
	if util.IsXHR(c.Request()) {
		return c.String(http.StatusOK, "success")
	}
	return c.String(http.StatusOK, "/wishlists")
}

// SetProduct handles POST /wishlists/products: adds or removes a product,
// falling back to the caller's default wishlist when none is named.
func (h *WishlistHTTP) SetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.set_product")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("wishlist_product_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := strconv.ParseUint(c.FormValue("product"), 10, 64)
	if err != nil {
		l.Warn("wishlist_product_error", "status", 404, "reason", "product is not an integer")
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	var wishlistID *uint
	if raw := c.FormValue("wishlist"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			l.Warn("wishlist_product_error", "status", 400, "reason", "wishlist is not an integer")
			return echo.NewHTTPError(http.StatusBadRequest, "wishlist not valid")
		}
		id := uint(parsed)
		wishlistID = &id
	}

	action := c.FormValue("action")
	wishlist, err := h.Svc.SetMembership(ctx, userID, uint(productID), action, wishlistID)
	switch {
	case errors.Is(err, service.ErrInvalidWishlist):
		l.Warn("wishlist_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "wishlist not valid")
	case errors.Is(err, service.ErrNotFound):
		l.Warn("wishlist_product_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case err != nil:
		l.Error("wishlist_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("wishlist_product_set", "wishlist_id", wishlist.ID, "product_id", productID, "action", action)
	if util.IsXHR(c.Request()) {
		return c.String(http.StatusOK, "success")
	}
	return c.Redirect(http.StatusFound, wishlistPath(wishlist.ID))
}
