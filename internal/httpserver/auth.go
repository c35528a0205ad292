package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nkazancev/shop_wishlist/internal/hash"
	"github.com/nkazancev/shop_wishlist/internal/logging"
	"github.com/nkazancev/shop_wishlist/internal/repo"
	"github.com/nkazancev/shop_wishlist/internal/tokens"
	"github.com/nkazancev/shop_wishlist/internal/util"
)

const sessionTTL = 24 * time.Hour

type AuthHTTP struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func (h *AuthHTTP) RenderLogin(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", map[string]any{
		"Notice": takeFlash(c),
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.Repo.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err != nil || !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_error", "status", 401, "username", username)
		if util.IsXHR(c.Request()) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		setFlash(c, "Invalid username or password.")
		return c.Redirect(http.StatusFound, "/login")
	}

	exp := time.Now().Add(sessionTTL)
	token, err := tokens.NewAccessToken(user.ID, user.Role, h.JWTSecret, exp)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(tokens.CreateCookie("accessToken", token, "/", exp))

	l.Info("login_success", "user_id", user.ID)
	if util.IsXHR(c.Request()) {
		return c.String(http.StatusOK, "success")
	}
	return c.Redirect(http.StatusFound, "/wishlists")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
	if util.IsXHR(c.Request()) {
		return c.String(http.StatusOK, "success")
	}
	return c.Redirect(http.StatusFound, "/login")
}
