package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nkazancev/shop_wishlist/internal/tokens"
	"github.com/nkazancev/shop_wishlist/internal/util"
)

type AuthMiddleware struct {
	JWTSecret []byte
}

func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{JWTSecret: secret}
}

// RequireLogin gates the wishlist pages. Requests without a valid access
// cookie are sent to the login page; XHR callers get a bare 401 instead.
func (m *AuthMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie("accessToken")
		if err != nil || accessCookie.Value == "" {
			return m.reject(c)
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err != nil || claims == nil {
			c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
			return m.reject(c)
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

func (m *AuthMiddleware) reject(c echo.Context) error {
	if util.IsXHR(c.Request()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return c.Redirect(http.StatusFound, "/login")
}
