package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/nkazancev/shop_wishlist/internal/middleware/auth"
)

type Deps struct {
	WishlistHandler *WishlistHTTP
	AuthHandler     *AuthHTTP
	SearchHandler   *SearchHTTP
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.Renderer = NewRenderer()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/login", d.AuthHandler.RenderLogin)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout)

	if d.SearchHandler != nil {
		e.GET("/products/search", d.SearchHandler.Handler)
	}

	authMW := middleware.NewAuthMiddleware(d.JWTSecret)

	wl := e.Group("/wishlists")
	wl.Use(authMW.RequireLogin)

	wl.GET("", d.WishlistHandler.RenderWishlists)
	wl.POST("", d.WishlistHandler.RenderWishlists)
	wl.POST("/products", d.WishlistHandler.SetProduct)
	wl.GET("/:id", d.WishlistHandler.RenderWishlist)
	wl.POST("/:id", d.WishlistHandler.RenameWishlist)
	wl.DELETE("/:id", d.WishlistHandler.DeleteWishlist)
}
