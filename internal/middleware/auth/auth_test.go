package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkazancev/shop_wishlist/internal/tokens"
)

var testSecret = []byte("test-secret")

func doRequest(t *testing.T, mw *AuthMiddleware, xhr bool, cookies ...*http.Cookie) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/wishlists", nil)
	if xhr {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw.RequireLogin(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, called, err
}

func TestRequireLogin_ValidToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret)
	token, err := tokens.NewAccessToken(7, "user", testSecret, time.Now().Add(time.Hour))
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/wishlists", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = mw.RequireLogin(func(c echo.Context) error {
		assert.Equal(t, "7", c.Get("user_id"))
		assert.Equal(t, "user", c.Get("role"))
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireLogin_MissingCookieRedirects(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret)
	rec, called, err := doRequest(t, mw, false)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireLogin_MissingCookieXHR(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret)
	_, called, err := doRequest(t, mw, true)
	assert.False(t, called)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLogin_BadToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret)
	expired, err := tokens.NewAccessToken(7, "user", testSecret, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{name: "garbage", value: "not-a-token"},
		{name: "expired", value: expired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, called, err := doRequest(t, mw, false, &http.Cookie{Name: "accessToken", Value: tt.value})
			require.NoError(t, err)
			assert.False(t, called)
			assert.Equal(t, http.StatusFound, rec.Code)
		})
	}
}
