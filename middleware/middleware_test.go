package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toy-store/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCartID_Precedence(t *testing.T) {
	var got []string
	r := gin.New()
	r.GET("/carts/:id", func(c *gin.Context) { got = append(got, CartID(c)) })
	r.GET("/cart", func(c *gin.Context) { got = append(got, CartID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/carts/cart_path", nil)
	req.Header.Set(CartHeader, "cart_header")
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(CartHeader, "cart_header")
	req.AddCookie(&http.Cookie{Name: CartCookie, Value: "cart_cookie"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CartCookie, Value: "cart_cookie"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"cart_path", "cart_header", "cart_cookie"}, got)
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/private", AuthMiddleware("secret", LoginRedirect), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxCustomerID))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), LoginRedirect)

	token, err := utils.GenerateToken("secret", time.Hour, "cus_1", "a@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cus_1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalAuth("secret"), func(c *gin.Context) {
		c.String(http.StatusOK, "anon:"+c.GetString(CtxCustomerID))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anon:", w.Body.String())
}

func TestSessionRefresh_OnlyNearExpiry(t *testing.T) {
	cfg := SessionConfig{Secret: "secret", Expiry: 24 * time.Hour, Window: time.Hour}
	r := gin.New()
	r.GET("/", SessionRefresh(cfg), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve := func(expiry time.Duration) *httptest.ResponseRecorder {
		token, err := utils.GenerateToken("secret", expiry, "cus_1", "a@x.com")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Empty(t, serve(12*time.Hour).Header().Values("Set-Cookie"))
	assert.NotEmpty(t, serve(10*time.Minute).Header().Values("Set-Cookie"))
}

func TestRevalidateSecret(t *testing.T) {
	r := gin.New()
	r.POST("/revalidate", RevalidateSecret("s3cret"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for secret, code := range map[string]int{"": http.StatusUnauthorized, "nope": http.StatusUnauthorized, "s3cret": http.StatusOK} {
		req := httptest.NewRequest(http.MethodPost, "/revalidate", nil)
		if secret != "" {
			req.Header.Set(RevalidateHeader, secret)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, code, w.Code, secret)
	}
}
