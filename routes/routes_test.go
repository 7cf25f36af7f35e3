package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toy-store/controllers"
	"toy-store/middleware"
	"toy-store/services"
	"toy-store/utils"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// PayU left unconfigured: the callback fails fast without touching storage.
	payments := services.NewPaymentService(nil, nil, nil, services.PaymentServiceConfig{Logger: zap.NewNop()})
	h := &Handlers{
		Auth:       &controllers.AuthController{},
		Carts:      &controllers.CartController{Logger: zap.NewNop()},
		Promos:     &controllers.PromoController{},
		Products:   &controllers.ProductController{},
		Orders:     &controllers.OrderController{},
		Checkout:   &controllers.TransactionController{Payments: payments, StorefrontURL: "http://shop.test", Logger: zap.NewNop()},
		Revalidate: &controllers.RevalidateController{},
	}

	router := gin.New()
	SetupRoutes(router, h, Options{
		JWTSecret: testSecret,
		Session: middleware.SessionConfig{
			Secret: testSecret,
			Expiry: 24 * time.Hour,
			Window: 2 * time.Hour,
		},
		RevalidateSecret: "s3cret",
	})
	return router
}

func expiringCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, 10*time.Minute, "cus_1", "a@x.com")
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.AuthCookie, Value: token}
}

func sessionCookieSet(w *httptest.ResponseRecorder) bool {
	for _, header := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(header, middleware.AuthCookie+"=") {
			return true
		}
	}
	return false
}

func TestSessionRefresh_StorefrontRoutesReissueCookie(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/store/cart", nil)
	req.AddCookie(expiringCookie(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sessionCookieSet(w))
}

func TestSessionRefresh_SkipsPayUCallback(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/payment/payu/callback", strings.NewReader("txnid=TXN1&status=success"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(expiringCookie(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.False(t, sessionCookieSet(w))
}

func TestCheckoutRequiresLogin(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/payu", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), middleware.LoginRedirect)
}

func TestRevalidateRequiresSecret(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/revalidate", strings.NewReader(`{"tags":["carts"]}`)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
