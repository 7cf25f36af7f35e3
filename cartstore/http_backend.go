package cartstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"toy-store/models"
)

// StatusError is a non-2xx answer from the cart API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cart api returned %d", e.Code)
	}
	return fmt.Sprintf("cart api returned %d: %s", e.Code, e.Message)
}

// HTTPBackendConfig configures the REST client.
type HTTPBackendConfig struct {
	// BaseURL is the API root, e.g. http://localhost:8080.
	BaseURL string

	// Token is sent as a bearer token when set.
	Token string

	// HTTPClient is an optional custom HTTP client (for testing).
	HTTPClient *http.Client

	Timeout time.Duration
	Logger  *zap.Logger
}

// HTTPBackend talks to the store REST API. Calls go through a circuit
// breaker; client errors (4xx) do not count as failures.
type HTTPBackend struct {
	httpClient *http.Client
	baseURL    string
	token      string
	carts      *gobreaker.CircuitBreaker[*models.Cart]
	logger     *zap.Logger
}

func NewHTTPBackend(cfg HTTPBackendConfig) *HTTPBackend {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        "cart-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &HTTPBackend{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		carts:      gobreaker.NewCircuitBreaker[*models.Cart](settings),
		logger:     logger,
	}
}

func (b *HTTPBackend) FetchCart(ctx context.Context, cartID string) (*models.Cart, error) {
	return b.carts.Execute(func() (*models.Cart, error) {
		var resp models.CartResponse
		path := "/store/carts/" + url.PathEscape(cartID) + "?fresh=1"
		err := b.do(ctx, http.MethodGet, path, nil, &resp)
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return resp.Cart, nil
	})
}

func (b *HTTPBackend) DeleteLineItem(ctx context.Context, cartID, lineID string) error {
	_, err := b.carts.Execute(func() (*models.Cart, error) {
		path := "/store/carts/" + url.PathEscape(cartID) + "/line-items/" + url.PathEscape(lineID)
		var env envelope
		if err := b.do(ctx, http.MethodDelete, path, nil, &env); err != nil {
			return nil, err
		}
		return env.Data.Cart, nil
	})
	return err
}

func (b *HTTPBackend) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*models.Cart, error) {
	return b.carts.Execute(func() (*models.Cart, error) {
		if cartID == "" {
			var created envelope
			if err := b.do(ctx, http.MethodPost, "/store/carts", models.CreateCartRequest{}, &created); err != nil {
				return nil, err
			}
			if created.Data.Cart == nil {
				return nil, errors.New("cart api returned no cart")
			}
			cartID = created.Data.Cart.ID
		}

		var env envelope
		path := "/store/carts/" + url.PathEscape(cartID) + "/line-items"
		body := models.AddLineItemRequest{VariantID: variantID, Quantity: quantity}
		if err := b.do(ctx, http.MethodPost, path, body, &env); err != nil {
			return nil, err
		}
		return env.Data.Cart, nil
	})
}

// ListPaymentMethods and PlaceOrder serve the checkout orchestrator. They
// bypass the cart breaker.
func (b *HTTPBackend) ListPaymentMethods(ctx context.Context, regionID string) ([]models.PaymentProvider, error) {
	var providers []models.PaymentProvider
	path := "/store/payment-methods?region_id=" + url.QueryEscape(regionID)
	if err := b.do(ctx, http.MethodGet, path, nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

func (b *HTTPBackend) PlaceOrder(ctx context.Context, cartID string) (*models.Order, error) {
	var env struct {
		Success bool          `json:"success"`
		Data    *models.Order `json:"data"`
	}
	path := "/store/carts/" + url.PathEscape(cartID) + "/complete"
	if err := b.do(ctx, http.MethodPost, path, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, errors.New("cart api returned no order")
	}
	return env.Data, nil
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    models.CartResponse `json:"data"`
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp models.ErrorResponse
		_ = json.Unmarshal(data, &errResp)
		return &StatusError{Code: resp.StatusCode, Message: errResp.Message}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
