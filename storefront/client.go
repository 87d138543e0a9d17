// Package storefront holds the client-side core of the Aशा shop: the
// REST client, the in-memory cart, the session state machine with its
// tiered persistence, and the checkout flow that hands off to the hosted
// payment page.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ashastore/asha-api/models"
)

// ErrUnauthorized marks an explicit 401/invalid-token response from the
// backend; it is the only failure class that evicts a session.
var ErrUnauthorized = errors.New("unauthorized")

// APIClient is a thin client for the /api/v1 surface. It holds no session
// state of its own; the bearer token is passed per call so the session
// container stays the single source of truth.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

type apiError struct {
	Detail string `json:"error"`
}

func (c *APIClient) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Detail)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// Login exchanges credentials for a bearer token and the user record.
func (c *APIClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the identity the backend associates with the token. A
// returned ErrUnauthorized means the token is dead; any other error is
// transient.
func (c *APIClient) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type productList struct {
	Items []models.Product `json:"items"`
}

// Products lists the catalog.
func (c *APIClient) Products(ctx context.Context) ([]models.Product, error) {
	var out productList
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Product fetches a single catalog entry.
func (c *APIClient) Product(ctx context.Context, id uint) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type GuestOrderItem struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Size        string  `json:"size,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

type GuestOrderRequest struct {
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	CustomerPhone string           `json:"customer_phone"`
	Address       string           `json:"address"`
	City          string           `json:"city"`
	State         string           `json:"state"`
	PostalCode    string           `json:"postal_code"`
	Items         []GuestOrderItem `json:"items"`
	TotalAmount   float64          `json:"total_amount"`
	PaymentMethod string           `json:"payment_method"`
	Notes         string           `json:"notes"`
}

type guestOrderResponse struct {
	OrderNumber string `json:"order_number"`
}

// CreateGuestOrder submits the checkout payload and returns the generated
// order number.
func (c *APIClient) CreateGuestOrder(ctx context.Context, req GuestOrderRequest) (string, error) {
	var out guestOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/guest-orders", "", req, &out); err != nil {
		return "", err
	}
	return out.OrderNumber, nil
}

// GuestOrder fetches an order by its order number.
func (c *APIClient) GuestOrder(ctx context.Context, orderNumber string) (*models.GuestOrder, error) {
	var out models.GuestOrder
	if err := c.do(ctx, http.MethodGet, "/api/v1/guest-orders/"+orderNumber, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkOrderPaid fires the payment confirmation callback after the
// provider redirects back.
func (c *APIClient) MarkOrderPaid(ctx context.Context, orderNumber, paymentID, paymentLinkID, paymentLinkStatus string) error {
	body := map[string]string{
		"payment_id":          paymentID,
		"payment_link_id":     paymentLinkID,
		"payment_link_status": paymentLinkStatus,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/guest-orders/"+orderNumber+"/mark-paid", "", body, nil)
}
