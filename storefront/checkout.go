package storefront

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ashastore/asha-api/models"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	postalPattern = regexp.MustCompile(`^[1-9]\d{5}$`)
)

// CheckoutForm is the contact/address form submitted at checkout.
type CheckoutForm struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
	Notes      string
}

// ValidationError carries field-level messages; any failing field blocks
// submission before any network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout form invalid: %d field(s)", len(e.Fields))
}

// Validate checks every required field and returns nil only when all
// papers are in order.
func (f CheckoutForm) Validate() *ValidationError {
	fields := make(map[string]string)

	if strings.TrimSpace(f.Name) == "" {
		fields["name"] = "Name is required"
	}
	if !emailPattern.MatchString(f.Email) {
		fields["email"] = "Enter a valid email address"
	}
	if !phonePattern.MatchString(f.Phone) {
		fields["phone"] = "Enter a valid 10-digit mobile number"
	}
	if strings.TrimSpace(f.Address) == "" {
		fields["address"] = "Address is required"
	}
	if strings.TrimSpace(f.City) == "" {
		fields["city"] = "City is required"
	}
	if strings.TrimSpace(f.State) == "" {
		fields["state"] = "State is required"
	}
	if !postalPattern.MatchString(f.PostalCode) {
		fields["postal_code"] = "Enter a valid 6-digit PIN code"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ErrPopupBlocked means the payment page could not be opened. The order
// was already created server-side, so this is a UX dead-end rather than
// data loss; the cart is left intact.
var ErrPopupBlocked = errors.New("payment page blocked; allow popups and retry")

// ErrEmptyTotal rejects checkouts whose cart total is not positive.
var ErrEmptyTotal = errors.New("order total must be positive")

// URLOpener takes the shopper to the hosted payment page, e.g. by
// opening a browser tab. Returning an error means the handoff failed.
type URLOpener func(url string) error

// Checkout turns cart contents plus a contact form into a submitted
// order and hands off to the external payment page.
type Checkout struct {
	client         *APIClient
	cart           *Cart
	paymentPageURL string
	openURL        URLOpener
}

func NewCheckout(client *APIClient, cart *Cart, paymentPageURL string, openURL URLOpener) *Checkout {
	return &Checkout{
		client:         client,
		cart:           cart,
		paymentPageURL: paymentPageURL,
		openURL:        openURL,
	}
}

// Result reports a completed submission. OrderNumber is set as soon as
// the backend accepted the order, even when the payment handoff failed.
type Result struct {
	OrderNumber string
	PaymentURL  string
}

// PaymentURL appends the amount in minor units (paise) to the hosted
// payment page base URL.
func PaymentURL(base string, total float64) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	paise := int64(math.Round(total * 100))
	q := u.Query()
	q.Set("amount", strconv.FormatInt(paise, 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Submit validates the form, creates the order, and opens the payment
// page. The cart is cleared only after a successful handoff; an already
// created order is never rolled back.
func (co *Checkout) Submit(ctx context.Context, form CheckoutForm) (*Result, error) {
	if verr := form.Validate(); verr != nil {
		return nil, verr
	}

	total := co.cart.Total()
	if total <= 0 {
		return nil, ErrEmptyTotal
	}

	items := co.cart.Items()
	orderItems := make([]GuestOrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, GuestOrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Size:        item.Size,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	orderNumber, err := co.client.CreateGuestOrder(ctx, GuestOrderRequest{
		CustomerName:  form.Name,
		CustomerEmail: form.Email,
		CustomerPhone: form.Phone,
		Address:       form.Address,
		City:          form.City,
		State:         form.State,
		PostalCode:    form.PostalCode,
		Items:         orderItems,
		TotalAmount:   total,
		PaymentMethod: "payment_link",
		Notes:         form.Notes,
	})
	if err != nil {
		return nil, err
	}

	payURL, err := PaymentURL(co.paymentPageURL, total)
	if err != nil {
		return nil, err
	}

	result := &Result{OrderNumber: orderNumber, PaymentURL: payURL}

	if err := co.openURL(payURL); err != nil {
		return result, ErrPopupBlocked
	}

	co.cart.Clear()
	return result, nil
}

// ConfirmPayment fires the mark-paid callback for an order after the
// provider's return redirect.
func (co *Checkout) ConfirmPayment(ctx context.Context, orderNumber, paymentID, paymentLinkID, paymentLinkStatus string) error {
	return co.client.MarkOrderPaid(ctx, orderNumber, paymentID, paymentLinkID, paymentLinkStatus)
}

// ReturnOutcome is what the payment-success page works from.
type ReturnOutcome struct {
	Order        *models.GuestOrder
	SessionState State
	// EmailMismatch is set when a verified session user's email differs
	// from the order's customer email.
	EmailMismatch bool
}

// CompleteReturn handles the provider's return redirect: re-derive the
// session identity (with retries, since the redirect may have wiped the
// durable store), mark the order paid, then reconcile the order against
// whoever the session says we are.
func (co *Checkout) CompleteReturn(ctx context.Context, session *SessionManager, orderNumber, paymentID, paymentLinkID, paymentLinkStatus string) (*ReturnOutcome, error) {
	state := session.RestoreAfterRedirect(ctx)

	if err := co.ConfirmPayment(ctx, orderNumber, paymentID, paymentLinkID, paymentLinkStatus); err != nil {
		return nil, err
	}

	order, err := co.client.GuestOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	outcome := &ReturnOutcome{Order: order, SessionState: state}
	if user := session.CurrentUser(); user != nil && !strings.EqualFold(user.Email, order.CustomerEmail) {
		outcome.EmailMismatch = true
	}
	return outcome, nil
}
