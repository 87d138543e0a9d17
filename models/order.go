package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending     OrderStatus = "pending"       // Order placed, awaiting confirmation
	OrderStatusConfirmed   OrderStatus = "confirmed"     // Confirmed by seller
	OrderStatusReadyToShip OrderStatus = "ready_to_ship" // Packed and ready for dispatch
	OrderStatusShipped     OrderStatus = "shipped"       // Out for delivery
	OrderStatusDelivered   OrderStatus = "delivered"     // Customer received the item
	OrderStatusReturned    OrderStatus = "returned"      // Customer returned the item
	OrderStatusCancelled   OrderStatus = "cancelled"     // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"  // Payment not completed yet
	PaymentStatusPaid     PaymentStatus = "paid"     // Payment completed successfully
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Money returned to customer
)

// GuestOrder is an order created at checkout time, before payment. It is
// addressed by OrderNumber for status lookups and the mark-paid callback,
// and never deleted.
type GuestOrder struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	OrderNumber   string           `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerName  string           `gorm:"not null" json:"customer_name"`
	CustomerEmail string           `gorm:"index;not null" json:"customer_email"`
	CustomerPhone string           `gorm:"not null" json:"customer_phone"`
	Address       string           `gorm:"not null" json:"address"`
	City          string           `gorm:"not null" json:"city"`
	State         string           `gorm:"not null" json:"state"`
	PostalCode    string           `gorm:"not null" json:"postal_code"`
	Items         []GuestOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64          `json:"total_amount"`
	PaymentMethod string           `json:"payment_method"`
	Notes         string           `json:"notes"`
	Status        OrderStatus      `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus    `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`

	// Fields recorded by the payment provider's return callback.
	PaymentID         string `json:"payment_id,omitempty"`
	PaymentLinkID     string `json:"payment_link_id,omitempty"`
	PaymentLinkStatus string `json:"payment_link_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GuestOrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"-"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Size        string  `json:"size,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

// Subtotal returns unit price times quantity for one line.
func (i GuestOrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
