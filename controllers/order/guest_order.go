package orderControllers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ashastore/asha-api/apperrors"
	"github.com/ashastore/asha-api/models"
)

type GuestOrderItemInput struct {
	ProductID   uint    `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name"`
	Size        string  `json:"size"`
	UnitPrice   float64 `json:"unit_price" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
}

type CreateGuestOrderRequest struct {
	CustomerName  string                `json:"customer_name" binding:"required"`
	CustomerEmail string                `json:"customer_email" binding:"required,email"`
	CustomerPhone string                `json:"customer_phone" binding:"required"`
	Address       string                `json:"address" binding:"required"`
	City          string                `json:"city" binding:"required"`
	State         string                `json:"state" binding:"required"`
	PostalCode    string                `json:"postal_code" binding:"required"`
	Items         []GuestOrderItemInput `json:"items" binding:"required,min=1,dive"`
	TotalAmount   float64               `json:"total_amount" binding:"required"`
	PaymentMethod string                `json:"payment_method"`
	Notes         string                `json:"notes"`
}

type MarkPaidRequest struct {
	PaymentID         string `json:"payment_id" binding:"required"`
	PaymentLinkID     string `json:"payment_link_id"`
	PaymentLinkStatus string `json:"payment_link_status"`
}

// Generate unique order reference, e.g. 20250908130500-<uuid4>
func generateOrderNumber() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// POST /api/v1/guest-orders
//
// Creates the order before any payment happens; the caller then takes the
// shopper to the hosted payment page and the provider's return redirect
// hits the mark-paid callback.
func CreateGuestOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateGuestOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Total must equal the sum of line subtotals at creation time.
		var sum float64
		for _, item := range req.Items {
			if item.Size != "" && !models.ValidSize(item.Size) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size: " + item.Size})
				return
			}
			sum += item.UnitPrice * float64(item.Quantity)
		}
		if req.TotalAmount <= 0 || math.Abs(sum-req.TotalAmount) > 0.01 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Total amount does not match item subtotals"})
			return
		}

		order := models.GuestOrder{
			OrderNumber:   generateOrderNumber(),
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			Address:       req.Address,
			City:          req.City,
			State:         req.State,
			PostalCode:    req.PostalCode,
			TotalAmount:   req.TotalAmount,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, item := range req.Items {
				var product models.Product
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&product, "id = ?", item.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.Wrap(apperrors.ErrInvalidOrder, errors.New("product does not exist"))
					}
					return err
				}

				if product.Stock < item.Quantity {
					return apperrors.Wrap(apperrors.ErrInsufficientStock,
						errors.New("product: "+product.Name))
				}

				// Deduct stock
				product.Stock -= item.Quantity
				if err := tx.Save(&product).Error; err != nil {
					return err
				}

				name := item.ProductName
				if name == "" {
					name = product.Name
				}
				order.Items = append(order.Items, models.GuestOrderItem{
					ProductID:   product.ID,
					ProductName: name,
					Size:        item.Size,
					UnitPrice:   item.UnitPrice,
					Quantity:    item.Quantity,
				})
			}

			return tx.Create(&order).Error
		})
		if err != nil {
			// App errors keep their status; anything else is a DB failure.
			_ = c.Error(err)
			return
		}

		broadcastOrderUpdate(order)

		c.JSON(http.StatusCreated, gin.H{
			"order_number": order.OrderNumber,
			"order":        order,
		})
	}
}

// POST /api/v1/guest-orders/:orderNumber/mark-paid
//
// Payment confirmation callback fired from the provider's return
// redirect. The redirect itself is trusted; there is no signature to
// verify on a hosted payment link.
func MarkGuestOrderPaid(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNumber := c.Param("orderNumber")

		var req MarkPaidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var order models.GuestOrder
		if err := db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		// Marking paid twice is a no-op, not an error; the return page
		// may be reloaded.
		if order.PaymentStatus != models.PaymentStatusPaid {
			order.PaymentStatus = models.PaymentStatusPaid
			order.Status = models.OrderStatusConfirmed
			order.PaymentID = req.PaymentID
			order.PaymentLinkID = req.PaymentLinkID
			order.PaymentLinkStatus = req.PaymentLinkStatus
			if err := db.Save(&order).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
				return
			}
			broadcastOrderUpdate(order)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order marked as paid", "order": order})
	}
}

// GET /api/v1/guest-orders/:orderNumber
func GetGuestOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNumber := c.Param("orderNumber")

		var order models.GuestOrder
		if err := db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
