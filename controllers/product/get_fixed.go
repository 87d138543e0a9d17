package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/logger"
	"github.com/ashastore/asha-api/models"
)

// FixedProduct is a product with its attribute blob parsed into a
// structured record at the API boundary.
type FixedProduct struct {
	models.Product
	Attributes models.ProductAttributes `json:"attributes"`
}

// GET /api/v1/products-fixed
//
// Same listing as GetProducts but with attributes validated and
// normalized once here instead of ad hoc per consumer. Products whose
// blob fails to parse are served with empty attributes rather than
// dropped from the listing.
func GetProductsFixed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		items := make([]FixedProduct, 0, len(products))
		for _, p := range products {
			attrs, err := p.ParseAttributes()
			if err != nil {
				logger.Log.Warn("Malformed product attributes",
					zap.Uint("product_id", p.ID),
					zap.Error(err),
				)
				attrs = models.ProductAttributes{}
			}
			p.AttributesRaw = ""
			items = append(items, FixedProduct{Product: p, Attributes: attrs})
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}
