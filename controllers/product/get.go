package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/apperrors"
	"github.com/ashastore/asha-api/models"
)

// GET /api/v1/products/:id
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				_ = c.Error(apperrors.ErrNotFound)
				return
			}
			_ = c.Error(apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
