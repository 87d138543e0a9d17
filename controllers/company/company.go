package companyControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/models"
)

type UpdateCompanyInfoRequest struct {
	Name           string `json:"name"`
	Tagline        string `json:"tagline"`
	Description    string `json:"description"`
	YearsActive    int    `json:"years_active"`
	HappyCustomers int    `json:"happy_customers"`
	ProductsSold   int    `json:"products_sold"`
	CitiesServed   int    `json:"cities_served"`
}

// GET /api/v1/company/info (public)
func GetCompanyInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var info models.CompanyInfo
		if err := db.First(&info).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, models.CompanyInfo{Name: "Aशा"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch company info"})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// PUT /api/v1/company/info (seller/admin)
func UpdateCompanyInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCompanyInfoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var info models.CompanyInfo
		err := db.First(&info).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch company info"})
			return
		}

		info.Name = req.Name
		info.Tagline = req.Tagline
		info.Description = req.Description
		info.YearsActive = req.YearsActive
		info.HappyCustomers = req.HappyCustomers
		info.ProductsSold = req.ProductsSold
		info.CitiesServed = req.CitiesServed

		if err := db.Save(&info).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company info"})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}
