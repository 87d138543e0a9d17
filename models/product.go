package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var productSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// ValidSize reports whether s is a recognised garment size.
func ValidSize(s string) bool {
	for _, v := range productSizes {
		if v == s {
			return true
		}
	}
	return false
}

type Product struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"not null" json:"name"`
	Description  string  `json:"description"`
	SalePrice    float64 `gorm:"not null" json:"sale_price"`
	RegularPrice float64 `json:"regular_price"`
	Image        string  `json:"image"`
	Stock        int     `json:"stock"`
	// Raw attribute blob as sellers submit it; parsed once at the API
	// boundary into ProductAttributes for the fixed listing endpoint.
	AttributesRaw string         `gorm:"type:text" json:"attributes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductAttributes is the structured form of the seller-supplied tag bag.
type ProductAttributes struct {
	Fabric   string   `json:"fabric,omitempty"`
	Color    string   `json:"color,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Occasion string   `json:"occasion,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
}

// ParseAttributes decodes and validates the raw attribute blob. Unknown
// keys are dropped, unknown sizes rejected. An empty blob yields the zero
// value.
func (p *Product) ParseAttributes() (ProductAttributes, error) {
	var attrs ProductAttributes
	raw := strings.TrimSpace(p.AttributesRaw)
	if raw == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return ProductAttributes{}, err
	}
	for _, s := range attrs.Sizes {
		if !ValidSize(s) {
			return ProductAttributes{}, errors.New("invalid size in attributes: " + s)
		}
	}
	return attrs, nil
}
