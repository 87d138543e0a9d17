package models

import "time"

// CompanyInfo is the storefront "about" record: public read, seller write.
// A single row is kept and updated in place.
type CompanyInfo struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Tagline        string    `json:"tagline"`
	Description    string    `json:"description"`
	YearsActive    int       `json:"years_active"`
	HappyCustomers int       `json:"happy_customers"`
	ProductsSold   int       `json:"products_sold"`
	CitiesServed   int       `json:"cities_served"`
	UpdatedAt      time.Time `json:"updated_at"`
}
