package models

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Username     string    `gorm:"unique;not null" json:"username"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:VARCHAR(10);default:'buyer'" json:"role"`
	IsVerified   bool      `gorm:"default:false" json:"is_verified"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether s is one of the accepted account roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}
