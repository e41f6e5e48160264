package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Donors pledge quantities; food banks post needs.
const (
	RoleDonor    = "donor"
	RoleFoodBank = "food_bank"
	RoleAdmin    = "admin"
)

// User represents a registered account: a donor, a food bank, or an admin.
// Donors carry first/last name; food banks carry an organization name.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	Role      string         `gorm:"size:20;not null;index" json:"role"`
	FirstName string         `gorm:"size:100" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name"`
	OrgName   string         `gorm:"size:200" json:"org_name"`
	Address   string         `gorm:"size:500" json:"address"`
	Phone     string         `gorm:"size:50" json:"phone"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// DisplayName returns the donor full name or the food bank organization name.
func (u *User) DisplayName() string {
	if u.Role == RoleFoodBank && u.OrgName != "" {
		return u.OrgName
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
