package models

import "time"

// Account roles.
const (
	RoleCashier = "cashier"
	RoleAdmin   = "admin"
)

// Account is a person allowed to operate the till.
type Account struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	FirstName string    `gorm:"size:100;not null"             json:"firstName"`
	LastName  string    `gorm:"size:100"                      json:"lastName"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username  string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Phone     string    `gorm:"size:30"                       json:"phone"`
	Password  string    `gorm:"size:255;not null"             json:"-"` // bcrypt hash
	Role      string    `gorm:"size:20;not null;default:cashier;index" json:"role"`
	Photo     string    `gorm:"size:255"                      json:"-"` // disk path
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the account holds the admin role.
func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }
