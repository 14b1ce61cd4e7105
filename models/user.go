package models

import "time"

// User is an account that can publish recipes and follow other users.
// Email is the login identity.
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Email     string     `gorm:"not null;unique_index" json:"email" form:"email"`
	Username  string     `gorm:"not null;index" json:"username" form:"username"`
	FirstName string     `gorm:"not null" json:"first_name" form:"first_name"`
	LastName  string     `gorm:"not null" json:"last_name" form:"last_name"`
	Password  string     `gorm:"not null" json:"-"`
	Admin     bool       `gorm:"not null" json:"-"`
	CreatedAt *time.Time `json:"-"`
	UpdatedAt *time.Time `json:"-"`
}
