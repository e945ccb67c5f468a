package model

import "gorm.io/gorm"

// User mirrors an identity owned by the external account service. Rows
// are created and updated by the account event listener, never by this
// service's own surface.
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Tier     string `gorm:"not null;default:basic" json:"tier"`
	Role     string `json:"role"`
	Points   int64  `gorm:"not null;default:0" json:"points"`
}
