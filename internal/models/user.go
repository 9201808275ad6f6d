// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is the access level assigned to a user account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role value.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account on the Inkwell platform.
// Email is immutable after creation; PasswordHash never leaves the server.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Role         Role      `gorm:"type:varchar(16);not null;default:USER" json:"role"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Posts        []Post    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
}

// Profile is the self/admin projection of a user. It is the only user shape
// handlers serialize, so credential material cannot leak by accident.
type Profile struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToProfile converts a User into its API projection.
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Bio:       u.Bio,
		ImageURL:  u.ImageURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Author is the public author embed on post rows.
type Author struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AdminAuthor is the author embed on admin post rows.
type AdminAuthor struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
