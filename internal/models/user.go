package models

import (
	"time"
)

// Role values for User.Role
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string // "user" or "admin"
	PendingToken *string // verification token awaiting confirmation
	Verified     bool
	LoggedIn     bool
	OTP          *string    // reserved, no flow reads these yet
	OTPExpiresAt *time.Time
	ProfilePic   string
	Address      *string
	City         *string
	ZipCode      *string
	PhoneNo      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
