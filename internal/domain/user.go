package domain

import "time"

// User roles.
const (
	RoleBuyer   = "buyer"
	RoleSeller  = "seller"
	RoleCourier = "courier"
)

// Profile is the authenticated user's account.
type Profile struct {
	ID         int64     `json:"id"`
	UniqueID   string    `json:"unique_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"`
	Address    string    `json:"address,omitempty"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProfileInput is the payload for updating the profile.
type ProfileInput struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"max=32"`
	Address string `json:"address,omitempty" validate:"max=500"`
}

// ChangePasswordInput is the payload for changing the password.
type ChangePasswordInput struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// Verification status constants.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Verification is an identity or business document submitted for review.
type Verification struct {
	ID           int64     `json:"id"`
	UniqueID     string    `json:"unique_id"`
	DocumentType string    `json:"document_type"`
	DocumentURL  string    `json:"document_url"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// VerificationInput is the payload for submitting a verification.
type VerificationInput struct {
	DocumentType string `json:"document_type" validate:"required,oneof=national_id business_license farm_certificate drivers_license"`
	DocumentURL  string `json:"document_url" validate:"required,url"`
	Notes        string `json:"notes,omitempty" validate:"max=1000"`
}
