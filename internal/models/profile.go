package models

import "time"

type Profile struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"` // Never expose in JSON
	FullName              string    `json:"full_name"`
	PhoneNumber           string    `json:"phone_number"`
	AvatarURL             string    `json:"avatar_url,omitempty"`
	Location              string    `json:"location,omitempty"`
	HouseNumber           string    `json:"house_number,omitempty"`
	NationalIDNumber      string    `json:"national_id_number,omitempty"`
	NationalIDPhotoURL    string    `json:"national_id_photo_url,omitempty"`
	DriverLicenseNumber   string    `json:"driver_license_number,omitempty"`
	DriverLicensePhotoURL string    `json:"driver_license_photo_url,omitempty"`
	SelfieURL             string    `json:"selfie_url,omitempty"`
	IsVerified            bool      `json:"is_verified"`
	Role                  string    `json:"role"` // USER or ADMIN
	TOTPSecret            string    `json:"-"`
	TOTPEnabled           bool      `json:"totp_enabled"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"` // Required when 2FA is enabled
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// UpdateProfileRequest represents the request body for updating contact details
type UpdateProfileRequest struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	AvatarURL   string `json:"avatar_url"`
	Location    string `json:"location"`
	HouseNumber string `json:"house_number"`
}

// SubmitVerificationRequest carries the identity documents a renter submits
// for admin review. Verification itself is flipped by an admin, never here.
type SubmitVerificationRequest struct {
	NationalIDNumber      string `json:"national_id_number"`
	NationalIDPhotoURL    string `json:"national_id_photo_url"`
	DriverLicenseNumber   string `json:"driver_license_number"`
	DriverLicensePhotoURL string `json:"driver_license_photo_url"`
	SelfieURL             string `json:"selfie_url"`
}
