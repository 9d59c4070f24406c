package dto

import "time"

// AuthenticateRequest payload for login.
type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest payload for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ChangePasswordRequest payload for authenticated password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PasswordResetStartRequest payload for reset initiation.
type PasswordResetStartRequest struct {
	Email string `json:"email"`
}

// PasswordResetCompleteRequest payload for reset completion.
type PasswordResetCompleteRequest struct {
	UID         string `json:"uid"`
	NewPassword string `json:"newPassword"`
}

// CreateUserRequest payload for operator-driven account provisioning.
type CreateUserRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	CompanyID *string `json:"companyId,omitempty"`
}

// ProfileResponse describes the authenticated caller.
type ProfileResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      string  `json:"role"`
	CompanyID *string `json:"companyId,omitempty"`
}
