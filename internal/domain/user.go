package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the credential-store record for anyone who can sign in.
// ResetToken and ResetTokenIssuedAt are either both set or both nil.
type User struct {
	ID                 string
	Username           string
	Email              string
	FirstName          string
	LastName           string
	PasswordHash       string
	Role               Role
	CompanyID          *string
	Status             UserStatus
	ResetToken         *string
	ResetTokenIssuedAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasActiveReset reports whether the user holds a reset token issued within
// the validity window ending at now.
func (u *User) HasActiveReset(now time.Time, window time.Duration) bool {
	if u.ResetToken == nil || u.ResetTokenIssuedAt == nil {
		return false
	}
	return now.Before(u.ResetTokenIssuedAt.Add(window))
}
