package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is the persisted identity record. OTPToken holds the bcrypt hash of
// the pending one-time code; OTPToken and OTPExpires are set and removed together.
type Account struct {
	AccountID    string     `json:"id" dynamodbav:"account_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	OTPToken     *string    `json:"-" dynamodbav:"otp_token,omitempty"`
	OTPExpires   *time.Time `json:"-" dynamodbav:"otp_expires,omitempty"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// HasPendingOTP reports whether a one-time code is outstanding.
func (a *Account) HasPendingOTP() bool {
	return a.OTPToken != nil && a.OTPExpires != nil
}

// Identity is what a successful sign-in hands to the transport layer.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (a *Account) Identity() *Identity {
	return &Identity{ID: a.AccountID, Email: a.Email, Name: a.Name, Role: a.Role}
}
