package domain

import "time"

// User is a marketplace account. The password material and TokenID are
// credentials and never leave the service; use Public for responses.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Avatar      string    `json:"avatar,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Country     string    `json:"country,omitempty"`
	State       string    `json:"state,omitempty"`
	City        string    `json:"city,omitempty"`
	Pincode     string    `json:"pincode,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	PasswordHash string `json:"password_hash"`
	PasswordSalt string `json:"password_salt"`

	// TokenID is the jti of the only session token currently accepted.
	TokenID string `json:"token_id"`
}

// PublicUser is the client-facing view of a User.
type PublicUser struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Avatar      string    `json:"avatar,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Country     string    `json:"country,omitempty"`
	State       string    `json:"state,omitempty"`
	City        string    `json:"city,omitempty"`
	Pincode     string    `json:"pincode,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public strips credentials from u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		Avatar:      u.Avatar,
		PhoneNumber: u.PhoneNumber,
		Country:     u.Country,
		State:       u.State,
		City:        u.City,
		Pincode:     u.Pincode,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
	}
}

// Seller is the owner summary attached to listing responses.
type Seller struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AsSeller returns the seller summary of u.
func (u *User) AsSeller() *Seller {
	return &Seller{ID: u.ID, Username: u.Username, Email: u.Email}
}
