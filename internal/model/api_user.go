package model

import "time"

// APIUser is a credential allowed to call the API with HTTP Basic auth.
type APIUser struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
