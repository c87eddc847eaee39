package model

// User represents an account that can sign in and act on reviews
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Do not expose password hash in JSON responses
	Role         Role   `json:"role"`
}
