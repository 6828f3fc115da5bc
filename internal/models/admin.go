package models

import "time"

// AdminAccount is the single back-office account
type AdminAccount struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// AdminSummary is what registration reveals about the new account
type AdminSummary struct {
	Email string `json:"email"`
}

// Session is an issued bearer credential
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Principal is the verified subject of a bearer token
type Principal struct {
	SubjectID    string
	SubjectEmail string
}
