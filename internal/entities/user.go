package entities

import "time"

// User represents a user row in the database
type User struct {
	ID           int64
	Name         string
	Surname      string
	BirthDate    time.Time
	Email        string
	PasswordHash string // bcrypt hash, never leaves the service layer
	Role         Role
}
