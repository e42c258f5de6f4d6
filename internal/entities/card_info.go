package entities

import "time"

// CardInfo represents a payment card row in the database
type CardInfo struct {
	ID             int64
	Number         string
	Holder         string
	ExpirationDate *time.Time
	UserID         *int64 // nullable reference to users.id
}
