package model

import "time"

// Admin represents a staff account allowed to manage orders and menu.
type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
