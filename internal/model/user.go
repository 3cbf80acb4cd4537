package model

import "time"

// User is an account that owns categories and expenses.
type User struct {
	CreatedAt time.Time
	ID        string
	Email     string
	FullName  string
}
