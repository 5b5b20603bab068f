package models

import "time"

// Household is the ownership boundary for profiles and the shared library.
type Household struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a login account. Every user belongs to exactly one household.
type User struct {
	ID           int64     `json:"id"`
	HouseholdID  int64     `json:"household_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // "admin" or "user"
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is a named viewer within a household.
type Profile struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}
