package entity

import (
	"time"
)

// Deal is one entry of a user's "good things" list. The ID is assigned
// server-side on creation and is the only stable handle for updates and
// removal; titles may repeat.
type Deal struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// User is the aggregate root for the user domain. Email is the unique key.
// Deals and friends are embedded documents mutated together with the user,
// never addressed as standalone rows.
//
// PasswordHash is a bcrypt hash and must never reach a client; keep it out of
// JSON and map responses explicitly.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Deals        []Deal    `json:"deals"`
	Friends      []string  `json:"friends"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
