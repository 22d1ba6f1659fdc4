package models

import "time"

// User represents a row of the `users` relation.
// ID and CreatedAt are assigned on creation and never change afterwards.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
