package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the account entity. PasswordHash is a bcrypt hash, never the raw
// credential, and never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
