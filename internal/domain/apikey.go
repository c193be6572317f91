package domain

import "time"

type APIKey struct {
	ID         int64
	Name       string
	CreatedAt  *time.Time
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	Active     bool
}

// GeneratedKey is returned once on creation; Key is the only copy of the
// secret the client will ever see.
type GeneratedKey struct {
	ID        int64
	Name      string
	Key       string
	ExpiresAt *time.Time
}

// APIKeyRequest is the input for generating a key.
type APIKeyRequest struct {
	Name        string `validate:"required,max=100"`
	ExpiresDays int    `validate:"min=1,max=3650"`
}
