package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns a UUIDv7 as exactly 32 lowercase hex characters. Ids
// created later sort later, which keeps public-id indexes append-mostly.
func NewID32() string {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return hex.EncodeToString(u[:])
}
