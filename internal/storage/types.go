package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the requested key does not exist.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey indicates an empty key.
	ErrInvalidKey = errors.New("invalid key")
)

// ValidateKey rejects empty keys.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key must not be empty", ErrInvalidKey)
	}
	return nil
}
