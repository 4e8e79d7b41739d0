package cache

import (
	"fmt"
	"strings"
)

// MaxNameLength is the maximum allowed length for a section or key.
const MaxNameLength = 512

// Accessor is the get/set/remove bundle handed to components.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: Get and Load return fresh reconstructions; Set does not retain data.
// - Errors: Get never errors; it returns (nil, false) when the slot is absent.
type Accessor interface {
	// Get returns a fresh reconstruction of the value at (section, key).
	// A stored nil or zero value is reported as present.
	Get(section, key string) (any, bool)

	// Load decodes the value at (section, key) into dst, which must be a pointer.
	// It reports false with a nil error when the slot is absent.
	Load(section, key string, dst any) (bool, error)

	// Set encodes data and replaces the value at (section, key).
	// The section is created on first use.
	Set(section, key string, data any) error

	// Remove deletes one slot and reports whether it existed.
	Remove(section, key string) bool

	// RemoveSection deletes every key under section and reports whether
	// the section existed.
	RemoveSection(section string) bool
}

// ValidateName checks if a section or key name is acceptable.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	// Names end up in log lines and text dumps.
	if strings.ContainsAny(name, "\n\r") {
		return ErrInvalidName
	}
	return nil
}

func validateSection(section string) error {
	if err := ValidateName(section); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}
	return nil
}

func validateKey(key string) error {
	if err := ValidateName(key); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return nil
}
