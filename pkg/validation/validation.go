// Package validation checks names that reach the simulation from config
// files and save records.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxShipNameLen is the longest ship name in bytes.
const MaxShipNameLen = 32

// ErrInvalidName is wrapped by every name validation failure.
var ErrInvalidName = errors.New("invalid name")

// Letters, digits, spaces and a little punctuation.
var validNameChars = regexp.MustCompile(`^[\p{L}\p{N} \-_.'()]+$`)

// ValidateShipName trims a ship name and rejects it if it is empty, too
// long, not UTF-8 or contains characters outside the allowed set.
func ValidateShipName(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: ship name is not valid UTF-8", ErrInvalidName)
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: ship name is empty", ErrInvalidName)
	}
	if len(trimmed) > MaxShipNameLen {
		return "", fmt.Errorf("%w: ship name too long: %d bytes (max %d)", ErrInvalidName, len(trimmed), MaxShipNameLen)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: ship name contains control characters", ErrInvalidName)
		}
	}
	if !validNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("%w: ship name %q contains invalid characters", ErrInvalidName, trimmed)
	}
	return trimmed, nil
}

// ShipNameOr returns the validated name, or fallback when name is invalid.
func ShipNameOr(name, fallback string) string {
	if v, err := ValidateShipName(name); err == nil {
		return v
	}
	return fallback
}
