package core

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// Acceptance policy for signup fields. Bounds are inclusive.
const (
	NameMinLength     = 2
	NameMaxLength     = 32
	PasswordMinLength = 6
	PasswordMaxLength = 52
)

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index see one canonical form. Every handler that touches an email runs it
// through here before the store does.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks if an email address is valid according to RFC 5322.
func ValidateEmail(email string) error {
	_, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// ValidateName checks a first or last name against the length policy.
func ValidateName(name string) error {
	n := len([]rune(name))
	if n < NameMinLength || n > NameMaxLength {
		return fmt.Errorf("name must be between %d and %d characters", NameMinLength, NameMaxLength)
	}
	return nil
}

// ValidatePassword checks the server-side acceptance policy. Strength
// scoring is a presentation concern and stays out of here.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return fmt.Errorf("password must be between %d and %d characters", PasswordMinLength, PasswordMaxLength)
	}
	return nil
}

// ValidatePhone accepts international notation: optional leading +, then 7
// to 15 digits, ignoring spaces and dashes.
func ValidatePhone(phone string) error {
	s := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	s = strings.TrimPrefix(s, "+")
	if len(s) < 7 || len(s) > 15 {
		return fmt.Errorf("phone number must have between 7 and 15 digits")
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("phone number contains invalid character %q", r)
		}
	}
	return nil
}
