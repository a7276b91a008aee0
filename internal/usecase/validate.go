package usecase

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks shape and the RFC 5321 length limits.
func ValidateEmail(email string) error {
	if email == "" || len(email) > 320 {
		return errors.New("invalid email address")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("invalid email address")
	}
	local := email[:strings.LastIndex(email, "@")]
	if len(local) > 64 {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidatePassword enforces length and a three-of-four complexity rule
// (upper, lower, digit, symbol).
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return errors.New("password must be at most 128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*()_+-=[]{}|;:,.<>?", r):
			hasSpecial = true
		}
	}
	kinds := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			kinds++
		}
	}
	if kinds < 3 {
		return errors.New("password needs at least three of: upper case, lower case, digits, symbols")
	}
	return nil
}

// ValidateName rejects empty, overlong and markup-bearing display names.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > 100 {
		return errors.New("name must be at most 100 characters")
	}
	if strings.ContainsAny(name, "<>") || strings.Contains(strings.ToLower(name), "script") {
		return errors.New("name contains invalid characters")
	}
	return nil
}
