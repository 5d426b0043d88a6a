package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/cardiq/internal/common"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// ValidateName accepts 2 to 50 characters made of letters, spaces, hyphens
// and apostrophes, with at least one letter.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return fmt.Errorf("name must be at least 2 characters: %w", common.ErrInvalidInput)
	}
	if n > 50 {
		return fmt.Errorf("name must be at most 50 characters: %w", common.ErrInvalidInput)
	}

	letters := 0
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ' || r == '-' || r == '\'':
		default:
			return fmt.Errorf("name can only contain letters, spaces, hyphens and apostrophes: %w", common.ErrInvalidInput)
		}
	}
	if letters == 0 {
		return fmt.Errorf("name must contain at least one letter: %w", common.ErrInvalidInput)
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail is a syntactic check only.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(NormalizeEmail(email)) {
		return fmt.Errorf("please enter a valid email address: %w", common.ErrInvalidInput)
	}
	return nil
}

// ValidatePassword requires at least 8 characters, one special character and
// no whitespace. All failed rules are reported together.
func ValidatePassword(password string) error {
	var problems []string
	if utf8.RuneCountInString(password) < 8 {
		problems = append(problems, "at least 8 characters")
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		problems = append(problems, "one special character")
	}
	if strings.IndexFunc(password, unicode.IsSpace) >= 0 {
		problems = append(problems, "no spaces allowed")
	}
	if len(problems) > 0 {
		return fmt.Errorf("password needs %s: %w", strings.Join(problems, ", "), common.ErrInvalidInput)
	}
	return nil
}
