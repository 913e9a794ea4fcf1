// Package formrules holds the field rules shared by the signup, reset and
// account forms.
package formrules

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const MinPasswordLength = 8

const (
	PasswordTooShortMessage = "Password must be at least 8 characters"
	PasswordMismatchMessage = "Passwords do not match"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Egyptian mobile numbers.
	egyptMobilePattern = regexp.MustCompile(`^01[0125][0-9]{8}$`)
)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func EgyptMobile(phone string) bool {
	return egyptMobilePattern.MatchString(phone)
}

// PasswordTooShort counts characters, not bytes.
func PasswordTooShort(password string) bool {
	return utf8.RuneCountInString(password) < MinPasswordLength
}

// PasswordProblem returns the first failing rule for a password and its
// confirmation, or "" when both pass.
func PasswordProblem(password, confirm string) string {
	if PasswordTooShort(password) {
		return PasswordTooShortMessage
	}
	if password != confirm {
		return PasswordMismatchMessage
	}
	return ""
}

// NormalizePhone keeps a trimmed Egyptian mobile number and drops anything else.
func NormalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if EgyptMobile(trimmed) {
		return trimmed
	}
	return ""
}
