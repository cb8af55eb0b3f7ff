package services

import (
	"strings"
	"unicode"

	"opsboard/model"
)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword enforces the account password policy: at least 8
// characters with an upper, a lower, a digit, and one symbol from the fixed
// set. Checks run in order and the first failure is reported.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return &model.ValidationError{Message: "password must be at least 8 characters long"}
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return &model.ValidationError{Message: "password must contain at least one uppercase letter"}
	case !hasLower:
		return &model.ValidationError{Message: "password must contain at least one lowercase letter"}
	case !hasDigit:
		return &model.ValidationError{Message: "password must contain at least one number"}
	case !hasSymbol:
		return &model.ValidationError{Message: "password must contain at least one special character"}
	}
	return nil
}
