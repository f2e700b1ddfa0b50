package models

import (
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidationError is a user-facing input problem. It is reported to the
// client as-is and never reaches the cart or the order lifecycle.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func MinLen(value string, n int) bool {
	return len(strings.TrimSpace(value)) >= n
}

// ValidateCard checks the shape of the demo card fields used at checkout.
func ValidateCard(c Card) error {
	number := strings.Join(strings.Fields(c.CardNumber), "")
	if len(number) < 12 {
		return &ValidationError{Field: "cardNumber", Message: "enter a valid card number"}
	}
	if !expiryPattern.MatchString(strings.TrimSpace(c.CardExpiry)) {
		return &ValidationError{Field: "cardExpiry", Message: "expiry must be MM/YY"}
	}
	if !cvvPattern.MatchString(strings.TrimSpace(c.CardCvv)) {
		return &ValidationError{Field: "cardCvv", Message: "CVV must be 3 or 4 digits"}
	}
	return nil
}
