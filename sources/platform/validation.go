package platform

import (
	"fmt"
	"regexp"
)

var (
	CurrencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	VideoIdPattern      = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

func ValidateCurrencyCode(code string) error {
	if !CurrencyCodePattern.MatchString(code) {
		return fmt.Errorf("invalid currency code %q: expected three uppercase letters", code)
	}
	return nil
}

func ValidateNotEmpty(value string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}
