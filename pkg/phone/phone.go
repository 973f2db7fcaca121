// Package phone parses reader phone numbers and normalizes them to E.164.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/pkg/errors"
)

// ErrInvalid is returned for input that does not parse into a dialable number.
var ErrInvalid = errors.New("invalid phone number")

// Normalize parses raw and returns it formatted as E.164. Numbers without a
// leading "+" are read in defaultRegion; with an empty region they are
// rejected.
func Normalize(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalid
	}
	if !strings.HasPrefix(raw, "+") && defaultRegion == "" {
		return "", ErrInvalid
	}

	num, err := phonenumbers.Parse(raw, strings.ToUpper(defaultRegion))
	if err != nil {
		return "", ErrInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalid
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// IsValid reports whether raw normalizes cleanly.
func IsValid(raw, defaultRegion string) bool {
	_, err := Normalize(raw, defaultRegion)
	return err == nil
}
