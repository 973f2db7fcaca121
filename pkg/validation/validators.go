package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/libraryhub/libraryhub/pkg/phone"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[0-9]|1[0-2])-(0[0-9]|1[0-9]|2[0-9]|3[0-1])$`)
)

// dateValidator ensures the value matches the format YYYY-MM-DD or the empty
// string. The empty string is allowed so that optional dates can be cleared;
// add `ne=` to the tag when the value is required.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if !dateRE.MatchString(value) {
		return false
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// notFutureYearValidator accepts years up to and including the current year.
// The bound moves with the clock, so it can't live in a static tag param.
func notFutureYearValidator(now func() time.Time) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(now().Year())
	}
}

func phoneValidator(defaultRegion string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return phone.IsValid(fl.Field().String(), defaultRegion)
	}
}
