// Package validation holds the validator shared by the request binder and the
// services, so that rows are checked the same way no matter how they arrive.
package validation

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/pkg/errors"
)

type Options struct {
	// PhoneDefaultRegion is used for phone numbers without a leading "+".
	PhoneDefaultRegion string
	// Now defaults to time.Now.
	Now func() time.Time
}

type Validator struct {
	validate    *validator.Validate
	phoneRegion string
}

func New(opts Options) *Validator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation(date, dateValidator)
	_ = validate.RegisterValidation(notblank, validators.NotBlank)
	_ = validate.RegisterValidation(notfutureyear, notFutureYearValidator(now))
	_ = validate.RegisterValidation(phonenumber, phoneValidator(opts.PhoneDefaultRegion))

	return &Validator{validate, opts.PhoneDefaultRegion}
}

// PhoneDefaultRegion is the region phone numbers are checked against.
func (v *Validator) PhoneDefaultRegion() string {
	return v.phoneRegion
}

// Struct validates i and reports the first failing field as an
// errcodes.Error carrying that field's JSON name.
func (v *Validator) Struct(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return errors.WithStack(err)
	}

	return errcodes.FieldValidationError(errs[0].Field(), FormatFieldError(errs[0]))
}
