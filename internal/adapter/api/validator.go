package api

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern     = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
	currencyCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the echo validator with the wilaya, username and
// currency_code tags registered.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("wilaya", validateWilaya)
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		return currencyCodePattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// validateWilaya accepts the two-digit codes 01 to 58.
func validateWilaya(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 2 {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 58
}
