package handler

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("bigint", validateBigInt)
	_ = v.RegisterValidation("hexdata", validateHexData)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a field → message map
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "eth_addr":
			errs[field] = "Must be a 0x-prefixed 20 byte hex address"
		case "bigint":
			errs[field] = "Must be a decimal integer"
		case "hexdata":
			errs[field] = "Must be 0x-prefixed hex"
		case "min":
			errs[field] = fmt.Sprintf("Must contain at least %s item(s)", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must contain at most %s item(s)", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// validateBigInt accepts signed decimal integers of any size. Range checks are
// left to the pool so negative amounts fail with the pool's own errors.
func validateBigInt(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, ok := new(big.Int).SetString(s, 10)
	return ok
}

func validateHexData(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := hexutil.Decode(s)
	return err == nil
}
