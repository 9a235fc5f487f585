package lib

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator : wires go-playground/validator into echo's c.Validate.
type CustomValidator struct {
	Validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.Validator.Struct(i)
}
