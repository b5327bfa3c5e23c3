package config

import "github.com/go-playground/validator/v10"

var v = validator.New(validator.WithRequiredStructEnabled())

// validateStruct returns the validation errors of s, or nil.
func validateStruct(s any) error {
	return v.Struct(s)
}
