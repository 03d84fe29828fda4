package dto

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Mirrors the domain rule so bad usernames are rejected at binding
// time with a field-level message.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)

// RegisterValidators installs the custom binding rules referenced by
// request DTO tags. Call once at startup before serving requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}
