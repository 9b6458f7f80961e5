package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domainvalidator "github.com/jwalitptl/mediconsult-api/pkg/validator"
)

// RegisterValidation installs the domain binding tags on gin's validator
func RegisterValidation() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
	}
	return domainvalidator.Register(v)
}
