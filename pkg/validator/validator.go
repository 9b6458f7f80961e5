// Package validator registers the domain tags used in request bindings and
// renders validation failures as short messages.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

func stringField(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	}
}

var tags = map[string]validator.Func{
	"intensity":   stringField(func(s string) bool { return model.Intensity(s).Valid() }),
	"orderstatus": stringField(func(s string) bool { return model.OrderStatus(s).Valid() }),
	"listname":    stringField(func(s string) bool { return model.ListName(s).Valid() }),
	"bannerslot":  stringField(func(s string) bool { return model.BannerSlot(s).Valid() }),
	"notblank":    stringField(func(s string) bool { return strings.TrimSpace(s) != "" }),
}

var messages = map[string]string{
	"required":    "is required",
	"notblank":    "must not be blank",
	"intensity":   "must be Mild, Moderate or Severe",
	"orderstatus": "must be pending, confirmed, processing, shipped or cancelled",
	"listname":    "must be symptoms, histories or tests",
	"bannerslot":  "must be homeHeader, homeFooter, prescriptionHeader or prescriptionFooter",
	"min":         "is too short",
	"max":         "is too long",
}

// Register adds the domain tags to v and reports fields by their JSON name.
func Register(v *validator.Validate) error {
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return nil
}

// New returns a validator with the domain tags registered.
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Describe turns a binding error into a single human readable message.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("failed %s validation", fe.Tag())
		}
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field(), msg))
	}
	return strings.Join(parts, "; ")
}
