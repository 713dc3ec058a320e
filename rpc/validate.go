package rpc

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

var phonePattern = regexp.MustCompile(`^01[016789]-?\d{3,4}-?\d{4}$`)

// RegisterValidations adds the custom tags used by request types:
// notblank, profession and phone.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("profession", func(fl validator.FieldLevel) bool {
		return entity.Profession(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// NewValidator returns a validator reading `binding` tags, like gin, and
// reporting fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
