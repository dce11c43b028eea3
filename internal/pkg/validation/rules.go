package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/advisorly/internal/pkg/auth"
)

// Custom validation tags
const (
	TagStrongPassword = "strongpassword"
	TagNotBlank       = "notblank"
)

// Register adds the application's custom tags to v and makes field errors
// report JSON names
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation(TagStrongPassword, strongPassword); err != nil {
		return fmt.Errorf("register %s: %w", TagStrongPassword, err)
	}
	if err := v.RegisterValidation(TagNotBlank, notBlank); err != nil {
		return fmt.Errorf("register %s: %w", TagNotBlank, err)
	}
	return nil
}

func strongPassword(fl validator.FieldLevel) bool {
	return auth.IsStrongPassword(fl.Field().String())
}

func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.String:
		return strings.TrimSpace(f.String()) != ""
	case reflect.Ptr:
		if f.IsNil() {
			return true
		}
		return f.Elem().Kind() != reflect.String || strings.TrimSpace(f.Elem().String()) != ""
	}
	return true
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
