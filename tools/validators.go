package tools

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CheckPassword fails when password is shorter than minLen characters.
func CheckPassword(password string, minLen int) error {
	if utf8.RuneCountInString(password) < minLen {
		return fmt.Errorf("ensure this field has at least %d characters", minLen)
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		register(validate)
	})
	return validate
}

// RegisterBindingValidations adds the custom tags to gin's binding
// validator so `binding:"slug"` works in request structs.
func RegisterBindingValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	})
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// ValidateStruct validates s and returns the failures keyed by json field
// name, or nil.
func ValidateStruct(s interface{}) map[string][]string {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return FieldErrors(err)
}

// FieldErrors converts validator errors (from ValidateStruct or gin
// binding) to messages keyed by json field name. Other errors land under
// "non_field_errors".
func FieldErrors(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"non_field_errors": {err.Error()}}
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "color":
		return "enter a valid hex color such as #2c3cba"
	case "slug":
		return "enter a valid slug of letters, numbers, underscores or hyphens"
	case "username":
		return "enter a valid username of letters, digits and @/./+/-/_ only"
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
