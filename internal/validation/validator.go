package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	validate     = newValidator()
	phonePattern = regexp.MustCompile(`^\+?([0-9]{10,15})$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		cleaned := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
		return phonePattern.MatchString(cleaned)
	})
	return v
}

// Struct validates data and returns field -> message, or nil when valid.
func Struct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range validationErrors {
			errs[fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:]] = message(fe)
		}
	}
	return errs
}

// Check wraps Struct into a domain.ValidationError with the given user-facing message.
func Check(data interface{}, msg string) error {
	fields := Struct(data)
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Message: msg, Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please enter a valid email"
	case "phone":
		return "Please enter a valid phone number"
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Invalid %s field", fe.Field())
	}
}

// Format joins field errors into one stable line.
func Format(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return strings.Join(msgs, "; ")
}
