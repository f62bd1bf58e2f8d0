package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	s "github.com/martirspe/complaints-book-pro/pkg/string"
)

// claimCodePattern matches public tracking codes such as REC-2026-000001.
var claimCodePattern = regexp.MustCompile(`^(REC|QUE)-\d{4}-\d{6}$`)

// tenantSlugPattern matches tenant slugs used in backend paths.
var tenantSlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("claimcode", func(fl validator.FieldLevel) bool {
		return claimCodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("tenant", func(fl validator.FieldLevel) bool {
		return tenantSlugPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate validates a struct using the default validator and returns a domain error
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// IsClaimCode reports whether code has the public tracking code shape.
func IsClaimCode(code string) bool {
	return claimCodePattern.MatchString(code)
}

// IsTenantSlug reports whether slug is usable in tenant-scoped backend paths.
func IsTenantSlug(slug string) bool {
	return tenantSlugPattern.MatchString(slug)
}

// IsEmail applies the validator's email rule to a single value.
func IsEmail(value string) bool {
	return defaultValidator.Var(value, "email") == nil
}

// ErrorMessage converts a validator error into a human-readable message
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	fieldName := fe.Field()
	if fieldName == "" {
		fieldName = fe.StructField()
	}
	field := s.ToSnakeCase(fieldName)

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "url":
		return fmt.Sprintf("%s must be a valid url", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "claimcode":
		return fmt.Sprintf("%s must look like REC-YYYY-###### or QUE-YYYY-######", field)
	case "tenant":
		return fmt.Sprintf("%s must be a lowercase slug", field)
	default:
		if field == "" {
			return "invalid request body"
		}
		return fmt.Sprintf("%s is invalid", field)
	}
}
