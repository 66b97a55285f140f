package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"erpr_backend/internals/constants"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, f+": "+strings.Join(msgs, ", "))
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct runs validator tags and translates failures to French messages.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	out := &ValidationError{Fields: map[string][]string{}}
	for _, fe := range ves {
		out.Fields[fe.Field()] = append(out.Fields[fe.Field()], fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "champ obligatoire"
	case "email":
		return "format d'email invalide"
	case "min":
		return "minimum " + fe.Param()
	case "max":
		return "maximum " + fe.Param()
	case "gte":
		return "doit être supérieur ou égal à " + fe.Param()
	case "lte":
		return "doit être inférieur ou égal à " + fe.Param()
	case "oneof":
		return "doit être l'une des valeurs: " + fe.Param()
	case "url":
		return "URL invalide"
	case "uuid", "uuid4":
		return "identifiant invalide"
	default:
		return "valeur invalide"
	}
}

// ParseAndValidate decodes the body into dst and validates it.
func ParseAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	return ValidateStruct(dst)
}
