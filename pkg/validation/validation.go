package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lexfirm/casedesk-backend/pkg/models"
)

var v *validator.Validate

func init() {
	v = validator.New()

	// Use JSON tag as the field name in error output
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Custom: user role. Empty strings are rejected here: omitempty skips
	// zero-value strings, but a pointer to "" still reaches the tag.
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		switch models.Role(fl.Field().String()) {
		case models.RoleAdmin, models.RoleLawyer, models.RoleParalegal:
			return true
		}
		return false
	})

	// Custom: case type
	_ = v.RegisterValidation("casetype", func(fl validator.FieldLevel) bool {
		switch models.CaseType(fl.Field().String()) {
		case models.CaseTypeCriminal, models.CaseTypeCivil, models.CaseTypeFamily,
			models.CaseTypeCorporate, models.CaseTypeLabour, models.CaseTypeTax:
			return true
		}
		return false
	})

	// Custom: case status ("In Progress" contains a space, so oneof is awkward)
	_ = v.RegisterValidation("casestatus", func(fl validator.FieldLevel) bool {
		switch models.CaseStatus(fl.Field().String()) {
		case models.CaseFiled, models.CaseInProgress, models.CasePending,
			models.CaseWon, models.CaseLost, models.CaseSettled:
			return true
		}
		return false
	})

	// Custom: priority
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		switch models.Priority(fl.Field().String()) {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
			return true
		}
		return false
	})
}

// Validate returns map[field][]messages (Laravel-like)
func Validate(s any) (map[string][]string, error) {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		out := make(map[string][]string)
		for _, e := range ve {
			field := e.Field() // already mapped from json tag

			switch e.Tag() {
			case "required":
				out[field] = append(out[field], "This field is required")

			case "email":
				out[field] = append(out[field], "Invalid email format")

			case "min":
				if e.Kind() == reflect.String {
					out[field] = append(out[field], fmt.Sprintf("Must be at least %s characters", e.Param()))
				} else {
					out[field] = append(out[field], fmt.Sprintf("Must be at least %s", e.Param()))
				}

			case "max":
				if e.Kind() == reflect.String {
					out[field] = append(out[field], fmt.Sprintf("Must be at most %s characters", e.Param()))
				} else {
					out[field] = append(out[field], fmt.Sprintf("Must be at most %s", e.Param()))
				}

			case "oneof":
				out[field] = append(out[field], "Value is not allowed")

			case "uuid", "uuid4":
				out[field] = append(out[field], "Invalid UUID format")

			case "role":
				out[field] = append(out[field], "Role must be admin, lawyer, or paralegal")

			case "casetype":
				out[field] = append(out[field], "Invalid case type")

			case "casestatus":
				out[field] = append(out[field], "Invalid case status")

			case "priority":
				out[field] = append(out[field], "Priority must be High, Medium, or Low")

			default:
				// Fallback to original error text if we missed a tag
				out[field] = append(out[field], e.Error())
			}
		}
		return out, nil
	}
	return nil, nil
}
