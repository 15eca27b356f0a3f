package wizard

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sadhana-school/portal/internal/pkg/validation"
)

var (
	classNumTag = "classnum"
	minClass    = 1
	maxClass    = 10

	sectionTag      = "section"
	allowedSections = []string{"A", "B", "C"}

	anyGuardianTag = "anyguardian"
)

// NewValidator returns a validator with the registration tags installed and
// json field names in its errors.
func NewValidator() *validator.Validate {
	v := validation.New()
	_ = v.RegisterValidation(classNumTag, classNumValidation)
	_ = v.RegisterValidation(sectionTag, sectionValidation)
	_ = v.RegisterValidation(anyGuardianTag, anyGuardianValidation)
	return v
}

// classNumValidation accepts whole-number classes 1 through 10.
func classNumValidation(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n >= minClass && n <= maxClass
}

func sectionValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, allowed := range allowedSections {
		if s == allowed {
			return true
		}
	}
	return false
}

// anyGuardianValidation passes when the enclosing struct names at least one
// of father, mother or guardian.
func anyGuardianValidation(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	for _, name := range []string{"FatherName", "MotherName", "GuardianName"} {
		f := parent.FieldByName(name)
		if f.IsValid() && strings.TrimSpace(f.String()) != "" {
			return true
		}
	}
	return false
}

// rule maps validator failures to the single message shown for a step.
// Empty fields or tags match anything.
type rule struct {
	message string
	fields  []string
	tags    []string
}

func (r rule) matches(fe validator.FieldError) bool {
	return matchAny(r.fields, fe.StructField()) && matchAny(r.tags, fe.Tag())
}

func matchAny(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

var stepRules = map[Step][]rule{
	LoginDetails: {
		{message: "Please fill in Name and Email", fields: []string{"Name", "Email"}},
		{message: "Passwords do not match", tags: []string{"eqfield"}},
		{message: "Password must be at least 6 characters", fields: []string{"Password"}},
	},
	PersonalInfo: {
		{message: "Please fill in all mandatory fields"},
	},
	AcademicInfo: {
		{message: "Please fill in all mandatory academic fields", tags: []string{"required"}},
		{message: "Class must be between 1 and 10", fields: []string{"ClassName"}},
		{message: "Section must be A, B, or C", fields: []string{"Section"}},
	},
	GuardianDetails: {
		{message: "Please provide at least one parent/guardian name", fields: []string{"FatherName"}},
		{message: "Parent phone and email are required"},
	},
}

// check validates one step's fields and converts failures to a StepError.
func check(v *validator.Validate, step Step, fields any) error {
	err := v.Struct(fields)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fieldErrs, _ := validation.Fields(ve, tagMessage)
	stepErr := &StepError{Step: step, Fields: fieldErrs}
	for _, r := range stepRules[step] {
		for _, fe := range ve {
			if r.matches(fe) {
				stepErr.Message = r.message
				return stepErr
			}
		}
	}
	stepErr.Message = stepErr.Fields[0].Message
	return stepErr
}

// tagMessage phrases the registration tags.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case classNumTag:
		return fe.Field() + " must be a class between 1 and 10"
	case sectionTag:
		return fe.Field() + " must be one of " + strings.Join(allowedSections, ", ")
	case anyGuardianTag:
		return "at least one parent or guardian name is required"
	}
	return ""
}
