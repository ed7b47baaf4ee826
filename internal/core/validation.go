package core

// validation.go gates every student write.
//
// Checks run in a fixed order and the first failure is returned as a
// *ValidationError naming the rule. Field-level rules are expressed as
// validator tags; the uniqueness check is the only rule that consults the
// store, through an injectable ExistsFunc.

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	strictEmailRegex = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRegex       = regexp.MustCompile(`^\d{10,15}$`)
	digitRegex       = regexp.MustCompile(`\d`)
)

// ExistsFunc reports whether a student id is already stored.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// fieldRule is a single ordered check expressed as a validator tag.
type fieldRule struct {
	field string
	tag   string
	msg   string
	value func(Student) any
}

// idRules run before the uniqueness check.
var idRules = []fieldRule{
	{"studentId", "required", "Student ID is required.", studentID},
	{"studentId", "min=4,max=20", "Student ID must be 4 to 20 characters.", studentID},
	{"studentId", "alphanum", "Student ID must contain letters and digits only.", studentID},
}

// recordRules run after the uniqueness check.
var recordRules = []fieldRule{
	{"fullName", "min=2,max=60", "Full name must be 2 to 60 characters.", fullName},
	{"fullName", "nodigits", "Full name must not contain digits.", fullName},
	{"programme", "required", "Programme is required.", programme},
	{"level", "oneof=100 200 300 400 500 600 700", "Level must be one of: 100, 200, 300, 400, 500, 600, 700.", level},
	{"gpa", "gte=0,lte=5", "GPA must be between 0.0 and 5.0.", gpa},
	{"email", "contains=@,contains=.", "Email must contain @ and a dot.", email},
	{"email", "strictemail", "Please enter a valid email address (e.g. user@gmail.com).", email},
	{"phone", "phonedigits", "Phone number must be 10 to 15 digits (digits only).", phone},
	{"enrolledDate", "required", "Date added is required.", enrolledDate},
	{"enrolledDate", "datetime=" + DateLayout, "Date added must be a valid date (YYYY-MM-DD).", enrolledDate},
	{"status", "oneof=" + StatusActive + " " + StatusInactive, "Status must be Active or Inactive.", status},
}

func studentID(s Student) any    { return strings.TrimSpace(s.StudentID) }
func fullName(s Student) any     { return strings.TrimSpace(s.FullName) }
func programme(s Student) any    { return strings.TrimSpace(s.Programme) }
func level(s Student) any        { return s.Level }
func gpa(s Student) any          { return s.GPA }
func email(s Student) any        { return strings.TrimSpace(s.Email) }
func phone(s Student) any        { return strings.TrimSpace(s.Phone) }
func enrolledDate(s Student) any { return strings.TrimSpace(s.EnrolledDate) }
func status(s Student) any       { return strings.TrimSpace(s.Status) }

// Validator checks candidate students against the business rules.
type Validator struct {
	v      *validator.Validate
	exists ExistsFunc
}

// NewValidator creates a Validator. exists may be nil, in which case the
// uniqueness rule is skipped even for creates.
func NewValidator(exists ExistsFunc) *Validator {
	v := validator.New()
	for tag, fn := range customRules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("core: register validation %q: %v", tag, err))
		}
	}
	return &Validator{v: v, exists: exists}
}

// customRules are the validator tags the field rules rely on beyond the
// library's built-ins.
var customRules = map[string]validator.Func{
	"nodigits": func(fl validator.FieldLevel) bool {
		return !digitRegex.MatchString(fl.Field().String())
	},
	"strictemail": func(fl validator.FieldLevel) bool {
		return strictEmailRegex.MatchString(fl.Field().String())
	},
	"phonedigits": func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	},
}

// Validate returns the first rule the candidate violates, or nil.
//
// When isCreate is true the id must not already exist in the store. A failure
// of the existence lookup itself is returned as a *StorageError.
func (v *Validator) Validate(ctx context.Context, s Student, isCreate bool) error {
	if err := v.check(s, idRules); err != nil {
		return err
	}

	if isCreate && v.exists != nil {
		id := strings.TrimSpace(s.StudentID)
		found, err := v.exists(ctx, id)
		if err != nil {
			return NewStorageError("exists_by_id", err)
		}
		if found {
			return newValidationError("studentId", "Student ID already exists.")
		}
	}

	return v.check(s, recordRules)
}

// ValidateFields runs every rule except uniqueness.
func (v *Validator) ValidateFields(s Student) error {
	if err := v.check(s, idRules); err != nil {
		return err
	}
	return v.check(s, recordRules)
}

func (v *Validator) check(s Student, rules []fieldRule) error {
	for _, r := range rules {
		if err := v.v.Var(r.value(s), r.tag); err != nil {
			return newValidationError(r.field, r.msg)
		}
	}
	return nil
}
