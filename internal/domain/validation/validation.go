// Package validation checks candidate and interview payloads against their struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/talentflow/internal/domain/model"
)

// ErrInvalid is wrapped by every *Error.
var ErrInvalid = errors.New("validation failed")

// Error lists the offending fields by their JSON name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Field builds a single-field validation error.
func Field(name, msg string) *Error {
	return &Error{Fields: map[string]string{name: msg}}
}

// Validator wraps a configured validator.Validate. Safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the recruiting enum tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "candidate_status", func(s string) bool { return model.CandidateStatus(s).IsValid() })
	mustRegister(v, "candidate_source", func(s string) bool { return model.Source(s).IsValid() })
	mustRegister(v, "interview_type", func(s string) bool { return model.InterviewType(s).IsValid() })
	mustRegister(v, "interview_status", func(s string) bool { return model.InterviewStatus(s).IsValid() })
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, ok func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		f := fl.Field()
		for f.Kind() == reflect.Ptr {
			if f.IsNil() {
				return true
			}
			f = f.Elem()
		}
		return ok(f.String())
	})
	if err != nil {
		panic(err)
	}
}

// Struct validates s and returns an *Error describing every failing field.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

// Fields extracts the field messages from err, or nil when err is not a validation error.
func Fields(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return "must not be empty"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "candidate_status":
		return "must be one of " + joinStatuses()
	case "candidate_source":
		return "must be one of LinkedIn, Indeed, Referral, Website"
	case "interview_type":
		return "must be one of Phone, Video, In-Person, Technical"
	case "interview_status":
		return "must be one of Scheduled, Completed, Cancelled"
	}
	return "is invalid (" + fe.Tag() + ")"
}

func joinStatuses() string {
	all := append(model.StatusesFor(model.PhaseScreening), model.StatusesFor(model.PhaseInterviewing)...)
	parts := make([]string, len(all))
	for i, s := range all {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
