// ABOUTME: Request body decoding and struct validation shared by every input type
// ABOUTME: Wraps go-playground/validator and maps field errors to readable messages

package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// ErrMalformed is returned when the body is not a JSON object of the expected shape.
var ErrMalformed = errors.New("malformed JSON body")

// ValidationError lists the fields that failed validation, keyed by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// IsInvalid reports whether err came from Decode or validation rather than
// from something the caller did not cause.
func IsInvalid(err error) bool {
	var ve *ValidationError
	return errors.Is(err, ErrMalformed) || errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizer is implemented by inputs that trim and default themselves
// before validation.
type normalizer interface {
	normalize()
}

// finisher is implemented by inputs that derive values after validation.
type finisher interface {
	finish() error
}

// Decode reads a JSON object into dst, normalizes it and validates it.
// Unknown fields are ignored.
func Decode(r io.Reader, dst normalizer) error {
	if err := json.NewDecoder(io.LimitReader(r, MaxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Validate(dst)
}

// Validate normalizes and validates an input that was filled in directly,
// for example from command-line flags.
func Validate(dst normalizer) error {
	dst.normalize()
	if err := check(dst, overridesFor(dst)); err != nil {
		return err
	}
	if f, ok := dst.(finisher); ok {
		return f.finish()
	}
	return nil
}

// overridesFor returns the custom field messages an input declares, if any.
func overridesFor(v any) map[string]string {
	if m, ok := v.(interface{ messages() map[string]string }); ok {
		return m.messages()
	}
	return nil
}

// check runs struct validation. overrides maps "field.tag" to a custom message.
func check(v any, overrides map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		name := fe.Field()
		if _, seen := out.Fields[name]; seen {
			continue
		}
		if msg, ok := overrides[name+"."+fe.Tag()]; ok {
			out.Fields[name] = msg
			continue
		}
		out.Fields[name] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Enter a valid email"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	default:
		return "Invalid value"
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// trimList trims every item and turns nil into an empty list. Blank items
// are kept so validation can reject them.
func trimList(list *[]string) {
	if *list == nil {
		*list = []string{}
		return
	}
	for i := range *list {
		(*list)[i] = strings.TrimSpace((*list)[i])
	}
}
