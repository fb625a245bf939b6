package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// IsNumericString reports whether s parses entirely as a base-10 number.
func IsNumericString(s string) bool {
	return numericPattern.MatchString(s)
}

// Violation describes one problem with a request body.
type Violation struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Problem
	}
	return v.Field + ": " + v.Problem
}

// Result is the outcome of decoding a body against its schema.
type Result struct {
	Violations []Violation
}

// OK reports whether the body matched its schema.
func (r Result) OK() bool {
	return len(r.Violations) == 0
}

func (r Result) Error() string {
	parts := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		parts[i] = v.String()
	}
	return "invalid body: " + strings.Join(parts, ", ")
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	// Report violations by their JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Exact decodes body into dst, a pointer to a schema struct. Keys absent
// from the schema, values of the wrong JSON type and missing required
// fields are all violations.
func Exact(body []byte, dst any) Result {
	return decode(body, dst, true)
}

// Lenient is like Exact but ignores keys absent from the schema.
func Lenient(body []byte, dst any) Result {
	return decode(body, dst, false)
}

func decode(body []byte, dst any, strict bool) Result {
	var res Result
	reported := map[string]bool{}

	dec := json.NewDecoder(bytes.NewReader(body))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		v := decodeViolation(err)
		reported[v.Field] = true
		res.Violations = append(res.Violations, v)
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || v.Field == "" {
			return res
		}
	}

	if err := structValidator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			res.Violations = append(res.Violations, Violation{Problem: err.Error()})
			return res
		}
		for _, fe := range verrs {
			if reported[fe.Field()] {
				continue
			}
			res.Violations = append(res.Violations, Violation{Field: fe.Field(), Problem: problemFor(fe)})
		}
	}
	return res
}

func decodeViolation(err error) Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Violation{Field: typeErr.Field, Problem: fmt.Sprintf("must be %s, got %s", kindName(typeErr.Type), typeErr.Value)}
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return Violation{Field: strings.Trim(field, `"`), Problem: "is not allowed"}
	}
	return Violation{Problem: "malformed JSON: " + err.Error()}
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	default:
		return t.String()
	}
}

func problemFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

// IsEmpty reports whether body is blank or an empty JSON object.
func IsEmpty(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return false
	}
	return len(obj) == 0
}
