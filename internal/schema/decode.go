package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
)

// FieldError describes one rejected field of a payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of Decode: either a validated Value, or the list of
// field errors that rejected the payload.
type Result[T any] struct {
	Value  T
	Errors []FieldError
}

// OK reports whether the payload passed validation.
func (r Result[T]) OK() bool { return len(r.Errors) == 0 }

// DriftError is returned by FromDocument when a stored record no longer
// satisfies the current schema.
type DriftError struct {
	Entity string
	Errors []FieldError
}

func (e *DriftError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("stored %s record does not match schema: %s", e.Entity, strings.Join(parts, "; "))
}

type defaulter interface {
	SetDefaults()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("metadata", validMetadata); err != nil {
		panic(err)
	}
	return v
}

// Decode parses a JSON payload into T and validates it.
func Decode[T any](raw []byte) Result[T] {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return Result[T]{Errors: []FieldError{jsonFieldError(err)}}
	}
	if errs := Validate(&v); len(errs) > 0 {
		return Result[T]{Value: v, Errors: errs}
	}
	return Result[T]{Value: v}
}

// Validate runs the schema rules on an already populated value.
func Validate(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe.Namespace()), Message: message(fe)})
	}
	return out
}

// FromDocument rebuilds an entity from a stored record and validates it
// again. The record must already be stripped of the store identifier.
func FromDocument[T any](doc bson.M) (T, error) {
	var v T
	if d, ok := any(&v).(defaulter); ok {
		d.SetDefaults()
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return v, fmt.Errorf("encode stored record: %w", err)
	}
	if err := bson.Unmarshal(raw, &v); err != nil {
		return v, &DriftError{Entity: entityName(v), Errors: []FieldError{{Field: "record", Message: err.Error()}}}
	}
	if errs := Validate(&v); len(errs) > 0 {
		return v, &DriftError{Entity: entityName(v), Errors: errs}
	}
	return v, nil
}

func entityName(v any) string {
	if e, ok := v.(Entity); ok {
		return e.Kind().Collection()
	}
	return reflect.TypeOf(v).Name()
}

// fieldPath turns "MenuImport.items[0].price" into "items[0].price". Segments
// named after Go types come from embedded structs and are dropped as well.
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		if p == "" || unicode.IsUpper(rune(p[0])) {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "metadata":
		return fmt.Sprintf("must be at most %d levels deep, %d keys and %d bytes", MaxMetadataDepth, MaxMetadataKeys, MaxMetadataBytes)
	}
	return fe.Error()
}

func jsonFieldError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldError{Field: typeErr.Field, Message: "expected " + typeErr.Type.String()}
	}
	return FieldError{Field: "body", Message: err.Error()}
}
