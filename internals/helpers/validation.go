package helper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationFieldErrors flattens validator errors into field → messages.
// Field keys use the struct namespace without the root type ("Lines[0].Description").
func ValidationFieldErrors(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		out[key] = append(out[key], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("accepts at most %s item(s)", fe.Param())
		}
		return "must be at most " + fe.Param() + " characters"
	case "datetime":
		return "must match " + fe.Param()
	}
	return "failed " + fe.Tag()
}

func lenOf(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	}
	return 0
}
