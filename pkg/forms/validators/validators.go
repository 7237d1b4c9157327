// Package validators provides stock synchronous validators for form
// controls, plus an adapter for go-playground/validator tag rules.
//
// Every validator reports a stable error code ("required", "minlength",
// ...) so UI bindings can map codes to messages. Except for [Required],
// validators pass empty values through: absence is [Required]'s concern.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-drift/forms/pkg/forms"
)

// Required fails with code "required" when the control's value is nil, an
// empty string, or an empty collection.
func Required() forms.Validator {
	return func(c forms.Control) forms.Errors {
		if isEmptyValue(c.Value()) {
			return forms.Errors{"required": true}
		}
		return nil
	}
}

// MinLength fails with code "minlength" when the value's length is below n.
// Applies to strings and to slice, array, and map values; empty values pass.
func MinLength(n int) forms.Validator {
	return func(c forms.Control) forms.Errors {
		v := c.Value()
		if isEmptyValue(v) {
			return nil
		}
		length, ok := lengthOf(v)
		if !ok || length >= n {
			return nil
		}
		return forms.Errors{"minlength": map[string]any{
			"requiredLength": n,
			"actualLength":   length,
		}}
	}
}

// MaxLength fails with code "maxlength" when the value's length exceeds n.
func MaxLength(n int) forms.Validator {
	return func(c forms.Control) forms.Errors {
		length, ok := lengthOf(c.Value())
		if !ok || length <= n {
			return nil
		}
		return forms.Errors{"maxlength": map[string]any{
			"requiredLength": n,
			"actualLength":   length,
		}}
	}
}

// Min fails with code "min" when the value is numeric and below min.
func Min(min float64) forms.Validator {
	return func(c forms.Control) forms.Errors {
		actual, ok := numberOf(c.Value())
		if !ok || actual >= min {
			return nil
		}
		return forms.Errors{"min": map[string]any{"min": min, "actual": actual}}
	}
}

// Max fails with code "max" when the value is numeric and above max.
func Max(max float64) forms.Validator {
	return func(c forms.Control) forms.Errors {
		actual, ok := numberOf(c.Value())
		if !ok || actual <= max {
			return nil
		}
		return forms.Errors{"max": map[string]any{"max": max, "actual": actual}}
	}
}

// Pattern fails with code "pattern" when a string value does not match
// pattern in full. The pattern is anchored unless it already is; an invalid
// pattern panics, like regexp.MustCompile.
func Pattern(pattern string) forms.Validator {
	anchored := pattern
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") {
		anchored += "$"
	}
	re := regexp.MustCompile(anchored)
	return func(c forms.Control) forms.Errors {
		v := c.Value()
		if isEmptyValue(v) {
			return nil
		}
		s, ok := v.(string)
		if !ok || re.MatchString(s) {
			return nil
		}
		return forms.Errors{"pattern": map[string]any{
			"requiredPattern": anchored,
			"actualValue":     s,
		}}
	}
}

// Compose folds several validators into one, merging their results the way
// a control merges its validator list.
func Compose(vs ...forms.Validator) forms.Validator {
	return func(c forms.Control) forms.Errors {
		var merged forms.Errors
		for _, v := range vs {
			for code, payload := range v(c) {
				if merged == nil {
					merged = forms.Errors{}
				}
				merged[code] = payload
			}
		}
		return merged
	}
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

func lengthOf(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func numberOf(v any) (float64, bool) {
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// argError reports a named validator whose argument could not be parsed.
func argError(name, arg string) error {
	return fmt.Errorf("validator %q: invalid argument %q", name, arg)
}
