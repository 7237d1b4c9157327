package validators

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/go-drift/forms/pkg/forms"
)

// validate is the shared tag-rule engine. go-playground/validator instances
// cache parsed tags, so one engine serves every Rule validator.
var validate = validator.New()

// Rule adapts a go-playground/validator tag expression to a control
// validator, giving access to its full rule catalogue ("email", "url",
// "uuid", "min=3", "oneof=red green", ...).
//
// The error code is the first failing rule's tag name. Empty values pass
// unless the expression itself contains "required".
func Rule(tag string) forms.Validator {
	return func(c forms.Control) forms.Errors {
		v := c.Value()
		if isEmptyValue(v) && !strings.Contains(tag, "required") {
			return nil
		}
		err := validate.Var(v, tag)
		if err == nil {
			return nil
		}
		code := tag
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			code = verrs[0].Tag()
		}
		return forms.Errors{code: map[string]any{
			"rule":        tag,
			"actualValue": v,
		}}
	}
}

// Named resolves a validator by its schema name: a stock validator name,
// optionally with an "=" argument ("required", "minlength=2", "max=10"),
// or any go-playground/validator tag expression ("email", "uuid4",
// "oneof=a b").
func Named(name string) (forms.Validator, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("validator name is empty")
	}
	base, arg, hasArg := strings.Cut(name, "=")
	switch base {
	case "required":
		return Required(), nil
	case "minlength", "maxlength":
		n, err := strconv.Atoi(arg)
		if !hasArg || err != nil {
			return nil, argError(base, arg)
		}
		if base == "minlength" {
			return MinLength(n), nil
		}
		return MaxLength(n), nil
	case "pattern":
		if !hasArg || arg == "" {
			return nil, argError(base, arg)
		}
		re, err := compilePattern(arg)
		if err != nil {
			return nil, fmt.Errorf("validator %q: %w", base, err)
		}
		return re, nil
	}
	if err := probeTag(name); err != nil {
		return nil, err
	}
	return Rule(name), nil
}

// compilePattern builds a Pattern validator without MustCompile's panic.
func compilePattern(pattern string) (v forms.Validator, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid pattern %q: %v", pattern, r)
		}
	}()
	return Pattern(pattern), nil
}

// probeTag checks a tag expression against the rule engine, converting its
// panic on unknown or malformed tags into an error.
func probeTag(tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unknown validator %q: %v", tag, r)
		}
	}()
	_ = validate.Var("", tag)
	return nil
}
