package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	formerrors "github.com/go-drift/forms/pkg/errors"
	"github.com/go-drift/forms/pkg/forms"
	"github.com/go-drift/forms/pkg/schema"
)

const loginSchema = `
group:
  email:
    value: ""
    validators: [required, email]
  password:
    value: ""
    validators: [required, "minlength=8"]
  remember:
    value: false
`

func build(t *testing.T, src string) forms.Control {
	t.Helper()
	s, err := schema.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func TestBuild_Login(t *testing.T) {
	c := build(t, loginSchema)

	g, ok := c.(*forms.Group)
	if !ok {
		t.Fatalf("root built as %T, want *Group", c)
	}
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	if !g.Invalid() {
		t.Errorf("status = %v, want invalid (required fields are empty)", g.Status())
	}
	if !g.HasError("required", "email") {
		t.Errorf("email errors = %v, want required", g.Get("email").Errs())
	}
	if got := g.Get("remember").Value(); got != false {
		t.Errorf("remember = %v, want false", got)
	}

	if err := g.SetValue(map[string]any{
		"email":    "nancy@drew.example",
		"password": "hunter2hunter2",
		"remember": true,
	}); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if !g.Valid() {
		t.Errorf("status after fill = %v, want valid", g.Status())
	}
}

func TestBuild_Shorthands(t *testing.T) {
	c := build(t, `
group:
  name: Nancy
  tags: [a, b]
`)
	if got := c.Get("name").Value(); got != "Nancy" {
		t.Errorf("scalar shorthand: name = %v, want Nancy", got)
	}
	arr, ok := c.Get("tags").(*forms.Array)
	if !ok {
		t.Fatalf("sequence shorthand built as %T, want *Array", c.Get("tags"))
	}
	if want := []any{"a", "b"}; !reflect.DeepEqual(arr.Value(), want) {
		t.Errorf("tags = %v, want %v", arr.Value(), want)
	}
}

func TestBuild_NestedAndDisabled(t *testing.T) {
	c := build(t, `
group:
  shipping:
    disabled: true
    group:
      street: {value: ""}
  quantity:
    value: 1
    validators: ["min=1"]
`)
	shipping := c.Get("shipping")
	if !shipping.Disabled() {
		t.Errorf("shipping status = %v, want disabled", shipping.Status())
	}
	if !c.Valid() {
		t.Errorf("root status = %v, want valid (disabled branch is exempt)", c.Status())
	}
}

func TestBuild_ArrayOfGroups(t *testing.T) {
	c := build(t, `
array:
  - group:
      city: {value: London}
  - group:
      city: {value: Paris}
`)
	a, ok := c.(*forms.Array)
	if !ok {
		t.Fatalf("root built as %T, want *Array", c)
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	if got := a.Get("1.city").Value(); got != "Paris" {
		t.Errorf("1.city = %v, want Paris", got)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		path   string
		reason string
	}{
		{
			"group and array",
			"group:\n  x: {value: 1}\narray:\n  - value: 2\n",
			"", "both group and array",
		},
		{
			"composite with value",
			"value: 1\ngroup:\n  x: {value: 2}\n",
			"", "declares a value",
		},
		{
			"unresolvable validator",
			"group:\n  email:\n    value: \"\"\n    validators: [no-such-rule]\n",
			"email", "unresolvable validator",
		},
		{
			"bad validator argument",
			"group:\n  nested:\n    group:\n      name:\n        value: \"\"\n        validators: [\"minlength=x\"]\n",
			"nested.name", "unresolvable validator",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schema.Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			_, err = s.Build()
			var serr *formerrors.SchemaError
			if !errors.As(err, &serr) {
				t.Fatalf("Build error = %v, want SchemaError", err)
			}
			if serr.Path != tt.path {
				t.Errorf("Path = %q, want %q", serr.Path, tt.path)
			}
			if !strings.Contains(serr.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to mention %q", serr.Reason, tt.reason)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := schema.Parse([]byte("group: [unclosed")); err == nil {
		t.Error("Parse accepted malformed YAML")
	}
}

func TestBuild_NoRoot(t *testing.T) {
	var s *schema.Schema
	if _, err := s.Build(); err == nil {
		t.Error("Build on a nil schema succeeded")
	}
	if _, err := (&schema.Schema{}).Build(); err == nil {
		t.Error("Build without a root node succeeded")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "login.yaml")
	if err := os.WriteFile(path, []byte(loginSchema), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := schema.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := s.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := schema.Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
