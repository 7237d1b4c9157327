package forms_test

import (
	"testing"

	"github.com/go-drift/forms/pkg/forms"
)

func addressBook() *forms.Group {
	return forms.NewGroup(map[string]forms.Control{
		"name": forms.NewField("Nancy"),
		"address": forms.NewGroup(map[string]forms.Control{
			"city": forms.NewField("River Heights"),
		}),
		"aliases": forms.NewArray([]forms.Control{
			forms.NewField("ncd"),
			forms.NewField("drew"),
		}),
	})
}

func TestGet_DottedString(t *testing.T) {
	g := addressBook()

	if got := g.Get("address.city").Value(); got != "River Heights" {
		t.Errorf("Get(address.city) = %v, want River Heights", got)
	}
}

func TestGet_Segments(t *testing.T) {
	g := addressBook()

	if got := g.Get("address", "city").Value(); got != "River Heights" {
		t.Errorf("Get(address, city) = %v, want River Heights", got)
	}
}

func TestGet_ArrayByIntAndNumericString(t *testing.T) {
	g := addressBook()

	if got := g.Get("aliases", 1).Value(); got != "drew" {
		t.Errorf("Get(aliases, 1) = %v, want drew", got)
	}
	if got := g.Get("aliases.0").Value(); got != "ncd" {
		t.Errorf("Get(aliases.0) = %v, want ncd", got)
	}
}

func TestGet_Misses(t *testing.T) {
	g := addressBook()

	cases := []struct {
		name string
		path []any
	}{
		{"empty path", nil},
		{"unknown key", []any{"missing"}},
		{"unknown nested key", []any{"address.zip"}},
		{"index out of range", []any{"aliases", 9}},
		{"descends through leaf", []any{"name.first"}},
		{"int segment on group", []any{0}},
		{"non-numeric segment on array", []any{"aliases", "first"}},
		{"unsupported segment type", []any{1.5}},
	}
	for _, tc := range cases {
		if got := g.Get(tc.path...); got != nil {
			t.Errorf("%s: Get(%v) = %v, want nil", tc.name, tc.path, got)
		}
	}
}

func TestGetError_WithPath(t *testing.T) {
	taken := forms.NewField("ncd")
	taken.SetErrors(forms.Errors{"taken": "already in use"})
	g := forms.NewGroup(map[string]forms.Control{"alias": taken})

	if got := g.GetError("taken", "alias"); got != "already in use" {
		t.Errorf("GetError(taken, alias) = %v, want payload", got)
	}
	if g.GetError("taken", "missing") != nil {
		t.Error("GetError on an unresolvable path must return nil")
	}
	if g.GetError("other", "alias") != nil {
		t.Error("GetError for an absent code must return nil")
	}
	if !g.HasError("taken", "alias") {
		t.Error("HasError(taken, alias) = false, want true")
	}
	if g.HasError("taken") {
		t.Error("HasError without a path must look at the group itself")
	}
}
