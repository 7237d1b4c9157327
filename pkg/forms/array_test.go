package forms_test

import (
	"errors"
	"reflect"
	"testing"

	formerrors "github.com/go-drift/forms/pkg/errors"
	"github.com/go-drift/forms/pkg/forms"
)

func TestArray_SetValueAndClear(t *testing.T) {
	a := forms.NewArray([]forms.Control{forms.NewField(""), forms.NewField("")})

	if err := a.SetValue([]any{"Nancy", "Drew"}); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	want := []any{"Nancy", "Drew"}
	if !reflect.DeepEqual(a.RawValue(), want) {
		t.Errorf("RawValue() = %v, want %v", a.RawValue(), want)
	}

	a.Clear()
	if a.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", a.Len())
	}
	if !reflect.DeepEqual(a.Value(), []any{}) {
		t.Errorf("Value() after Clear = %v, want []", a.Value())
	}
}

func TestArray_SetValueTooLong(t *testing.T) {
	a := forms.NewArray([]forms.Control{forms.NewField("keep")})
	prior := a.Value()

	err := a.SetValue([]any{"x", "y"})

	var missing *formerrors.MissingControlError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingControlError", err)
	}
	if !missing.Indexed || missing.Index != 1 {
		t.Errorf("missing index = %d (indexed=%v), want 1", missing.Index, missing.Indexed)
	}
	if !reflect.DeepEqual(a.Value(), prior) {
		t.Errorf("array value changed on failed SetValue: %v", a.Value())
	}
}

func TestArray_SetValueEmptyCollection(t *testing.T) {
	a := forms.NewArray(nil)

	err := a.SetValue([]any{"x"})

	var empty *formerrors.EmptyCollectionError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want EmptyCollectionError", err)
	}
}

func TestArray_StructuralMutators(t *testing.T) {
	a := forms.NewArray([]forms.Control{forms.NewField("b")})

	first := forms.NewField("a")
	a.Insert(0, first)
	if first.Parent() != forms.Control(a) {
		t.Error("Insert must set the child's parent")
	}

	last := forms.NewField("c")
	a.Push(last)

	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(a.RawValue(), want) {
		t.Fatalf("RawValue() = %v, want %v", a.RawValue(), want)
	}

	a.SetControl(1, forms.NewField("B"))
	a.RemoveAt(0)
	if first.Parent() != nil {
		t.Error("RemoveAt must clear the child's parent")
	}

	want = []any{"B", "c"}
	if !reflect.DeepEqual(a.RawValue(), want) {
		t.Errorf("RawValue() = %v, want %v", a.RawValue(), want)
	}
}

func TestArray_At(t *testing.T) {
	child := forms.NewField("x")
	a := forms.NewArray([]forms.Control{child})

	if a.At(0) != forms.Control(child) {
		t.Error("At(0) must return the first child")
	}
	if a.At(1) != nil || a.At(-1) != nil {
		t.Error("At out of range must return nil")
	}
}

func TestArray_DisabledChildFilteredInOrder(t *testing.T) {
	middle := forms.NewField("b")
	a := forms.NewArray([]forms.Control{
		forms.NewField("a"), middle, forms.NewField("c"),
	})
	middle.Disable()

	if want := []any{"a", "c"}; !reflect.DeepEqual(a.Value(), want) {
		t.Errorf("Value() = %v, want %v (order preserved)", a.Value(), want)
	}
	if want := []any{"a", "b", "c"}; !reflect.DeepEqual(a.RawValue(), want) {
		t.Errorf("RawValue() = %v, want %v", a.RawValue(), want)
	}
}

func TestArray_DisabledArrayValueIncludesAllChildren(t *testing.T) {
	middle := forms.NewField("b")
	a := forms.NewArray([]forms.Control{forms.NewField("a"), middle})
	middle.Disable()
	a.Disable()

	if want := []any{"a", "b"}; !reflect.DeepEqual(a.Value(), want) {
		t.Errorf("disabled array value = %v, want %v", a.Value(), want)
	}
}

func TestArray_PatchValueAppliesPrefix(t *testing.T) {
	a := forms.NewArray([]forms.Control{forms.NewField("x"), forms.NewField("y")})

	a.PatchValue([]any{"X", "Y", "ignored"})

	if want := []any{"X", "Y"}; !reflect.DeepEqual(a.RawValue(), want) {
		t.Errorf("RawValue() = %v, want %v", a.RawValue(), want)
	}
}

func TestArray_ChildValidityAggregates(t *testing.T) {
	bad := forms.NewField("", func(c forms.Control) forms.Errors {
		return forms.Errors{"required": true}
	})
	a := forms.NewArray([]forms.Control{forms.NewField("ok"), bad})

	if !a.Invalid() {
		t.Fatalf("array status = %v, want invalid", a.Status())
	}

	bad.Disable()
	if !a.Valid() {
		t.Errorf("array status = %v, want valid once the invalid child is disabled", a.Status())
	}
}

func TestArray_DisabledArraySurvivesClear(t *testing.T) {
	a := forms.NewArray([]forms.Control{forms.NewField("x")})
	a.Disable()

	a.Clear()
	if !a.Disabled() {
		t.Errorf("array status = %v, want disabled to survive clearing the last child", a.Status())
	}

	a.UpdateValueAndValidity()
	if !a.Disabled() {
		t.Errorf("array status = %v, want disabled to survive a validation pass", a.Status())
	}

	a.Enable()
	if !a.Valid() {
		t.Errorf("array status = %v, want valid after an explicit enable", a.Status())
	}
}
