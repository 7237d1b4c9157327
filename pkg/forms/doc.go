// Package forms provides reactive form state management: a validation tree
// of scalar and composite controls that tracks values, validity, and
// dirty/pristine state, recomputing them whenever the tree or its leaves
// change.
//
// The package is headless. UI bindings forward user edits by calling
// [Field.SetValue] and [Control.MarkDirty], and render from [Control.Value],
// [Control.Status], and [Control.Errs]; nothing here knows about widgets.
//
// # Building a tree
//
// Compose controls directly:
//
//	profile := forms.NewGroup(map[string]forms.Control{
//	    "name": forms.NewField("", validators.Required()),
//	    "age":  forms.NewField(0),
//	    "tags": forms.NewArray([]forms.Control{forms.NewField("go")}),
//	})
//
// or from plain nested data with [Build]:
//
//	profile := forms.Build(map[string]any{
//	    "name": forms.Item{Value: "", Validators: []forms.Validator{validators.Required()}},
//	    "age":  0,
//	    "tags": []any{"go"},
//	}).(*forms.Group)
//
// # Values and validity
//
// A composite's value aggregates its enabled children; [Control.RawValue]
// includes disabled children too, so it round-trips through [Build]. Status
// follows a fixed precedence: Disabled, then Invalid from the control's own
// errors, then Pending or Invalid from any enabled child, then Valid.
//
//	profile.Get("name").(*forms.Field).SetValue("Nancy")
//	if profile.Valid() {
//	    submit(profile.Value().(map[string]any))
//	}
//
// # Asynchronous validation
//
// Async validators run after synchronous ones, strictly in registration
// order, on their own goroutine. Every validation round advances a
// per-control generation counter; a round superseded by a newer one has its
// late result silently discarded, so rapid successive edits never apply
// stale errors. This generation guard is the package's only concurrency
// mechanism: control trees otherwise belong to a single goroutine, like a
// widget tree.
//
// # Errors
//
// Validation failures are data, not Go errors: validators return an
// [Errors] map and never abort a pass. Structural misuse (setting a value
// for an unregistered key, or on an empty composite) is returned as a typed
// error from pkg/errors and leaves the tree unchanged.
package forms
