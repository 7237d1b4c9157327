package forms

import (
	"slices"

	"github.com/go-drift/forms/pkg/errors"
)

// Array is a composite control keyed by integer position.
//
// An array aggregates its children's values into an ordered sequence;
// filtering disabled children preserves the remaining children's relative
// order. Structural mutators re-parent the affected controls and always
// trigger a full revalidation pass.
type Array struct {
	base

	controls []Control
}

// NewArray constructs an array from its initial children in order. Each
// child is registered (parent set, collection-change forwarding attached)
// and the array validated once.
func NewArray(controls []Control, validators ...Validator) *Array {
	a := &Array{controls: slices.Clone(controls)}
	a.init(a, validators)
	for _, c := range a.controls {
		a.registerControl(c)
	}
	a.updateValueAndValidity(updateOpts{onlySelf: true})
	return a
}

// At returns the child at index i, or nil when i is out of range.
func (a *Array) At(i int) Control {
	if i < 0 || i >= len(a.controls) {
		return nil
	}
	return a.controls[i]
}

// Len returns the number of registered children, enabled or not.
func (a *Array) Len() int {
	return len(a.controls)
}

// Controls returns a copy of the ordered child sequence. Structural changes
// go through Push, Insert, SetControl, RemoveAt, and Clear.
func (a *Array) Controls() []Control {
	return slices.Clone(a.controls)
}

// Push appends a child and revalidates the array.
func (a *Array) Push(c Control) {
	a.controls = append(a.controls, c)
	a.registerControl(c)
	a.syncPendingControls()
	a.updateValueAndValidity(updateOpts{})
	a.collectionChanged()
}

// Insert places a child at index i, shifting later children up, and
// revalidates the array. Out-of-range indexes clamp to the ends.
func (a *Array) Insert(i int, c Control) {
	i = a.clamp(i)
	a.controls = slices.Insert(a.controls, i, c)
	a.registerControl(c)
	a.syncPendingControls()
	a.updateValueAndValidity(updateOpts{})
	a.collectionChanged()
}

// RemoveAt detaches the child at index i, shifting later children down, and
// revalidates the array. An out-of-range index leaves the sequence
// unchanged apart from the revalidation pass.
func (a *Array) RemoveAt(i int) {
	if i >= 0 && i < len(a.controls) {
		a.detach(a.controls[i])
		a.controls = slices.Delete(a.controls, i, i+1)
	}
	a.updateValueAndValidity(updateOpts{})
	a.collectionChanged()
}

// SetControl replaces the child at index i and revalidates the array. An
// out-of-range index appends instead.
func (a *Array) SetControl(i int, c Control) {
	if i >= 0 && i < len(a.controls) {
		a.detach(a.controls[i])
		a.controls[i] = c
		a.registerControl(c)
	} else {
		a.controls = append(a.controls, c)
		a.registerControl(c)
	}
	a.syncPendingControls()
	a.updateValueAndValidity(updateOpts{})
	a.collectionChanged()
}

// Clear detaches every child and revalidates the now-empty array.
func (a *Array) Clear() {
	for _, c := range a.controls {
		a.detach(c)
	}
	a.controls = nil
	a.updateValueAndValidity(updateOpts{})
	a.collectionChanged()
}

// SetValue applies one value per positional child and revalidates.
//
// Every index is checked before any child is mutated: a value whose length
// implies an index with no registered control fails with
// [errors.MissingControlError] and leaves the array's prior value and
// status intact. Calling SetValue before any child has been registered
// fails with [errors.EmptyCollectionError].
func (a *Array) SetValue(values []any) error {
	if err := a.setChildren(values); err != nil {
		return err
	}
	a.updateValueAndValidity(updateOpts{})
	return nil
}

// PatchValue applies the positional prefix of values that has matching
// children, silently ignoring the excess, then revalidates.
func (a *Array) PatchValue(values []any) {
	for i, v := range values {
		if i >= len(a.controls) {
			break
		}
		a.controls[i].node().self.patchValueRaw(v, updateOpts{onlySelf: true})
	}
	a.updateValueAndValidity(updateOpts{})
}

// RawValue returns every child's raw value in order, regardless of enabled
// state.
func (a *Array) RawValue() any {
	out := make([]any, len(a.controls))
	for i, c := range a.controls {
		out[i] = c.RawValue()
	}
	return out
}

// registerControl sets the parent back-reference and collection-change
// forwarding; callers place the control in the sequence themselves.
func (a *Array) registerControl(c Control) {
	c.node().setParent(a)
	c.OnCollectionChange(a.collectionChanged)
}

func (a *Array) detach(c Control) {
	c.OnCollectionChange(nil)
	c.node().setParent(nil)
}

func (a *Array) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(a.controls) {
		return len(a.controls)
	}
	return i
}

func (a *Array) setChildren(values []any) error {
	const op = "forms.Array.SetValue"
	if len(a.controls) == 0 {
		return &errors.EmptyCollectionError{Op: op}
	}
	if len(values) > len(a.controls) {
		return &errors.MissingControlError{Op: op, Index: len(a.controls), Indexed: true}
	}
	for i, v := range values {
		if err := a.controls[i].node().self.setValueRaw(v, updateOpts{onlySelf: true}); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) updateValue() {
	out := make([]any, 0, len(a.controls))
	for _, c := range a.controls {
		if c.Enabled() || a.Disabled() {
			out = append(out, c.Value())
		}
	}
	a.value = out
}

func (a *Array) setValueRaw(value any, opts updateOpts) error {
	values, ok := value.([]any)
	if !ok {
		return &errors.FormError{
			Op:   "forms.Array.SetValue",
			Kind: errors.KindValue,
			Err:  &valueShapeError{want: "[]any", got: value},
		}
	}
	if err := a.setChildren(values); err != nil {
		return err
	}
	a.updateValueAndValidity(opts)
	return nil
}

func (a *Array) patchValueRaw(value any, opts updateOpts) {
	if values, ok := value.([]any); ok {
		for i, v := range values {
			if i >= len(a.controls) {
				break
			}
			a.controls[i].node().self.patchValueRaw(v, updateOpts{onlySelf: true})
		}
	}
	a.updateValueAndValidity(opts)
}

func (a *Array) reset(opts updateOpts) {
	a.forEachChild(func(c Control) {
		c.node().self.reset(updateOpts{onlySelf: true})
	})
	a.updatePristine()
	a.updateTouched()
	a.updateValueAndValidity(opts)
}

func (a *Array) forEachChild(fn func(Control)) {
	for _, c := range a.controls {
		fn(c)
	}
}

func (a *Array) anyControls(pred func(Control) bool) bool {
	for _, c := range a.controls {
		if c.Enabled() && pred(c) {
			return true
		}
	}
	return false
}

func (a *Array) allControlsDisabled() bool {
	for _, c := range a.controls {
		if c.Enabled() {
			return false
		}
	}
	// A childless array holds whatever was set explicitly: Disable() must
	// survive validation passes and Clear().
	return len(a.controls) > 0 || a.Disabled()
}

func (a *Array) syncPendingControls() bool {
	updated := false
	a.forEachChild(func(c Control) {
		if c.node().self.syncPendingControls() {
			updated = true
		}
	})
	if updated {
		a.updateValueAndValidity(updateOpts{onlySelf: true})
	}
	return updated
}
