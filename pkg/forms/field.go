package forms

// State is the boxed construction form for a [Field]: an initial value plus
// an initial disabled flag.
//
//	age := forms.NewField(forms.State{Value: 30, Disabled: true})
type State struct {
	// Value is the field's initial value.
	Value any
	// Disabled exempts the field from validation at construction.
	Disabled bool
}

// Field is a leaf control holding a scalar value.
//
// A field buffers the most recent value it was handed alongside the value
// itself, and tracks a validation generation used to discard stale
// asynchronous results (see [Control.UpdateValueAndValidity]).
type Field struct {
	base

	// pendingValue buffers the most recently applied value.
	pendingValue any
	// pendingChange reports whether the field has received a value since it
	// was created or last reset.
	pendingChange bool
}

// NewField constructs a leaf control.
//
// value is either a raw initial value or a boxed [State]; the boxed form
// applies the value and then enables or disables the field accordingly.
// Validators run in the order given.
func NewField(value any, validators ...Validator) *Field {
	f := &Field{}
	f.init(f, validators)
	f.applyState(value)
	f.updateValueAndValidity(updateOpts{onlySelf: true})
	return f
}

// SetValue stores v as the field's current and pending value, marks the
// field dirty, and revalidates the field and its ancestors.
func (f *Field) SetValue(v any) {
	f.value = v
	f.pendingValue = v
	f.pendingChange = true
	f.MarkDirty()
	f.updateValueAndValidity(updateOpts{})
}

// Reset reverts the field to a nil value, pristine and untouched.
func (f *Field) Reset() {
	f.ResetTo(nil)
}

// ResetTo reverts the field to value (raw or boxed [State]), pristine and
// untouched, clearing the pending-change flag.
func (f *Field) ResetTo(value any) {
	f.resetTo(value, updateOpts{})
}

func (f *Field) reset(opts updateOpts) {
	f.resetTo(nil, opts)
}

func (f *Field) resetTo(value any, opts updateOpts) {
	f.applyState(value)
	f.markPristine(opts)
	f.markUntouched(opts)
	f.pendingChange = false
	f.updateValueAndValidity(opts)
}

// RawValue returns the field's value; a leaf has no disabled descendants to
// include.
func (f *Field) RawValue() any {
	return f.value
}

// applyState applies a raw or boxed initial value.
func (f *Field) applyState(value any) {
	switch state := value.(type) {
	case State:
		f.value = state.Value
		f.pendingValue = state.Value
		if state.Disabled {
			f.disable(updateOpts{onlySelf: true})
		} else {
			f.enable(updateOpts{onlySelf: true})
		}
	case *State:
		if state != nil {
			f.applyState(*state)
			return
		}
		f.value = nil
		f.pendingValue = nil
	default:
		f.value = value
		f.pendingValue = value
	}
}

func (f *Field) updateValue() {
	f.value = f.pendingValue
}

func (f *Field) setValueRaw(value any, opts updateOpts) error {
	f.value = value
	f.pendingValue = value
	f.pendingChange = true
	f.MarkDirty()
	f.updateValueAndValidity(opts)
	return nil
}

func (f *Field) patchValueRaw(value any, opts updateOpts) {
	_ = f.setValueRaw(value, opts)
}

func (f *Field) forEachChild(func(Control)) {}

func (f *Field) anyControls(func(Control) bool) bool { return false }

func (f *Field) allControlsDisabled() bool {
	return f.status == StatusDisabled
}

func (f *Field) syncPendingControls() bool { return false }
