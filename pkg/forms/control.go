package forms

import (
	"context"
	"slices"
	"sync"

	"github.com/go-drift/forms/pkg/errors"
)

// Control is a node in a validation tree: a [Field] leaf or a [Group] or
// [Array] composite.
//
// A control owns its current value, validation status, error map, and
// dirty/pristine bookkeeping, and recomputes them whenever the tree or its
// values change. Composites exclusively own their children; a child keeps a
// non-owning back-reference to its parent used only for [Control.Root],
// dirty propagation, and ancestor revalidation.
//
// Controls are not safe for concurrent mutation: like a widget tree, a
// control tree belongs to one goroutine. The single exception is
// asynchronous validation, whose completion is applied internally under a
// generation guard (see [Control.UpdateValueAndValidity]).
type Control interface {
	// Value returns the control's current value. For an enabled composite
	// this aggregates enabled children only; for a disabled composite it
	// includes every child.
	Value() any
	// RawValue returns the control's value including disabled descendants.
	RawValue() any
	// Status returns the control's current validation status.
	Status() ControlStatus
	// Errs returns the control's current validation errors, or nil.
	Errs() Errors
	// Dirty reports whether the control's value has been changed since it
	// was created or last reset. A composite is dirty when any descendant is.
	Dirty() bool
	// Pristine is the inverse of Dirty.
	Pristine() bool
	// Touched reports whether the control has been blurred at least once.
	Touched() bool
	// Untouched is the inverse of Touched.
	Untouched() bool
	// Enabled reports whether the control participates in validation and in
	// its parent's aggregate value.
	Enabled() bool
	// Disabled reports whether the control is exempt from validation.
	Disabled() bool
	// Valid reports Status() == StatusValid.
	Valid() bool
	// Invalid reports Status() == StatusInvalid.
	Invalid() bool
	// Pending reports Status() == StatusPending.
	Pending() bool
	// Parent returns the composite that owns this control, or nil for roots.
	Parent() Control
	// Root walks parent links to the top of the tree.
	Root() Control

	// SetValidators replaces the synchronous validator list.
	SetValidators(v ...Validator)
	// AddValidators appends to the synchronous validator list.
	AddValidators(v ...Validator)
	// ClearValidators removes every synchronous validator.
	ClearValidators()
	// SetAsyncValidators replaces the asynchronous validator list.
	SetAsyncValidators(v ...AsyncValidator)
	// AddAsyncValidators appends to the asynchronous validator list.
	AddAsyncValidators(v ...AsyncValidator)
	// ClearAsyncValidators removes every asynchronous validator.
	ClearAsyncValidators()

	// Disable exempts the control and every descendant from validation and
	// clears their errors. Ancestors are revalidated.
	Disable()
	// Enable restores the control and every descendant to validation and
	// runs a fresh validation pass. Ancestors are revalidated.
	Enable()
	// UpdateValueAndValidity recomputes the control's value, errors, and
	// status, then triggers the same pass on each ancestor. Starting a pass
	// advances the control's validation generation, so any in-flight
	// asynchronous round is superseded and its late result discarded.
	UpdateValueAndValidity()
	// SetErrors overwrites the control's errors and recomputes status
	// without re-running validators. Ancestor statuses are recomputed.
	SetErrors(errs Errors)

	// Get resolves a path to a descendant control, or nil if any segment is
	// missing or the path descends through a leaf. Each segment is a string
	// (a group key, or a dot-delimited run of segments) or an int (an array
	// index).
	Get(path ...any) Control
	// GetError returns the payload for code on the control at path (self
	// when path is empty), or nil.
	GetError(code string, path ...any) any
	// HasError reports whether GetError returns a non-nil payload.
	HasError(code string, path ...any) bool

	// MarkDirty marks the control and every ancestor dirty.
	MarkDirty()
	// MarkPristine marks the control and its descendants pristine, then
	// recomputes each ancestor's pristine state from its children.
	MarkPristine()
	// MarkTouched marks the control and every ancestor touched.
	MarkTouched()
	// MarkUntouched marks the control and its descendants untouched, then
	// recomputes each ancestor's touched state from its children.
	MarkUntouched()
	// Reset reverts the control to a pristine, untouched state. Leaves
	// revert to a nil value (see [Field.ResetTo] for resetting to a
	// specific value); composites reset each child.
	Reset()

	// AddStatusListener adds a callback that fires whenever the status
	// changes. Returns an unsubscribe function. Listeners may fire from the
	// asynchronous validation goroutine.
	AddStatusListener(fn func(ControlStatus)) func()
	// AddValueListener adds a callback that fires after each value
	// recomputation. Returns an unsubscribe function.
	AddValueListener(fn func(any)) func()
	// AddDisabledListener adds a callback that fires when the control is
	// disabled or enabled. Returns an unsubscribe function.
	AddDisabledListener(fn func(disabled bool)) func()
	// OnCollectionChange sets the single-slot callback notified when the
	// control's collection shape changes. A composite's owner claims this
	// slot at registration; it is not a general event bus.
	OnCollectionChange(fn func())

	node() *base
}

// controlHooks is the per-variant surface the shared base algorithm drives.
type controlHooks interface {
	Control

	// updateValue recomputes the aggregate value. No-op for leaves.
	updateValue()
	// setValueRaw applies an untyped value with each variant's SetValue rules.
	setValueRaw(value any, opts updateOpts) error
	// patchValueRaw applies the matching subset of an untyped value,
	// ignoring parts with no registered control.
	patchValueRaw(value any, opts updateOpts)
	// reset reverts the control with each variant's Reset rules.
	reset(opts updateOpts)
	// forEachChild visits every child. No-op for leaves.
	forEachChild(fn func(Control))
	// anyControls reports whether any enabled child satisfies pred.
	anyControls(pred func(Control) bool) bool
	// allControlsDisabled reports whether every reachable leaf is disabled.
	allControlsDisabled() bool
	// syncPendingControls resolves leaves holding unmerged pending values
	// after structural changes, reporting whether anything was applied.
	syncPendingControls() bool
}

// updateOpts controls how far a recomputation pass propagates.
type updateOpts struct {
	// onlySelf confines the pass to this control, skipping ancestors.
	onlySelf bool
}

// base carries the state and validity-propagation algorithm shared by every
// control variant. The self pointer is set exactly once at construction and
// lets the base drive each variant's hooks.
type base struct {
	self controlHooks

	value  any
	status ControlStatus
	errors Errors

	pristine bool
	touched  bool

	validators      []Validator
	asyncValidators []AsyncValidator

	// parent is a non-owning back-reference, nil for roots. It is set
	// exactly once per registration and never used to mutate the parent's
	// child collection.
	parent Control

	// onCollectionChange is the single-slot owner notification forwarded
	// down at registration and cleared at detachment.
	onCollectionChange func()

	statusListeners   map[int]func(ControlStatus)
	valueListeners    map[int]func(any)
	disabledListeners map[int]func(bool)
	nextListenerID    int

	// genMu guards generation: the handoff point between a validation
	// round starting on the tree's goroutine and an asynchronous round
	// completing on its own. It is the library's only lock.
	genMu      sync.Mutex
	generation uint64
}

// init wires the template-method pointer and initial bookkeeping.
func (b *base) init(self controlHooks, validators []Validator) {
	b.self = self
	b.status = StatusValid
	b.pristine = true
	b.validators = validators
}

// Value returns the control's current value.
func (b *base) Value() any { return b.value }

// Status returns the control's current validation status.
func (b *base) Status() ControlStatus { return b.status }

// Errs returns the control's current validation errors, or nil.
func (b *base) Errs() Errors { return b.errors }

// Dirty reports whether the control's value has changed since last reset.
func (b *base) Dirty() bool { return !b.pristine }

// Pristine is the inverse of Dirty.
func (b *base) Pristine() bool { return b.pristine }

// Touched reports whether the control has been blurred at least once.
func (b *base) Touched() bool { return b.touched }

// Untouched is the inverse of Touched.
func (b *base) Untouched() bool { return !b.touched }

// Enabled reports whether the control participates in validation.
func (b *base) Enabled() bool { return b.status != StatusDisabled }

// Disabled reports whether the control is exempt from validation.
func (b *base) Disabled() bool { return b.status == StatusDisabled }

// Valid reports whether the control passed all validation checks.
func (b *base) Valid() bool { return b.status == StatusValid }

// Invalid reports whether the control failed a validation check.
func (b *base) Invalid() bool { return b.status == StatusInvalid }

// Pending reports whether asynchronous validation is in flight.
func (b *base) Pending() bool { return b.status == StatusPending }

// Parent returns the composite that owns this control, or nil.
func (b *base) Parent() Control { return b.parent }

// Root walks parent links to the top of the tree.
func (b *base) Root() Control {
	var c Control = b.self
	for c.Parent() != nil {
		c = c.Parent()
	}
	return c
}

func (b *base) node() *base { return b }

// SetValidators replaces the synchronous validator list.
func (b *base) SetValidators(v ...Validator) { b.validators = slices.Clone(v) }

// AddValidators appends to the synchronous validator list.
func (b *base) AddValidators(v ...Validator) { b.validators = append(b.validators, v...) }

// ClearValidators removes every synchronous validator.
func (b *base) ClearValidators() { b.validators = nil }

// SetAsyncValidators replaces the asynchronous validator list.
func (b *base) SetAsyncValidators(v ...AsyncValidator) { b.asyncValidators = slices.Clone(v) }

// AddAsyncValidators appends to the asynchronous validator list.
func (b *base) AddAsyncValidators(v ...AsyncValidator) {
	b.asyncValidators = append(b.asyncValidators, v...)
}

// ClearAsyncValidators removes every asynchronous validator.
func (b *base) ClearAsyncValidators() { b.asyncValidators = nil }

// UpdateValueAndValidity recomputes value, errors, and status, propagating
// the pass to every ancestor.
func (b *base) UpdateValueAndValidity() {
	b.updateValueAndValidity(updateOpts{})
}

func (b *base) updateValueAndValidity(opts updateOpts) {
	gen := b.newGeneration()
	prev := b.status

	b.setInitialStatus()
	b.self.updateValue()

	if b.Enabled() {
		b.errors = b.runValidators()
		b.status = b.calculateStatus()
		if b.status == StatusValid || b.status == StatusPending {
			b.runAsyncValidators(gen)
		}
	}

	b.notifyValue()
	if b.status != prev {
		b.notifyStatus()
	}

	if !opts.onlySelf && b.parent != nil {
		b.parent.node().updateValueAndValidity(opts)
	}
}

// setInitialStatus derives the pre-validation status from the disabled state.
func (b *base) setInitialStatus() {
	if b.self.allControlsDisabled() {
		b.status = StatusDisabled
	} else {
		b.status = StatusValid
	}
}

// runValidators merges every synchronous validator's result in registration
// order.
func (b *base) runValidators() Errors {
	var merged Errors
	for _, v := range b.validators {
		merged = mergeErrors(merged, v(b.self))
	}
	return normalizeErrors(merged)
}

// calculateStatus applies the status precedence rule:
// Disabled > Invalid(own errors) > Pending(child) > Invalid(child) > Valid.
func (b *base) calculateStatus() ControlStatus {
	switch {
	case b.self.allControlsDisabled():
		return StatusDisabled
	case len(b.errors) != 0:
		return StatusInvalid
	case b.anyControlsHaveStatus(StatusPending):
		return StatusPending
	case b.anyControlsHaveStatus(StatusInvalid):
		return StatusInvalid
	}
	return StatusValid
}

func (b *base) anyControlsHaveStatus(status ControlStatus) bool {
	return b.self.anyControls(func(c Control) bool { return c.Status() == status })
}

func (b *base) anyControlsDirty() bool {
	return b.self.anyControls(func(c Control) bool { return c.Dirty() })
}

func (b *base) anyControlsTouched() bool {
	return b.self.anyControls(func(c Control) bool { return c.Touched() })
}

// newGeneration advances the validation generation, superseding any
// in-flight asynchronous round.
func (b *base) newGeneration() uint64 {
	b.genMu.Lock()
	b.generation++
	gen := b.generation
	b.genMu.Unlock()
	return gen
}

// runAsyncValidators launches the asynchronous half of a validation round.
// The round's validators run strictly in registration order on a fresh
// goroutine; the merged result is applied only if the round is still the
// control's newest when it completes.
func (b *base) runAsyncValidators(gen uint64) {
	if len(b.asyncValidators) == 0 {
		return
	}
	b.status = StatusPending
	avs := slices.Clone(b.asyncValidators)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errors.ReportPanic(&errors.PanicError{
					Op:         "forms.asyncValidation",
					Value:      r,
					StackTrace: errors.CaptureStack(),
				})
			}
		}()

		ctx := context.Background()
		var merged Errors
		for _, av := range avs {
			errs, err := av(ctx, b.self)
			if err != nil {
				// Abandon the round: no mutation, the control stays
				// Pending until the next round.
				errors.Report(&errors.FormError{
					Op:   "forms.asyncValidation",
					Kind: errors.KindAsync,
					Err:  err,
				})
				return
			}
			merged = mergeErrors(merged, errs)
		}
		b.applyAsyncResult(gen, normalizeErrors(merged))
	}()
}

// applyAsyncResult finishes an asynchronous round. A round whose generation
// no longer matches has been superseded; its result is discarded with zero
// mutation.
func (b *base) applyAsyncResult(gen uint64, errs Errors) {
	b.genMu.Lock()
	if gen != b.generation {
		b.genMu.Unlock()
		return
	}
	b.errors = errs
	prev := b.status
	b.status = b.calculateStatus()
	changed := b.status != prev
	b.genMu.Unlock()

	if changed {
		b.notifyStatus()
	}
	if b.parent != nil {
		b.parent.node().updateControlsErrors()
	}
}

// SetErrors overwrites the control's errors and recomputes status without
// re-running validators.
func (b *base) SetErrors(errs Errors) {
	b.errors = normalizeErrors(errs)
	b.updateControlsErrors()
}

// updateControlsErrors recomputes status from current errors and children,
// then walks up the tree.
func (b *base) updateControlsErrors() {
	prev := b.status
	b.status = b.calculateStatus()
	if b.status != prev {
		b.notifyStatus()
	}
	if b.parent != nil {
		b.parent.node().updateControlsErrors()
	}
}

// Disable exempts the control and every descendant from validation.
func (b *base) Disable() {
	b.disable(updateOpts{})
}

func (b *base) disable(opts updateOpts) {
	b.newGeneration()
	prev := b.status
	b.status = StatusDisabled
	b.errors = nil
	b.self.forEachChild(func(c Control) {
		c.node().disable(updateOpts{onlySelf: true})
	})
	b.self.updateValue()

	b.notifyValue()
	if b.status != prev {
		b.notifyStatus()
	}
	if !opts.onlySelf {
		b.updateAncestors()
	}
	b.notifyDisabled(true)
}

// Enable restores the control and every descendant to validation.
//
// The cascade is symmetric with Disable: enabling a composite re-enables its
// whole subtree before revalidating it.
func (b *base) Enable() {
	b.enable(updateOpts{})
}

func (b *base) enable(opts updateOpts) {
	b.status = StatusValid
	b.self.forEachChild(func(c Control) {
		c.node().enable(updateOpts{onlySelf: true})
	})
	b.updateValueAndValidity(updateOpts{onlySelf: true})

	if !opts.onlySelf {
		b.updateAncestors()
	}
	b.notifyDisabled(false)
}

// updateAncestors revalidates the parent chain after a change that alters
// this control's participation in aggregates.
func (b *base) updateAncestors() {
	if b.parent == nil {
		return
	}
	p := b.parent.node()
	p.updateValueAndValidity(updateOpts{})
	p.updatePristine()
	p.updateTouched()
}

// MarkDirty marks the control and every ancestor dirty.
func (b *base) MarkDirty() {
	b.markDirty(updateOpts{})
}

func (b *base) markDirty(opts updateOpts) {
	b.pristine = false
	if !opts.onlySelf && b.parent != nil {
		b.parent.node().markDirty(opts)
	}
}

// MarkPristine marks the control and its descendants pristine, then
// recomputes ancestors.
func (b *base) MarkPristine() {
	b.markPristine(updateOpts{})
}

func (b *base) markPristine(opts updateOpts) {
	b.pristine = true
	b.self.forEachChild(func(c Control) {
		c.node().markPristine(updateOpts{onlySelf: true})
	})
	if !opts.onlySelf && b.parent != nil {
		b.parent.node().updatePristine()
	}
}

// updatePristine recomputes pristine from children and walks up the tree.
func (b *base) updatePristine() {
	b.pristine = !b.anyControlsDirty()
	if b.parent != nil {
		b.parent.node().updatePristine()
	}
}

// MarkTouched marks the control and every ancestor touched.
func (b *base) MarkTouched() {
	b.markTouched(updateOpts{})
}

func (b *base) markTouched(opts updateOpts) {
	b.touched = true
	if !opts.onlySelf && b.parent != nil {
		b.parent.node().markTouched(opts)
	}
}

// MarkUntouched marks the control and its descendants untouched, then
// recomputes ancestors.
func (b *base) MarkUntouched() {
	b.markUntouched(updateOpts{})
}

func (b *base) markUntouched(opts updateOpts) {
	b.touched = false
	b.self.forEachChild(func(c Control) {
		c.node().markUntouched(updateOpts{onlySelf: true})
	})
	if !opts.onlySelf && b.parent != nil {
		b.parent.node().updateTouched()
	}
}

// updateTouched recomputes touched from children and walks up the tree.
func (b *base) updateTouched() {
	b.touched = b.anyControlsTouched()
	if b.parent != nil {
		b.parent.node().updateTouched()
	}
}

// Reset reverts the control to a pristine, untouched state.
func (b *base) Reset() {
	b.self.reset(updateOpts{})
}

// setParent records the non-owning back-reference. It is called exactly
// once at registration and cleared at detachment.
func (b *base) setParent(p Control) {
	b.parent = p
}

// OnCollectionChange sets the single-slot collection-shape callback.
func (b *base) OnCollectionChange(fn func()) {
	b.onCollectionChange = fn
}

// collectionChanged fires the single-slot callback, if claimed.
func (b *base) collectionChanged() {
	if b.onCollectionChange != nil {
		b.onCollectionChange()
	}
}

// AddStatusListener adds a callback that fires whenever the status changes.
// Returns an unsubscribe function.
func (b *base) AddStatusListener(fn func(ControlStatus)) func() {
	if b.statusListeners == nil {
		b.statusListeners = make(map[int]func(ControlStatus))
	}
	id := b.nextListenerID
	b.nextListenerID++
	b.statusListeners[id] = fn
	return func() {
		delete(b.statusListeners, id)
	}
}

// AddValueListener adds a callback that fires after each value
// recomputation. Returns an unsubscribe function.
func (b *base) AddValueListener(fn func(any)) func() {
	if b.valueListeners == nil {
		b.valueListeners = make(map[int]func(any))
	}
	id := b.nextListenerID
	b.nextListenerID++
	b.valueListeners[id] = fn
	return func() {
		delete(b.valueListeners, id)
	}
}

// AddDisabledListener adds a callback that fires when the control is
// disabled or enabled. Returns an unsubscribe function.
func (b *base) AddDisabledListener(fn func(bool)) func() {
	if b.disabledListeners == nil {
		b.disabledListeners = make(map[int]func(bool))
	}
	id := b.nextListenerID
	b.nextListenerID++
	b.disabledListeners[id] = fn
	return func() {
		delete(b.disabledListeners, id)
	}
}

func (b *base) notifyStatus() {
	for _, fn := range b.statusListeners {
		fn(b.status)
	}
}

func (b *base) notifyValue() {
	for _, fn := range b.valueListeners {
		fn(b.value)
	}
}

func (b *base) notifyDisabled(disabled bool) {
	for _, fn := range b.disabledListeners {
		fn(disabled)
	}
}
