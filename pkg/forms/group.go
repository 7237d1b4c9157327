package forms

import (
	"fmt"
	"slices"
	"sort"

	"github.com/go-drift/forms/pkg/errors"
)

// Group is a composite control keyed by name.
//
// A group aggregates its children's values into a map and their statuses
// into its own. Registration order is preserved for iteration-based
// behavior such as first-missing-key error reporting; aggregation itself is
// unordered. Children passed to [NewGroup] register in sorted key order,
// since a Go map literal carries no order of its own.
type Group struct {
	base

	controls map[string]Control
	order    []string
}

// NewGroup constructs a group from its initial children. Each child is
// registered (parent set, collection-change forwarding attached) and the
// group validated once.
func NewGroup(controls map[string]Control, validators ...Validator) *Group {
	g := &Group{controls: make(map[string]Control, len(controls))}
	g.init(g, validators)
	for _, name := range sortedKeys(controls) {
		g.RegisterControl(name, controls[name])
	}
	g.updateValueAndValidity(updateOpts{onlySelf: true})
	return g
}

// RegisterControl inserts a child without triggering revalidation. If name
// is already occupied the existing control is returned unchanged; the
// idempotent insert rule is what guarantees a child is never claimed by two
// composites.
func (g *Group) RegisterControl(name string, c Control) Control {
	if existing, ok := g.controls[name]; ok {
		return existing
	}
	g.controls[name] = c
	g.order = append(g.order, name)
	c.node().setParent(g)
	c.OnCollectionChange(g.collectionChanged)
	return c
}

// AddControl inserts a child and revalidates the group. Occupied names are
// left unchanged apart from the revalidation pass.
func (g *Group) AddControl(name string, c Control) {
	g.RegisterControl(name, c)
	g.syncPendingControls()
	g.updateValueAndValidity(updateOpts{})
	g.collectionChanged()
}

// RemoveControl detaches the named child and revalidates the group.
func (g *Group) RemoveControl(name string) {
	if c, ok := g.controls[name]; ok {
		c.OnCollectionChange(nil)
		c.node().setParent(nil)
		delete(g.controls, name)
		if i := slices.Index(g.order, name); i >= 0 {
			g.order = slices.Delete(g.order, i, i+1)
		}
	}
	g.updateValueAndValidity(updateOpts{})
	g.collectionChanged()
}

// SetControl replaces the named child, keeping its position in iteration
// order, and revalidates the group. A vacant name behaves like AddControl.
func (g *Group) SetControl(name string, c Control) {
	if existing, ok := g.controls[name]; ok {
		existing.OnCollectionChange(nil)
		existing.node().setParent(nil)
		delete(g.controls, name)
		g.controls[name] = c
		c.node().setParent(g)
		c.OnCollectionChange(g.collectionChanged)
	} else {
		g.RegisterControl(name, c)
	}
	g.syncPendingControls()
	g.updateValueAndValidity(updateOpts{})
	g.collectionChanged()
}

// Contains reports whether name is registered and that child is enabled.
func (g *Group) Contains(name string) bool {
	c, ok := g.controls[name]
	return ok && c.Enabled()
}

// Len returns the number of registered children, enabled or not.
func (g *Group) Len() int {
	return len(g.controls)
}

// Names returns the registered names in iteration order.
func (g *Group) Names() []string {
	return slices.Clone(g.order)
}

// Controls returns a copy of the name-to-control mapping. Mutating the
// returned map does not affect the group; structural changes go through
// AddControl, SetControl, and RemoveControl.
func (g *Group) Controls() map[string]Control {
	out := make(map[string]Control, len(g.controls))
	for name, c := range g.controls {
		out[name] = c
	}
	return out
}

// SetValue applies one value per named child and revalidates.
//
// Every key is checked before any child is mutated: a key with no matching
// registered control fails with [errors.MissingControlError] and leaves the
// group's prior value and status intact. The check covers this group's own
// keys only; a value rejected deeper in the tree, by a nested composite's
// own SetValue rules, surfaces after earlier siblings were already applied.
// Calling SetValue before any child has been registered fails with
// [errors.EmptyCollectionError].
func (g *Group) SetValue(value map[string]any) error {
	if err := g.setChildren(value); err != nil {
		return err
	}
	g.updateValueAndValidity(updateOpts{})
	return nil
}

// PatchValue applies values for the subset of keys that match registered
// children, silently ignoring the rest, then revalidates.
func (g *Group) PatchValue(value map[string]any) {
	for _, name := range sortedKeys(value) {
		if c, ok := g.controls[name]; ok {
			c.node().self.patchValueRaw(value[name], updateOpts{onlySelf: true})
		}
	}
	g.updateValueAndValidity(updateOpts{})
}

// RawValue returns every child's raw value keyed by name, regardless of
// enabled state.
func (g *Group) RawValue() any {
	out := make(map[string]any, len(g.controls))
	for name, c := range g.controls {
		out[name] = c.RawValue()
	}
	return out
}

func (g *Group) updateValue() {
	out := make(map[string]any)
	for _, name := range g.order {
		c := g.controls[name]
		if c.Enabled() || g.Disabled() {
			out[name] = c.Value()
		}
	}
	g.value = out
}

func (g *Group) setValueRaw(value any, opts updateOpts) error {
	m, ok := value.(map[string]any)
	if !ok {
		return &errors.FormError{
			Op:   "forms.Group.SetValue",
			Kind: errors.KindValue,
			Err:  &valueShapeError{want: "map[string]any", got: value},
		}
	}
	if err := g.setChildren(m); err != nil {
		return err
	}
	g.updateValueAndValidity(opts)
	return nil
}

// setChildren runs SetValue's checked delegation without the trailing
// revalidation pass.
func (g *Group) setChildren(value map[string]any) error {
	const op = "forms.Group.SetValue"
	if len(g.controls) == 0 {
		return &errors.EmptyCollectionError{Op: op}
	}
	for _, name := range sortedKeys(value) {
		if _, ok := g.controls[name]; !ok {
			return &errors.MissingControlError{Op: op, Key: name}
		}
	}
	for _, name := range sortedKeys(value) {
		if err := g.controls[name].node().self.setValueRaw(value[name], updateOpts{onlySelf: true}); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) patchValueRaw(value any, opts updateOpts) {
	if m, ok := value.(map[string]any); ok {
		for _, name := range sortedKeys(m) {
			if c, ok := g.controls[name]; ok {
				c.node().self.patchValueRaw(m[name], updateOpts{onlySelf: true})
			}
		}
	}
	g.updateValueAndValidity(opts)
}

func (g *Group) reset(opts updateOpts) {
	g.forEachChild(func(c Control) {
		c.node().self.reset(updateOpts{onlySelf: true})
	})
	g.updatePristine()
	g.updateTouched()
	g.updateValueAndValidity(opts)
}

func (g *Group) forEachChild(fn func(Control)) {
	for _, name := range g.order {
		fn(g.controls[name])
	}
}

func (g *Group) anyControls(pred func(Control) bool) bool {
	for _, name := range g.order {
		c := g.controls[name]
		if c.Enabled() && pred(c) {
			return true
		}
	}
	return false
}

func (g *Group) allControlsDisabled() bool {
	for _, name := range g.order {
		if g.controls[name].Enabled() {
			return false
		}
	}
	// A childless group holds whatever was set explicitly: Disable() must
	// survive validation passes and removal of the last child.
	return len(g.controls) > 0 || g.Disabled()
}

func (g *Group) syncPendingControls() bool {
	updated := false
	g.forEachChild(func(c Control) {
		if c.node().self.syncPendingControls() {
			updated = true
		}
	})
	if updated {
		g.updateValueAndValidity(updateOpts{onlySelf: true})
	}
	return updated
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// valueShapeError reports a delegated value whose type does not match the
// receiving composite.
type valueShapeError struct {
	want string
	got  any
}

func (e *valueShapeError) Error() string {
	return fmt.Sprintf("value shape mismatch: want %s, got %T", e.want, e.got)
}
