package forms

// Item is the tuple construction form accepted by [Build]: an initial value
// plus the validators the resulting leaf should carry.
type Item struct {
	// Value is the leaf's initial value; a boxed [State] works here too.
	Value any
	// Validators are the leaf's synchronous validators, in order.
	Validators []Validator
	// AsyncValidators are the leaf's asynchronous validators, in order.
	// They take effect from the leaf's next validation round.
	AsyncValidators []AsyncValidator
}

// Build produces a control tree from plain nested data.
//
// Maps become groups, sequences become arrays, [Item] tuples and bare
// values become fields, and pre-built controls pass through unchanged:
//
//	login := forms.Build(map[string]any{
//	    "user": forms.Item{Value: "", Validators: []forms.Validator{validators.Required()}},
//	    "address": map[string]any{
//	        "street": "",
//	        "city":   "",
//	    },
//	    "aliases": []any{"ncd"},
//	}).(*forms.Group)
//
// Build is the inverse of [Control.RawValue] up to structure: for any tree,
// Build(tree.RawValue()).RawValue() equals tree.RawValue(), regardless of
// any child's disabled state.
func Build(data any) Control {
	switch d := data.(type) {
	case Control:
		return d
	case map[string]any:
		children := make(map[string]Control, len(d))
		for name, v := range d {
			children[name] = Build(v)
		}
		return NewGroup(children)
	case []any:
		children := make([]Control, len(d))
		for i, v := range d {
			children[i] = Build(v)
		}
		return NewArray(children)
	case Item:
		f := NewField(d.Value, d.Validators...)
		f.SetAsyncValidators(d.AsyncValidators...)
		return f
	case *Item:
		if d == nil {
			return NewField(nil)
		}
		return Build(*d)
	default:
		return NewField(data)
	}
}
