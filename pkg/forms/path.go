package forms

import (
	"strconv"
	"strings"
)

// PathDelimiter separates segments within a single string path segment.
const PathDelimiter = "."

// Get resolves a path to a descendant control.
//
// Each segment is either a string or an int. String segments index groups by
// name; int segments (and numeric strings) index arrays by position. A single
// string segment may carry several delimited segments, so
// c.Get("address.city") and c.Get("address", "city") are equivalent, as are
// c.Get("items.0") and c.Get("items", 0).
//
// Get returns nil when any segment is missing, when the traversal reaches a
// leaf before the path is exhausted, or when a segment type does not match
// the control it indexes.
func (b *base) Get(path ...any) Control {
	if len(path) == 0 {
		return nil
	}
	var segments []any
	for _, p := range path {
		switch seg := p.(type) {
		case string:
			for _, part := range strings.Split(seg, PathDelimiter) {
				segments = append(segments, part)
			}
		case int:
			segments = append(segments, seg)
		default:
			return nil
		}
	}

	var current Control = b.self
	for _, seg := range segments {
		current = childAt(current, seg)
		if current == nil {
			return nil
		}
	}
	return current
}

// childAt resolves one path segment against one control.
func childAt(c Control, segment any) Control {
	switch parent := c.(type) {
	case *Group:
		name, ok := segment.(string)
		if !ok {
			return nil
		}
		return parent.controls[name]
	case *Array:
		index, ok := segment.(int)
		if !ok {
			name, isString := segment.(string)
			if !isString {
				return nil
			}
			parsed, err := strconv.Atoi(name)
			if err != nil {
				return nil
			}
			index = parsed
		}
		return parent.At(index)
	default:
		// Descending through a leaf: the path cannot resolve.
		return nil
	}
}

// GetError returns the payload for code on the control at path, or nil. An
// empty path looks up code on the control itself.
func (b *base) GetError(code string, path ...any) any {
	target := Control(b.self)
	if len(path) > 0 {
		target = b.Get(path...)
		if target == nil {
			return nil
		}
	}
	errs := target.Errs()
	if errs == nil {
		return nil
	}
	return errs[code]
}

// HasError reports whether GetError returns a non-nil payload.
func (b *base) HasError(code string, path ...any) bool {
	return b.GetError(code, path...) != nil
}
