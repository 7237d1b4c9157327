package forms

import "context"

// Errors maps error codes to arbitrary diagnostic payloads.
//
// Validators produce Errors values; controls store the merged result. An
// empty map is always normalized to nil, so `c.Errs() == nil` is the
// canonical "no errors" check.
type Errors map[string]any

// Validator checks a control synchronously and returns the errors it found,
// or nil when the control passes.
//
// Validators run in registration order; their non-nil results are merged
// into a single Errors map, later validators overwriting earlier entries
// that share a code.
type Validator func(c Control) Errors

// AsyncValidator checks a control asynchronously.
//
// Async validators run strictly in registration order within one validation
// round, after every synchronous validator has completed. Returning a non-nil
// error abandons the round without mutating the control; the error is
// reported through the pkg/errors handler.
type AsyncValidator func(ctx context.Context, c Control) (Errors, error)

// normalizeErrors converts an empty map to nil.
func normalizeErrors(errs Errors) Errors {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// mergeErrors folds src into dst, allocating dst on first use.
func mergeErrors(dst, src Errors) Errors {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(Errors, len(src))
	}
	for code, payload := range src {
		dst[code] = payload
	}
	return dst
}
