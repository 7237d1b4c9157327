// Package errors provides structured error handling for the forms library.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindMissingControl indicates a value referencing an unregistered child.
	KindMissingControl
	// KindEmptyCollection indicates an operation on a composite with no children.
	KindEmptyCollection
	// KindValue indicates a value whose shape does not match the control tree.
	KindValue
	// KindSchema indicates a malformed form schema.
	KindSchema
	// KindAsync indicates an asynchronous validator failure.
	KindAsync
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingControl:
		return "missing-control"
	case KindEmptyCollection:
		return "empty-collection"
	case KindValue:
		return "value"
	case KindSchema:
		return "schema"
	case KindAsync:
		return "async"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FormError represents a structured error in the forms library.
type FormError struct {
	// Op is the operation that failed (e.g., "forms.Group.SetValue").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FormError) Unwrap() error {
	return e.Err
}

// MissingControlError reports a setValue key or index with no registered control.
type MissingControlError struct {
	// Op is the operation that failed (e.g., "forms.Group.SetValue").
	Op string
	// Key is the unmatched group key, if applicable.
	Key string
	// Index is the unmatched array index, if applicable.
	Index int
	// Indexed distinguishes an array index from a group key.
	Indexed bool
}

func (e *MissingControlError) Error() string {
	if e.Indexed {
		return fmt.Sprintf("%s: no control registered at index %d", e.Op, e.Index)
	}
	return fmt.Sprintf("%s: no control registered with name %q", e.Op, e.Key)
}

// EmptyCollectionError reports a composite operation invoked before any child
// control was registered.
type EmptyCollectionError struct {
	// Op is the operation that failed.
	Op string
}

func (e *EmptyCollectionError) Error() string {
	return fmt.Sprintf("%s: no controls registered; add a child control first", e.Op)
}

// SchemaError reports a malformed form schema node.
type SchemaError struct {
	// Path locates the offending node within the schema (e.g., "address.city").
	Path string
	// Reason describes what is wrong with the node.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema node %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("schema node %q: %s", e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "forms.asyncValidation").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the forms library.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *FormError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
