package types

import "errors"

// Engine lifecycle errors.
var (
	ErrDetached        = errors.New("engine is detached")
	ErrAlreadyAttached = errors.New("engine is already attached")
)

// Operation errors. "Not found" conditions (ErrUnknownEntity,
// ErrUnknownClass, ErrUnknownAttribute) are expected outcomes callers may
// handle; the schema and type violations are hard errors and should
// propagate.
var (
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrUnknownClass       = errors.New("unknown entity class")
	ErrUnknownAttribute   = errors.New("unknown attribute")
	ErrDuplicateAttribute = errors.New("attribute already defined with a different value type")
	ErrTypeMismatch       = errors.New("value type mismatch")
	ErrUnknownLinkType    = errors.New("unknown link type")
	ErrAttributeInUse     = errors.New("attribute has values and cannot be removed")
	ErrClassInUse         = errors.New("class has entities and cannot be removed")
	ErrInvalidValueType   = errors.New("invalid value type")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidID          = errors.New("invalid ID")
	ErrInvalidOp          = errors.New("invalid predicate operator")
	ErrDuplicateClass     = errors.New("class name already in use")
)
