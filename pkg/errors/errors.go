package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound represents a missing entity or relationship target
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeAlreadyExists represents a unique-name collision
	ErrorTypeAlreadyExists ErrorType = "already_exists"
	// ErrorTypeInvalidRelation represents an unresolvable relationship target
	ErrorTypeInvalidRelation ErrorType = "invalid_relation"
	// ErrorTypeValidation represents a payload that fails domain validation
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeStorage represents graph or cache store failures
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeUnauthorized represents a failed authentication check
	ErrorTypeUnauthorized ErrorType = "unauthorized"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// NotFoundError is returned when an entity cannot be located by uid or name
type NotFoundError struct {
	*BaseError
	Entity string
	UID    string
}

func NewNotFound(entity, uid string) *NotFoundError {
	return &NotFoundError{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", entity, uid), nil),
		Entity:    entity,
		UID:       uid,
	}
}

// AlreadyExistsError is returned on a unique-name collision
type AlreadyExistsError struct {
	*BaseError
	Entity string
	Name   string
}

func NewAlreadyExists(entity, name string) *AlreadyExistsError {
	return &AlreadyExistsError{
		BaseError: NewBaseError(ErrorTypeAlreadyExists, fmt.Sprintf("%s already exists: %s", entity, name), nil),
		Entity:    entity,
		Name:      name,
	}
}

// InvalidRelationError is returned when a relationship patch references a
// target uid that does not resolve. The whole patch is aborted.
type InvalidRelationError struct {
	*BaseError
	Relation string
	Target   string
}

func NewInvalidRelation(relation, target string) *InvalidRelationError {
	return &InvalidRelationError{
		BaseError: NewBaseError(ErrorTypeInvalidRelation, fmt.Sprintf("relation %s references missing node: %s", relation, target), nil),
		Relation:  relation,
		Target:    target,
	}
}

// ValidationError is returned when a payload fails domain validation
type ValidationError struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// StorageError is returned when the graph store fails during a write, or any
// operation that cannot be safely recovered by recomputing from source
type StorageError struct {
	*BaseError
	Op string
}

func NewStorage(op string, err error) *StorageError {
	return &StorageError{
		BaseError: NewBaseError(ErrorTypeStorage, fmt.Sprintf("storage failure during %s", op), err),
		Op:        op,
	}
}

// UnauthorizedError is returned when authentication fails
type UnauthorizedError struct {
	*BaseError
}

func NewUnauthorized(message string) *UnauthorizedError {
	return &UnauthorizedError{
		BaseError: NewBaseError(ErrorTypeUnauthorized, message, nil),
	}
}

// ErrType reports the category carried by the error
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// TypeOf reports the ErrorType of err, or "" when err carries no BaseError
func TypeOf(err error) ErrorType {
	var typed interface{ ErrType() ErrorType }
	if errors.As(err, &typed) {
		return typed.ErrType()
	}
	return ""
}

func is(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

func IsNotFound(err error) bool        { return is(err, ErrorTypeNotFound) }
func IsAlreadyExists(err error) bool   { return is(err, ErrorTypeAlreadyExists) }
func IsInvalidRelation(err error) bool { return is(err, ErrorTypeInvalidRelation) }
func IsValidation(err error) bool      { return is(err, ErrorTypeValidation) }
func IsStorage(err error) bool         { return is(err, ErrorTypeStorage) }
func IsUnauthorized(err error) bool    { return is(err, ErrorTypeUnauthorized) }
