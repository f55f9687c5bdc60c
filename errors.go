// Package tesseral structured error types for kernel dispatch failures
package tesseral

import (
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Dimension mismatch between operands
	ErrTypeDimension ErrorType = iota
	// Tile-divisibility violation on the cross-layout path
	ErrTypeTile
	// Invalid argument errors
	ErrTypeInvalidArg
	// Kernel compilation errors
	ErrTypeCompile
	// Kernel execution errors
	ErrTypeExecution
	// Device errors
	ErrTypeDevice
)

// TessError represents a structured error with context
type TessError struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *TessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tesseral %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("tesseral %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *TessError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeDimension:
		return "Dimension"
	case ErrTypeTile:
		return "Tile"
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeCompile:
		return "Compile"
	case ErrTypeExecution:
		return "Execution"
	case ErrTypeDevice:
		return "Device"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewDimensionError creates a dimension mismatch error
func NewDimensionError(op string, message string) error {
	return &TessError{
		Type:    ErrTypeDimension,
		Op:      op,
		Message: message,
	}
}

// NewTileError creates a tile-divisibility error
func NewTileError(op string, message string) error {
	return &TessError{
		Type:    ErrTypeTile,
		Op:      op,
		Message: message,
	}
}

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &TessError{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewCompileError creates a kernel compilation error
func NewCompileError(op string, message string, err error) error {
	return &TessError{
		Type:    ErrTypeCompile,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &TessError{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// IsDimensionError checks if an error is a dimension mismatch
func IsDimensionError(err error) bool {
	if e, ok := err.(*TessError); ok {
		return e.Type == ErrTypeDimension
	}
	return false
}

// IsTileError checks if an error is a tile-divisibility violation
func IsTileError(err error) bool {
	if e, ok := err.(*TessError); ok {
		return e.Type == ErrTypeTile
	}
	return false
}

// IsCompileError checks if an error is a kernel compilation failure
func IsCompileError(err error) bool {
	if e, ok := err.(*TessError); ok {
		return e.Type == ErrTypeCompile
	}
	return false
}
