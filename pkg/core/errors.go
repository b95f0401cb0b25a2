package core

import "fmt"

// NotFoundError is returned when no connection record exists for an ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("connection %q not found", e.ID)
}

// UnsupportedEngineError is returned when an engine type has no driver
// binding registered.
type UnsupportedEngineError struct {
	Type      EngineType
	Supported []EngineType
}

func (e *UnsupportedEngineError) Error() string {
	return fmt.Sprintf("engine type %q has no driver binding (supported: %v)", e.Type, e.Supported)
}

// ConnectionTestError is returned when a reachability probe fails anywhere
// in the build-probe-teardown sequence. It wraps the underlying cause and
// never includes credentials in its message.
type ConnectionTestError struct {
	Type EngineType
	Err  error
}

func (e *ConnectionTestError) Error() string {
	return fmt.Sprintf("connection test failed for %s: %v", e.Type, e.Err)
}

func (e *ConnectionTestError) Unwrap() error { return e.Err }

// ValidationError is returned when a read-only demo connection rejects a
// write, schema-mutation, or privileged statement. Message is user-facing.
type ValidationError struct {
	Operation string
	Group     string
	Message   string
}

func (e *ValidationError) Error() string { return e.Message }

// ExecutionError is returned when a statement reached the engine and failed
// there (syntax error, missing object, permission denied). It wraps the
// driver error.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
