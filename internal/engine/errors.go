package engine

import "fmt"

// DomainError reports a numeric argument outside the valid domain of a
// transform. It always indicates an upstream data bug and is never
// recovered silently.
type DomainError struct {
	Op    string
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %g outside valid domain", e.Op, e.Value)
}

// NewDomainError creates a new domain error
func NewDomainError(op string, value float64) *DomainError {
	return &DomainError{Op: op, Value: value}
}
