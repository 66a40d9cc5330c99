package common

import "fmt"

// DuplicateNameError reports an attempt to bind a name that is already
// bound. The previously bound instrument stays untouched.
type DuplicateNameError struct {
	Name Name
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("an instrument named %s already exists", e.Name)
}

// WrongKindError reports a kind-specific lookup of a name that is bound to
// an instrument of a different kind. Nothing is mutated.
type WrongKindError struct {
	Name Name
	Kind Kind
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("%s is already used for a different kind of instrument than %s", e.Name, e.Kind)
}

// UnknownKindError is the value carried by the panic raised when an
// instrument outside the closed kind set reaches listener dispatch. It marks
// a construction-time contract breach elsewhere, not a recoverable
// condition.
type UnknownKindError struct {
	Name Name
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown instrument kind %d for %s", int(e.Kind), e.Name)
}
