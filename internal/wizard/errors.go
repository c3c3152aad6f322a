package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel values for errors.Is checks. The concrete error types below
// carry the details; these exist so callers can branch on the kind
// without unpacking.
var (
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrUnknownEntity     = errors.New("unknown entity")
	ErrUnknownAction     = errors.New("unknown action")
	ErrValidationFailed  = errors.New("validation failed")
)

// DuplicateIdentityError reports an id or (name, type) collision on
// chain create/update.
type DuplicateIdentityError struct {
	Field     string // "id" or "name"
	Value     string
	ChainType string // set when Field == "name"
}

func (e *DuplicateIdentityError) Error() string {
	if e.Field == "name" {
		return fmt.Sprintf("duplicate identity: chain name %q already used for type %q", e.Value, e.ChainType)
	}
	return fmt.Sprintf("duplicate identity: chain id %q already exists", e.Value)
}

func (e *DuplicateIdentityError) Is(target error) bool { return target == ErrDuplicateIdentity }

// UnknownEntityError reports a reference to an entity id that is not
// in the store.
type UnknownEntityError struct {
	Entity string // "chain"
	ID     string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Entity, e.ID)
}

func (e *UnknownEntityError) Is(target error) bool { return target == ErrUnknownEntity }

// UnknownActionError reports an action kind outside the closed
// vocabulary reaching the reducer. Typos are loud, never ignored.
type UnknownActionError struct {
	Kind string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action kind %q", e.Kind)
}

func (e *UnknownActionError) Is(target error) bool { return target == ErrUnknownAction }

// ValidationError carries step-local field errors. Non-fatal and
// recoverable: the user corrects the fields and resubmits.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }
