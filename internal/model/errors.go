package model

import (
	"errors"
	"fmt"
)

// ErrNoInput is the single fatal precondition: a scan was asked to run with
// no configuration files at all.
var ErrNoInput = errors.New("no configuration files supplied")

// DuplicateDeclarationError records a second declaration of an identity that
// already exists within its kind. Non-fatal: the first declaration wins and
// the build continues.
type DuplicateDeclarationError struct {
	Addr     Address
	First    Location
	Shadowed Location
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("duplicate declaration of %s at %s:%d (first declared at %s:%d)",
		e.Addr, e.Shadowed.File, e.Shadowed.Line, e.First.File, e.First.Line)
}

// MalformedBlockError records a block the parser could not fully trust. The
// builder emits a placeholder node in its stead so downstream stages still
// run.
type MalformedBlockError struct {
	Location Location
	Detail   string
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed block at %s:%d: %s", e.Location.File, e.Location.Line, e.Detail)
}

// ResolutionFailure records a well-formed reference that matched no declared
// object. The resolver never aborts on these; they surface later as
// references-category issues.
type ResolutionFailure struct {
	Owner    Address
	Symbol   string
	Location Location
	// Suggestion names the closest declared identity, when one is close
	// enough to be plausible.
	Suggestion string
}

func (f *ResolutionFailure) Error() string {
	return fmt.Sprintf("%s references undeclared object %q", f.Owner, f.Symbol)
}
