package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a business outcome so callers (and the HTTP layer) can
// react without parsing messages.
type Kind int

const (
	Internal Kind = iota
	NotFound
	InvalidArgument
	InvalidTransition
	InsufficientStock
	NoSpace
	NoEligibleSupplier
	PickerBusy
	ListNotAvailable
	NotReady
	AlreadyDecided
	AlreadyLabeled
	AlreadyHandedOver
	AlreadyFulfilled
	PickingIncomplete
	RequisitionNotApproved
	PackageNotVerified
	NoPackagesReady
)

var kindNames = map[Kind]string{
	Internal:               "INTERNAL",
	NotFound:               "NOT_FOUND",
	InvalidArgument:        "INVALID_ARGUMENT",
	InvalidTransition:      "INVALID_TRANSITION",
	InsufficientStock:      "INSUFFICIENT_STOCK",
	NoSpace:                "NO_SPACE",
	NoEligibleSupplier:     "NO_ELIGIBLE_SUPPLIER",
	PickerBusy:             "PICKER_BUSY",
	ListNotAvailable:       "LIST_NOT_AVAILABLE",
	NotReady:               "NOT_READY",
	AlreadyDecided:         "ALREADY_DECIDED",
	AlreadyLabeled:         "ALREADY_LABELED",
	AlreadyHandedOver:      "ALREADY_HANDED_OVER",
	AlreadyFulfilled:       "ALREADY_FULFILLED",
	PickingIncomplete:      "PICKING_INCOMPLETE",
	RequisitionNotApproved: "REQUISITION_NOT_APPROVED",
	PackageNotVerified:     "PACKAGE_NOT_VERIFIED",
	NoPackagesReady:        "NO_PACKAGES_READY",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Error is a domain failure. Entity and ID name the aggregate involved; State
// holds its current state when the failure is about a lifecycle step.
type Error struct {
	Kind    Kind
	Entity  string
	ID      string
	State   string
	Message string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Entity != "" {
		msg += ": " + e.Entity
		if e.ID != "" {
			msg += " " + e.ID
		}
	}
	if e.State != "" {
		msg += " (state " + e.State + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is lets errors.Is match on kind alone: errors.Is(err, &Error{Kind: NotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, entity, id, format string, args ...any) *Error {
	return &Error{Kind: kind, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(entity, id string) *Error {
	return &Error{Kind: NotFound, Entity: entity, ID: id, Message: "not found"}
}

func NewInvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NewTransition reports a rejected state change, carrying the current and requested state.
func NewTransition(entity, id, from, to string) *Error {
	return &Error{
		Kind:    InvalidTransition,
		Entity:  entity,
		ID:      id,
		State:   from,
		Message: fmt.Sprintf("cannot move from %s to %s", from, to),
	}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
