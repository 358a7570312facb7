package resources

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnknownType
	KindPreconditionFailure
	KindDeleteCallFailure
	KindTransientAPIError
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnknownType:
		return "unknown resource type"
	case KindPreconditionFailure:
		return "precondition failed"
	case KindDeleteCallFailure:
		return "delete call failed"
	case KindTransientAPIError:
		return "transient api error"
	case KindCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// DeletionError ties a failure cause to the resource it happened on.
type DeletionError struct {
	Kind ErrorKind
	Type ResourceType
	Id   ResourceId
	Err  error
}

func (e *DeletionError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *DeletionError) Unwrap() error {
	return e.Err
}

func NewDeletionError(kind ErrorKind, identifier Identifier, err error) *DeletionError {
	return &DeletionError{
		Kind: kind,
		Type: identifier.Type,
		Id:   identifier.Id,
		Err:  err,
	}
}

func UnknownTypeError(identifier Identifier) *DeletionError {
	return NewDeletionError(KindUnknownType, identifier, fmt.Errorf("no handler registered for %q", identifier.Type))
}

// KindOf returns the kind of the outermost DeletionError in err's chain.
func KindOf(err error) ErrorKind {
	var deletionError *DeletionError
	if errors.As(err, &deletionError) {
		return deletionError.Kind
	}
	if err == nil {
		return KindNone
	}
	return KindDeleteCallFailure
}
