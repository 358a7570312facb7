package resources

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFailed_AlwaysCarriesError(t *testing.T) {
	identifier := Identifier{Type: TypeEc2, Id: "i-1"}

	outcome := Failed(identifier, nil)
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.NotEmpty(t, outcome.Error)
	assert.False(t, outcome.Succeeded())

	outcome = Failed(identifier, NewDeletionError(KindPreconditionFailure, identifier, fmt.Errorf("still attached")))
	assert.Equal(t, KindPreconditionFailure, outcome.Kind)
	assert.Equal(t, "precondition failed: still attached", outcome.Error)
}

func TestDeleted(t *testing.T) {
	outcome := Deleted(Identifier{Type: TypeSqs, Id: "q1"})
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, "q1", outcome.Resource)
	assert.Equal(t, TypeSqs, outcome.Type)
	assert.Empty(t, outcome.Error)
}

func TestKindOf(t *testing.T) {
	identifier := Identifier{Type: TypeS3, Id: "b"}
	cause := fmt.Errorf("boom")

	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindDeleteCallFailure, KindOf(cause))
	assert.Equal(t, KindUnknownType, KindOf(UnknownTypeError(identifier)))

	wrapped := errors.Wrap(NewDeletionError(KindTransientAPIError, identifier, cause), "context")
	assert.Equal(t, KindTransientAPIError, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, cause))
}
