package resources

type Status string

const (
	StatusDeleted Status = "deleted"
	StatusFailed  Status = "failed"
)

// Outcome records the result of one attempted (type, id) pair. Error is set
// iff Status is StatusFailed.
type Outcome struct {
	Resource string       `json:"resource"`
	Type     ResourceType `json:"type"`
	Status   Status       `json:"status"`
	Error    string       `json:"error,omitempty"`
	Kind     ErrorKind    `json:"-"`
}

func Deleted(identifier Identifier) Outcome {
	return Outcome{
		Resource: identifier.DisplayName(),
		Type:     identifier.Type,
		Status:   StatusDeleted,
	}
}

func Failed(identifier Identifier, err error) Outcome {
	outcome := Outcome{
		Resource: identifier.DisplayName(),
		Type:     identifier.Type,
		Status:   StatusFailed,
		Kind:     KindOf(err),
	}
	if err != nil {
		outcome.Error = err.Error()
	}
	if outcome.Error == "" {
		outcome.Error = outcome.Kind.String()
	}
	return outcome
}

func (o Outcome) Succeeded() bool {
	return o.Status == StatusDeleted
}
