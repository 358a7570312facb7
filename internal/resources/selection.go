package resources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"io"
)

// Group is the ordered list of ids selected for a single resource type.
type Group struct {
	Type ResourceType
	Ids  []ResourceId
}

// SelectionSet keeps type groups in the order the caller supplied them.
// Ids inside a group keep submission order and may repeat.
type SelectionSet struct {
	groups []Group
	index  map[ResourceType]int
}

func NewSelectionSet() SelectionSet {
	return SelectionSet{index: map[ResourceType]int{}}
}

// Add appends ids to the group of resourceType, creating the group at the end
// of the set when it is seen for the first time.
func (s *SelectionSet) Add(resourceType ResourceType, ids ...ResourceId) {
	if s.index == nil {
		s.index = map[ResourceType]int{}
	}
	i, ok := s.index[resourceType]
	if !ok {
		s.groups = append(s.groups, Group{Type: resourceType})
		i = len(s.groups) - 1
		s.index[resourceType] = i
	}
	s.groups[i].Ids = append(s.groups[i].Ids, ids...)
}

func (s *SelectionSet) AddStrings(resourceType ResourceType, ids ...string) {
	converted := make([]ResourceId, 0, len(ids))
	for _, id := range ids {
		converted = append(converted, ResourceId(id))
	}
	s.Add(resourceType, converted...)
}

func (s SelectionSet) Groups() []Group {
	return s.groups
}

func (s SelectionSet) Ids(resourceType ResourceType) []ResourceId {
	i, ok := s.index[resourceType]
	if !ok {
		return nil
	}
	return s.groups[i].Ids
}

// Len is the number of (type, id) pairs in the set.
func (s SelectionSet) Len() int {
	total := 0
	for _, g := range s.groups {
		total += len(g.Ids)
	}
	return total
}

func (s SelectionSet) Identifiers() (identifiers []Identifier) {
	for _, g := range s.groups {
		for _, id := range g.Ids {
			identifiers = append(identifiers, Identifier{Type: g.Type, Id: id})
		}
	}
	return
}

func (s SelectionSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range s.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(g.Type))
		if err != nil {
			return nil, err
		}
		ids := g.Ids
		if ids == nil {
			ids = []ResourceId{}
		}
		value, err := json.Marshal(ids)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a {"<type>": ["<id>", ...]} object token by token so
// that the caller's key order survives decoding.
func (s *SelectionSet) UnmarshalJSON(data []byte) error {
	*s = NewSelectionSet()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "reading selections")
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("selections must be an object, got %v", tok)
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return errors.Wrap(err, "reading selection type")
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected selection key %v", tok)
		}

		var ids []string
		if err := dec.Decode(&ids); err != nil {
			return errors.Wrapf(err, "selection %q must be a list of ids", key)
		}
		s.AddStrings(ResourceType(key), ids...)
	}

	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "reading selections")
	}
	return nil
}

// Request is the inbound deletion payload.
type Request struct {
	Profile    string       `json:"profile,omitempty"`
	Region     string       `json:"region,omitempty"`
	Selections SelectionSet `json:"selections"`
}

var ErrMalformedRequest = errors.New("malformed selection request")

func ParseRequest(r io.Reader) (req Request, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return req, errors.Wrap(err, "reading request")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return req, errors.Wrap(ErrMalformedRequest, "empty payload")
	}
	if err = json.Unmarshal(data, &req); err != nil {
		return req, errors.Wrapf(ErrMalformedRequest, "%v", err)
	}
	return req, nil
}
