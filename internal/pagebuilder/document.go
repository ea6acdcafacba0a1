package pagebuilder

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrUnknownType      = errors.New("unknown component type")
	ErrMissingID        = errors.New("component id is required")
	ErrDuplicateID      = errors.New("duplicate component id")
	ErrNotFound         = errors.New("component not found")
	ErrIndexOutOfRange  = errors.New("component index out of range")
	ErrTypeMismatch     = errors.New("data does not match component type")
	ErrInvalidPatchBody = errors.New("patch must be a JSON object")
)

// Document is the ordered component list of one page.
type Document struct {
	components []Component
	newID      func() string
}

// New returns an empty document.
func New() *Document {
	return &Document{newID: NewComponentID}
}

// FromComponents builds a document from a stored list, keeping list
// position as the authority and re-deriving every order value.
func FromComponents(components []Component) (*Document, error) {
	seen := make(map[string]struct{}, len(components))
	for _, c := range components {
		if c.ID == "" {
			return nil, ErrMissingID
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.Data == nil || c.Data.Type() != c.Type {
			return nil, fmt.Errorf("%w: %s", ErrTypeMismatch, c.ID)
		}
	}
	d := New()
	d.components = append([]Component(nil), components...)
	d.Normalize()
	return d, nil
}

// NewComponentID returns a fresh component identifier.
func NewComponentID() string {
	return "component-" + uuid.NewString()
}

// Len returns the number of components.
func (d *Document) Len() int {
	return len(d.components)
}

// Components returns the components in list order.
func (d *Document) Components() []Component {
	return append([]Component(nil), d.components...)
}

// Sorted returns the components ordered by their order field. Gaps and
// duplicates are tolerated; ties keep list order.
func (d *Document) Sorted() []Component {
	out := d.Components()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Normalize sets every order value to the component's list position.
func (d *Document) Normalize() {
	for i := range d.components {
		d.components[i].Order = i
	}
}

// Find returns the component with the given id.
func (d *Document) Find(id string) (Component, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return Component{}, false
	}
	return d.components[i], true
}

func (d *Document) indexOf(id string) int {
	for i, c := range d.components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a component of type t populated with default data.
func (d *Document) Add(t Type) (Component, error) {
	data, err := DefaultData(t)
	if err != nil {
		return Component{}, err
	}
	c := Component{ID: d.newID(), Type: t, Order: len(d.components), Data: data}
	d.components = append(d.components, c)
	return c, nil
}

// Move removes the component at from and reinserts it at to, then
// renumbers every component from its position.
func (d *Document) Move(from, to int) error {
	n := len(d.components)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d with %d components", ErrIndexOutOfRange, from, to, n)
	}
	moved := d.components[from]
	rest := append(append([]Component(nil), d.components[:from]...), d.components[from+1:]...)
	d.components = append(rest[:to], append([]Component{moved}, rest[to:]...)...)
	d.Normalize()
	return nil
}

// Update replaces the data of the component with the given id. ID, type and
// order are preserved.
func (d *Document) Update(id string, data Data) (Component, error) {
	i := d.indexOf(id)
	if i < 0 {
		return Component{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if data == nil || data.Type() != d.components[i].Type {
		return Component{}, fmt.Errorf("%w: %s", ErrTypeMismatch, id)
	}
	d.components[i].Data = data
	return d.components[i], nil
}

// Patch merges the top-level fields of patch onto the current data of the
// component. Fields absent from patch keep their value.
func (d *Document) Patch(id string, patch json.RawMessage) (Component, error) {
	i := d.indexOf(id)
	if i < 0 {
		return Component{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil || changes == nil {
		return Component{}, ErrInvalidPatchBody
	}

	current, err := json.Marshal(d.components[i].Data)
	if err != nil {
		return Component{}, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return Component{}, err
	}
	for k, v := range changes {
		merged[k] = v
	}
	b, err := json.Marshal(merged)
	if err != nil {
		return Component{}, err
	}
	data, err := DecodeData(d.components[i].Type, b)
	if err != nil {
		return Component{}, err
	}
	d.components[i].Data = data
	return d.components[i], nil
}

// Delete removes the component with the given id. Remaining order values are
// left untouched, so they may have gaps until the next Move or Normalize.
func (d *Document) Delete(id string) error {
	i := d.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.components = append(d.components[:i:i], d.components[i+1:]...)
	return nil
}

// Duplicate appends a deep copy of the component with the given id under a
// fresh id.
func (d *Document) Duplicate(id string) (Component, error) {
	src, ok := d.Find(id)
	if !ok {
		return Component{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := cloneData(src.Data)
	if err != nil {
		return Component{}, err
	}
	c := Component{ID: d.newID(), Type: src.Type, Order: len(d.components), Data: data}
	d.components = append(d.components, c)
	return c, nil
}

// MarshalJSON writes the component list in list order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d.components == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.components)
}

// Decode parses a stored component list.
func Decode(b []byte) (*Document, error) {
	var components []Component
	if len(b) > 0 {
		if err := json.Unmarshal(b, &components); err != nil {
			return nil, err
		}
	}
	return FromComponents(components)
}
