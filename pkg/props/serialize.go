package props

import "fmt"

// EntryPayload is the wire form of a bag entry. A payload with a non-nil
// Properties list is a group; otherwise it is a scalar.
type EntryPayload struct {
	Name       string          `json:"name" yaml:"name"`
	Type       string          `json:"type,omitempty" yaml:"type,omitempty"`
	Default    any             `json:"default" yaml:"default"`
	Choices    []any           `json:"choices,omitempty" yaml:"choices,omitempty"`
	Value      any             `json:"value" yaml:"value"`
	Properties []*EntryPayload `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Serialize converts the bag to its wire form.
func (b *Bag) Serialize() *EntryPayload {
	payload := &EntryPayload{
		Name:       b.name,
		Properties: make([]*EntryPayload, 0, len(b.order)),
	}
	for _, e := range b.Entries() {
		switch entry := e.(type) {
		case *Property:
			payload.Properties = append(payload.Properties, &EntryPayload{
				Name:    entry.name,
				Type:    entry.typ.String(),
				Default: entry.def,
				Choices: entry.choices,
				Value:   entry.value,
			})
		case *Bag:
			payload.Properties = append(payload.Properties, entry.Serialize())
		}
	}
	return payload
}

// Deserialize rebuilds a bag from its wire form, recursing into groups.
func Deserialize(payload *EntryPayload) (*Bag, error) {
	if payload == nil {
		return nil, fmt.Errorf("nil property payload")
	}
	bag := NewBag(payload.Name)
	for _, child := range payload.Properties {
		var (
			entry Entry
			err   error
		)
		// Scalars always carry a type name; a payload without one is a
		// group, even when its property list was omitted as empty.
		if child.Properties != nil || child.Type == "" {
			entry, err = Deserialize(child)
		} else {
			entry, err = deserializeScalar(child)
		}
		if err != nil {
			return nil, err
		}
		if err := bag.Add(entry); err != nil {
			return nil, err
		}
	}
	return bag, nil
}

func deserializeScalar(payload *EntryPayload) (*Property, error) {
	typ, err := ParseValueType(payload.Type)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", payload.Name, err)
	}
	prop, err := NewProperty(payload.Name, typ, payload.Default, payload.Choices...)
	if err != nil {
		return nil, err
	}
	if payload.Value != nil {
		if err := prop.Set(payload.Value); err != nil {
			return nil, err
		}
	}
	return prop, nil
}
