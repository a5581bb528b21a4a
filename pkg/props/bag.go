// Package props implements the typed, nested property containers attached to
// graph nodes. A Bag holds scalar Properties and nested child Bags, looked up
// by name; names are unique within one bag.
package props

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrDuplicateProperty = errors.New("property already exists")
	ErrUnknownProperty   = errors.New("property not found")
	ErrTypeMismatch      = errors.New("value type mismatch")
	ErrInvalidChoice     = errors.New("value not among declared choices")
)

// Entry is either a scalar *Property or a nested *Bag.
type Entry interface {
	EntryName() string
}

// Property is a scalar typed value with a declared default and an optional
// enumerated choice list.
type Property struct {
	name    string
	typ     ValueType
	def     any
	choices []any
	value   any
}

// NewProperty creates a scalar property. The default must match the declared
// type; it becomes the initial value.
func NewProperty(name string, typ ValueType, def any, choices ...any) (*Property, error) {
	norm, err := Normalize(typ, def)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w: %v", name, ErrTypeMismatch, err)
	}
	p := &Property{name: name, typ: typ, def: norm, value: norm}
	for _, c := range choices {
		nc, err := Normalize(typ, c)
		if err != nil {
			return nil, fmt.Errorf("property %q choice: %w: %v", name, ErrTypeMismatch, err)
		}
		p.choices = append(p.choices, nc)
	}
	if len(p.choices) > 0 && !containsValue(p.choices, norm) {
		return nil, fmt.Errorf("property %q default: %w", name, ErrInvalidChoice)
	}
	return p, nil
}

// MustProperty is NewProperty for statically-known definitions, typically
// inside node type constructors.
func MustProperty(name string, typ ValueType, def any, choices ...any) *Property {
	p, err := NewProperty(name, typ, def, choices...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Property) EntryName() string { return p.name }

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Type returns the declared value type.
func (p *Property) Type() ValueType { return p.typ }

// Default returns the declared default value.
func (p *Property) Default() any { return p.def }

// Choices returns the enumerated choice list, or nil.
func (p *Property) Choices() []any {
	if p.choices == nil {
		return nil
	}
	out := make([]any, len(p.choices))
	copy(out, p.choices)
	return out
}

// Value returns the current value.
func (p *Property) Value() any { return p.value }

// Set replaces the current value. The value must match the declared type and,
// when a choice list is declared, be one of the choices.
func (p *Property) Set(v any) error {
	norm, err := Normalize(p.typ, v)
	if err != nil {
		return fmt.Errorf("property %q: %w: %v", p.name, ErrTypeMismatch, err)
	}
	if len(p.choices) > 0 && !containsValue(p.choices, norm) {
		return fmt.Errorf("property %q: %w: %v", p.name, ErrInvalidChoice, norm)
	}
	p.value = norm
	return nil
}

func containsValue(values []any, v any) bool {
	for _, c := range values {
		if c == v {
			return true
		}
	}
	return false
}

// Bag is a named container of properties and nested bags. Insertion order is
// preserved for deterministic serialization.
type Bag struct {
	name    string
	entries map[string]Entry
	order   []string
}

// NewBag creates an empty bag.
func NewBag(name string) *Bag {
	return &Bag{name: name, entries: make(map[string]Entry)}
}

func (b *Bag) EntryName() string { return b.name }

// Name returns the bag name.
func (b *Bag) Name() string { return b.name }

// Len returns the number of direct entries.
func (b *Bag) Len() int { return len(b.entries) }

// Add inserts a property or nested bag. The name must not already exist in
// this bag.
func (b *Bag) Add(e Entry) error {
	name := e.EntryName()
	if _, exists := b.entries[name]; exists {
		return fmt.Errorf("bag %q: %w: %s", b.name, ErrDuplicateProperty, name)
	}
	b.entries[name] = e
	b.order = append(b.order, name)
	return nil
}

// Get returns the entry with the given name.
func (b *Bag) Get(name string) (Entry, error) {
	e, exists := b.entries[name]
	if !exists {
		return nil, fmt.Errorf("bag %q: %w: %s", b.name, ErrUnknownProperty, name)
	}
	return e, nil
}

// Property returns the scalar property with the given name.
func (b *Bag) Property(name string) (*Property, error) {
	e, err := b.Get(name)
	if err != nil {
		return nil, err
	}
	p, ok := e.(*Property)
	if !ok {
		return nil, fmt.Errorf("bag %q: %w: %s is a group", b.name, ErrUnknownProperty, name)
	}
	return p, nil
}

// Group returns the nested bag with the given name.
func (b *Bag) Group(name string) (*Bag, error) {
	e, err := b.Get(name)
	if err != nil {
		return nil, err
	}
	g, ok := e.(*Bag)
	if !ok {
		return nil, fmt.Errorf("bag %q: %w: %s is a scalar", b.name, ErrUnknownProperty, name)
	}
	return g, nil
}

// Set assigns a value to the scalar property with the given name.
func (b *Bag) Set(name string, v any) error {
	p, err := b.Property(name)
	if err != nil {
		return err
	}
	return p.Set(v)
}

// Entries returns the direct entries in insertion order.
func (b *Bag) Entries() []Entry {
	out := make([]Entry, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.entries[name])
	}
	return out
}
