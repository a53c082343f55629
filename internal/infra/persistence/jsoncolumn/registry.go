package jsoncolumn

import (
	"strings"
	"sync"

	"gorm.io/gorm/schema"
)

// Comparer is the type-erased value comparer a change tracker uses for a configured field.
type Comparer interface {
	// Equal reports whether two field values are equivalent.
	Equal(left, right any) bool
	// HashCode returns a hash consistent with Equal.
	HashCode(value any) uint64
	// SnapshotOf returns a detached copy of a field value.
	SnapshotOf(value any) any
}

var comparers sync.Map

// Configure builds an Adapter for T and registers it under name: as a gorm serializer, so
// fields tagged `serializer:<name>` convert through it, and as the comparer returned by
// ComparerFor(name). Configuring the same name again replaces both registrations.
func Configure[T any](name string, opts ...Option[T]) *Adapter[T] {
	a := New(opts...)
	if a.column == "" {
		a.column = name
	}

	schema.RegisterSerializer(name, NewSerializer(a))
	comparers.Store(strings.ToLower(name), typedComparer[T]{adapter: a})

	return a
}

// ComparerFor returns the comparer registered by Configure for a serializer name.
// Names are case-insensitive, as they are for gorm.
func ComparerFor(name string) (Comparer, bool) {
	if name == "" {
		return nil, false
	}

	v, ok := comparers.Load(strings.ToLower(name))
	if !ok {
		return nil, false
	}

	c, ok := v.(Comparer)

	return c, ok
}

type typedComparer[T any] struct {
	adapter *Adapter[T]
}

func (c typedComparer[T]) Equal(left, right any) bool {
	l, lok := c.cast(left)
	r, rok := c.cast(right)
	if !lok || !rok {
		return false
	}

	return c.adapter.AreEqual(l, r)
}

func (c typedComparer[T]) HashCode(value any) uint64 {
	v, ok := c.cast(value)
	if !ok {
		return 0
	}

	return c.adapter.Hash(v)
}

func (c typedComparer[T]) SnapshotOf(value any) any {
	v, ok := c.cast(value)
	if !ok {
		return value
	}

	return c.adapter.Snapshot(v)
}

func (c typedComparer[T]) cast(value any) (T, bool) {
	if value == nil {
		var zero T
		return zero, true
	}

	v, ok := value.(T)

	return v, ok
}
