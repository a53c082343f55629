// Package tracker keeps the original values of loaded gorm models so a unit of work can tell
// which columns changed before it saves.
//
// gorm itself writes whatever it is given. The tracker adds the missing half: each attached
// model is snapshotted, and DetectChanges compares the live model with the snapshot column by
// column. Columns whose serializer was set up with jsoncolumn.Configure are compared and
// snapshotted through the registered comparer, which is what makes in-place mutation of a
// JSON-backed collection visible. Other columns are compared with go-cmp.
//
// A Tracker is not safe for concurrent use.
package tracker

import (
	"context"
	"reflect"
	"sync"

	"personjson/internal/errors"
	"personjson/internal/infra/persistence/jsoncolumn"

	"github.com/google/go-cmp/cmp"
	"github.com/mitchellh/copystructure"
	"gorm.io/gorm/schema"
)

// State is the persistence state of a tracked model.
type State int

const (
	// Unchanged models match their snapshot.
	Unchanged State = iota
	// Added models have not been inserted yet.
	Added
	// Modified models differ from their snapshot in at least one column.
	Modified
	// Deleted models are scheduled for removal.
	Deleted
)

func (s State) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// column is a trackable field of the model schema.
type column struct {
	field    *schema.Field
	comparer jsoncolumn.Comparer
}

// Tracker tracks models of type M.
type Tracker[M any] struct {
	columns []column
	entries []*Entry[M]
	index   map[*M]*Entry[M]
}

// New parses the gorm schema of M with namer and prepares a tracker for it.
func New[M any](namer schema.Namer) (*Tracker[M], error) {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}

	s, err := schema.Parse(new(M), &sync.Map{}, namer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse model schema")
	}

	t := &Tracker[M]{
		index: make(map[*M]*Entry[M]),
	}

	for _, field := range s.Fields {
		if field.DBName == "" || field.PrimaryKey {
			continue
		}

		c := column{field: field}
		if cmpr, ok := jsoncolumn.ComparerFor(serializerName(field)); ok {
			c.comparer = cmpr
		}
		t.columns = append(t.columns, c)
	}

	return t, nil
}

// Attach tracks a model loaded from the database as Unchanged and snapshots it.
// Attaching an already tracked model returns its existing entry.
func (t *Tracker[M]) Attach(model *M) *Entry[M] {
	if e, ok := t.index[model]; ok {
		return e
	}

	e := &Entry[M]{tracker: t, model: model, state: Unchanged}
	e.snapshot()
	t.track(e)

	return e
}

// Add tracks a new model as Added.
func (t *Tracker[M]) Add(model *M) *Entry[M] {
	if e, ok := t.index[model]; ok {
		return e
	}

	e := &Entry[M]{tracker: t, model: model, state: Added}
	t.track(e)

	return e
}

// Remove schedules a model for deletion. A model that was added but never saved is
// simply forgotten.
func (t *Tracker[M]) Remove(model *M) {
	e, ok := t.index[model]
	if !ok {
		e = &Entry[M]{tracker: t, model: model}
		t.track(e)
	}

	if e.state == Added {
		t.forget(e)
		return
	}

	e.state = Deleted
}

// Lookup returns the entry of a tracked model.
func (t *Tracker[M]) Lookup(model *M) (*Entry[M], bool) {
	e, ok := t.index[model]
	return e, ok
}

// Entries returns the tracked entries in tracking order.
func (t *Tracker[M]) Entries() []*Entry[M] {
	entries := make([]*Entry[M], len(t.entries))
	copy(entries, t.entries)

	return entries
}

// AcceptChanges records a successful save: deleted entries are dropped, all others become
// Unchanged with a fresh snapshot.
func (t *Tracker[M]) AcceptChanges(e *Entry[M]) {
	if e.state == Deleted {
		t.forget(e)
		return
	}

	e.state = Unchanged
	e.snapshot()
}

// Clear stops tracking every model.
func (t *Tracker[M]) Clear() {
	t.entries = nil
	t.index = make(map[*M]*Entry[M])
}

func (t *Tracker[M]) track(e *Entry[M]) {
	t.entries = append(t.entries, e)
	t.index[e.model] = e
}

func (t *Tracker[M]) forget(e *Entry[M]) {
	delete(t.index, e.model)
	for i, candidate := range t.entries {
		if candidate == e {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
}

func serializerName(field *schema.Field) string {
	if name := field.TagSettings["SERIALIZER"]; name != "" {
		return name
	}

	return field.TagSettings["JSON"]
}

func (c column) valueOf(model any) any {
	return c.field.ReflectValueOf(context.Background(), reflect.ValueOf(model)).Interface()
}

func (c column) snapshot(value any) any {
	if c.comparer != nil {
		return c.comparer.SnapshotOf(value)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return value
		}
		if copied, err := copystructure.Copy(value); err == nil {
			return copied
		}
	}

	return value
}

func (c column) equal(original, current any) bool {
	if c.comparer != nil {
		return c.comparer.Equal(original, current)
	}

	return cmp.Equal(original, current, cmp.Exporter(func(reflect.Type) bool { return true }))
}
