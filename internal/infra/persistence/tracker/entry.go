package tracker

// Entry is the tracking record of one model.
type Entry[M any] struct {
	tracker  *Tracker[M]
	model    *M
	state    State
	original map[string]any
}

// Model returns the tracked model.
func (e *Entry[M]) Model() *M {
	return e.model
}

// State returns the state computed by the last DetectChanges call, or the state the entry was
// tracked with.
func (e *Entry[M]) State() State {
	return e.state
}

// DetectChanges compares the model with its snapshot and returns the DB names of the columns
// that differ. Added and Deleted entries report no columns. Unchanged and Modified entries
// switch state according to the result.
func (e *Entry[M]) DetectChanges() []string {
	if e.state == Added || e.state == Deleted {
		return nil
	}

	var changed []string
	for _, c := range e.tracker.columns {
		if !c.equal(e.original[c.field.DBName], c.valueOf(e.model)) {
			changed = append(changed, c.field.DBName)
		}
	}

	if len(changed) > 0 {
		e.state = Modified
	} else {
		e.state = Unchanged
	}

	return changed
}

// OriginalValue returns the snapshotted value of a column.
func (e *Entry[M]) OriginalValue(dbName string) (any, bool) {
	v, ok := e.original[dbName]
	return v, ok
}

func (e *Entry[M]) snapshot() {
	e.original = make(map[string]any, len(e.tracker.columns))
	for _, c := range e.tracker.columns {
		e.original[c.field.DBName] = c.snapshot(c.valueOf(e.model))
	}
}
