package models

import "time"

// Record is the capability interface every audited entity implements.
// The audit diff engine is generic over this interface: it never
// reflects over struct fields, it consults the entity's declared column
// list and coerced values.
type Record interface {
	TableName() string
	PrimaryKeyColumn() string
	PrimaryKeyValue() string
	// Paranoid reports whether destroy means setting deleted_at rather
	// than removing the row.
	Paranoid() bool
	// AuditColumns lists the audited attributes in stable order. The
	// primary key, timestamps, deleted_at and credential material are
	// not included.
	AuditColumns() []string
	// AuditValue returns the coerced current value of one column.
	AuditValue(column string) Value

	setLoaded(Snapshot)
	loadedSnapshot() Snapshot
}

// SoftDeletable is implemented by paranoid records.
type SoftDeletable interface {
	Record
	MarkDeleted(t time.Time)
	DeletedValue() Value
}

// Snapshot holds the last-persisted value of every audited column plus
// deleted_at, keyed by column name.
type Snapshot map[string]Value

// base carries the loaded snapshot; every entity embeds it.
type base struct {
	loaded Snapshot
}

func (b *base) setLoaded(s Snapshot)     { b.loaded = s }
func (b *base) loadedSnapshot() Snapshot { return b.loaded }

// TakeSnapshot captures the current value of every audited column.
func TakeSnapshot(r Record) Snapshot {
	columns := r.AuditColumns()
	s := make(Snapshot, len(columns)+1)
	for _, column := range columns {
		s[column] = r.AuditValue(column)
	}
	if sd, ok := r.(SoftDeletable); ok {
		s["deleted_at"] = sd.DeletedValue()
	}
	return s
}

// MarkLoaded records the entity's current state as its last-persisted
// state. Repositories call this after scanning a row and after writing
// one.
func MarkLoaded(r Record) {
	r.setLoaded(TakeSnapshot(r))
}

// IsLoaded reports whether the entity has a last-persisted state to
// diff against.
func IsLoaded(r Record) bool {
	return r.loadedSnapshot() != nil
}

// LoadedValue returns the last-persisted value of one column, NULL when
// the entity was never loaded.
func LoadedValue(r Record, column string) Value {
	s := r.loadedSnapshot()
	if s == nil {
		return NullValue()
	}
	return s[column]
}

// ChangedColumns returns the audited columns whose current value
// differs from the last-persisted value. A column set and reverted
// before persisting reports no change.
func ChangedColumns(r Record) []string {
	var changed []string
	for _, column := range r.AuditColumns() {
		if !r.AuditValue(column).Equal(LoadedValue(r, column)) {
			changed = append(changed, column)
		}
	}
	return changed
}
