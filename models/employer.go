package models

import "time"

// Employer is an income source owned by a household.
type Employer struct {
	base

	UUID          string
	HouseholdUUID string
	Name          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func (e *Employer) TableName() string        { return "employers" }
func (e *Employer) PrimaryKeyColumn() string { return "uuid" }
func (e *Employer) PrimaryKeyValue() string  { return e.UUID }
func (e *Employer) Paranoid() bool           { return true }

func (e *Employer) AuditColumns() []string {
	return []string{"household_uuid", "name"}
}

func (e *Employer) AuditValue(column string) Value {
	switch column {
	case "household_uuid":
		return StringValue(e.HouseholdUUID)
	case "name":
		return StringValue(e.Name)
	}
	return NullValue()
}

func (e *Employer) MarkDeleted(t time.Time) { e.DeletedAt = &t }
func (e *Employer) DeletedValue() Value     { return NullableTimeValue(e.DeletedAt) }
