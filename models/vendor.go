package models

import "time"

// Vendor is a payee owned by a household.
type Vendor struct {
	base

	UUID          string
	HouseholdUUID string
	Name          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func (v *Vendor) TableName() string        { return "vendors" }
func (v *Vendor) PrimaryKeyColumn() string { return "uuid" }
func (v *Vendor) PrimaryKeyValue() string  { return v.UUID }
func (v *Vendor) Paranoid() bool           { return true }

func (v *Vendor) AuditColumns() []string {
	return []string{"household_uuid", "name"}
}

func (v *Vendor) AuditValue(column string) Value {
	switch column {
	case "household_uuid":
		return StringValue(v.HouseholdUUID)
	case "name":
		return StringValue(v.Name)
	}
	return NullValue()
}

func (v *Vendor) MarkDeleted(t time.Time) { v.DeletedAt = &t }
func (v *Vendor) DeletedValue() Value     { return NullableTimeValue(v.DeletedAt) }
