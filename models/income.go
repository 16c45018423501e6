package models

import "time"

// Income records money received by a household member, optionally
// attributed to an employer.
type Income struct {
	base

	UUID                string
	HouseholdMemberUUID string
	EmployerUUID        *string
	Date                string
	AmountCents         int64
	Description         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

func (i *Income) TableName() string        { return "incomes" }
func (i *Income) PrimaryKeyColumn() string { return "uuid" }
func (i *Income) PrimaryKeyValue() string  { return i.UUID }
func (i *Income) Paranoid() bool           { return true }

func (i *Income) AuditColumns() []string {
	return []string{
		"amount_cents",
		"date",
		"description",
		"employer_uuid",
		"household_member_uuid",
	}
}

func (i *Income) AuditValue(column string) Value {
	switch column {
	case "amount_cents":
		return IntValue(i.AmountCents)
	case "date":
		return StringValue(i.Date)
	case "description":
		return StringValue(i.Description)
	case "employer_uuid":
		return NullableStringValue(i.EmployerUUID)
	case "household_member_uuid":
		return StringValue(i.HouseholdMemberUUID)
	}
	return NullValue()
}

func (i *Income) MarkDeleted(t time.Time) { i.DeletedAt = &t }
func (i *Income) DeletedValue() Value     { return NullableTimeValue(i.DeletedAt) }
