package models

import "time"

// Loan tracks borrowed money. The balance starts at the loan amount and
// is paid down over time; archived_at hides settled loans from default
// listings without deleting them.
type Loan struct {
	base

	UUID          string
	HouseholdUUID string
	Name          string
	AmountCents   int64
	BalanceCents  int64
	ArchivedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func (l *Loan) TableName() string        { return "loans" }
func (l *Loan) PrimaryKeyColumn() string { return "uuid" }
func (l *Loan) PrimaryKeyValue() string  { return l.UUID }
func (l *Loan) Paranoid() bool           { return true }

func (l *Loan) AuditColumns() []string {
	return []string{"amount_cents", "archived_at", "balance_cents", "household_uuid", "name"}
}

func (l *Loan) AuditValue(column string) Value {
	switch column {
	case "amount_cents":
		return IntValue(l.AmountCents)
	case "archived_at":
		return NullableTimeValue(l.ArchivedAt)
	case "balance_cents":
		return IntValue(l.BalanceCents)
	case "household_uuid":
		return StringValue(l.HouseholdUUID)
	case "name":
		return StringValue(l.Name)
	}
	return NullValue()
}

func (l *Loan) MarkDeleted(t time.Time) { l.DeletedAt = &t }
func (l *Loan) DeletedValue() Value     { return NullableTimeValue(l.DeletedAt) }
