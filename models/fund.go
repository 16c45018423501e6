package models

import "time"

// Fund is a savings bucket. The balance is a derived running total
// maintained by the services whenever a deposit or fund-linked expense
// changes, always within the same transaction.
type Fund struct {
	base

	UUID          string
	HouseholdUUID string
	Name          string
	BalanceCents  int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func (f *Fund) TableName() string        { return "funds" }
func (f *Fund) PrimaryKeyColumn() string { return "uuid" }
func (f *Fund) PrimaryKeyValue() string  { return f.UUID }
func (f *Fund) Paranoid() bool           { return true }

func (f *Fund) AuditColumns() []string {
	return []string{"balance_cents", "household_uuid", "name"}
}

func (f *Fund) AuditValue(column string) Value {
	switch column {
	case "balance_cents":
		return IntValue(f.BalanceCents)
	case "household_uuid":
		return StringValue(f.HouseholdUUID)
	case "name":
		return StringValue(f.Name)
	}
	return NullValue()
}

func (f *Fund) MarkDeleted(t time.Time) { f.DeletedAt = &t }
func (f *Fund) DeletedValue() Value     { return NullableTimeValue(f.DeletedAt) }

// Deposit adds money to a fund. Dates are date-only, YYYY-MM-DD.
type Deposit struct {
	base

	UUID        string
	FundUUID    string
	Date        string
	AmountCents int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

func (d *Deposit) TableName() string        { return "deposits" }
func (d *Deposit) PrimaryKeyColumn() string { return "uuid" }
func (d *Deposit) PrimaryKeyValue() string  { return d.UUID }
func (d *Deposit) Paranoid() bool           { return true }

func (d *Deposit) AuditColumns() []string {
	return []string{"amount_cents", "date", "fund_uuid"}
}

func (d *Deposit) AuditValue(column string) Value {
	switch column {
	case "amount_cents":
		return IntValue(d.AmountCents)
	case "date":
		return StringValue(d.Date)
	case "fund_uuid":
		return StringValue(d.FundUUID)
	}
	return NullValue()
}

func (d *Deposit) MarkDeleted(t time.Time) { d.DeletedAt = &t }
func (d *Deposit) DeletedValue() Value     { return NullableTimeValue(d.DeletedAt) }
