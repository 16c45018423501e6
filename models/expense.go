package models

import "time"

// Expense records money spent. An expense optionally draws from a fund,
// in which case the fund balance is debited alongside it.
type Expense struct {
	base

	UUID                string
	SubcategoryUUID     string
	VendorUUID          string
	HouseholdMemberUUID string
	FundUUID            *string
	Date                string
	AmountCents         int64
	ReimbursedCents     int64
	Description         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

func (e *Expense) TableName() string        { return "expenses" }
func (e *Expense) PrimaryKeyColumn() string { return "uuid" }
func (e *Expense) PrimaryKeyValue() string  { return e.UUID }
func (e *Expense) Paranoid() bool           { return true }

func (e *Expense) AuditColumns() []string {
	return []string{
		"amount_cents",
		"date",
		"description",
		"fund_uuid",
		"household_member_uuid",
		"reimbursed_cents",
		"subcategory_uuid",
		"vendor_uuid",
	}
}

func (e *Expense) AuditValue(column string) Value {
	switch column {
	case "amount_cents":
		return IntValue(e.AmountCents)
	case "date":
		return StringValue(e.Date)
	case "description":
		return StringValue(e.Description)
	case "fund_uuid":
		return NullableStringValue(e.FundUUID)
	case "household_member_uuid":
		return StringValue(e.HouseholdMemberUUID)
	case "reimbursed_cents":
		return IntValue(e.ReimbursedCents)
	case "subcategory_uuid":
		return StringValue(e.SubcategoryUUID)
	case "vendor_uuid":
		return StringValue(e.VendorUUID)
	}
	return NullValue()
}

func (e *Expense) MarkDeleted(t time.Time) { e.DeletedAt = &t }
func (e *Expense) DeletedValue() Value     { return NullableTimeValue(e.DeletedAt) }
