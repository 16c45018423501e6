package models

import "time"

// Budget is a planned amount for one subcategory in one month. The
// (subcategory, year, month) tuple is unique; services check for
// duplicates before inserting.
type Budget struct {
	base

	UUID            string
	SubcategoryUUID string
	Year            int
	Month           int
	AmountCents     int64
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

func (b *Budget) TableName() string        { return "budgets" }
func (b *Budget) PrimaryKeyColumn() string { return "uuid" }
func (b *Budget) PrimaryKeyValue() string  { return b.UUID }
func (b *Budget) Paranoid() bool           { return true }

func (b *Budget) AuditColumns() []string {
	return []string{"amount_cents", "month", "notes", "subcategory_uuid", "year"}
}

func (b *Budget) AuditValue(column string) Value {
	switch column {
	case "amount_cents":
		return IntValue(b.AmountCents)
	case "month":
		return IntValue(int64(b.Month))
	case "notes":
		return StringValue(b.Notes)
	case "subcategory_uuid":
		return StringValue(b.SubcategoryUUID)
	case "year":
		return IntValue(int64(b.Year))
	}
	return NullValue()
}

func (b *Budget) MarkDeleted(t time.Time) { b.DeletedAt = &t }
func (b *Budget) DeletedValue() Value     { return NullableTimeValue(b.DeletedAt) }
