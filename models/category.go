package models

import "time"

// Category is a top-level expense grouping owned by a household.
type Category struct {
	base

	UUID          string
	HouseholdUUID string
	Name          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func (c *Category) TableName() string        { return "categories" }
func (c *Category) PrimaryKeyColumn() string { return "uuid" }
func (c *Category) PrimaryKeyValue() string  { return c.UUID }
func (c *Category) Paranoid() bool           { return true }

func (c *Category) AuditColumns() []string {
	return []string{"household_uuid", "name"}
}

func (c *Category) AuditValue(column string) Value {
	switch column {
	case "household_uuid":
		return StringValue(c.HouseholdUUID)
	case "name":
		return StringValue(c.Name)
	}
	return NullValue()
}

func (c *Category) MarkDeleted(t time.Time) { c.DeletedAt = &t }
func (c *Category) DeletedValue() Value     { return NullableTimeValue(c.DeletedAt) }

// Subcategory belongs to a category; budgets and expenses attach here.
// Household ownership is transitive through the parent category.
type Subcategory struct {
	base

	UUID         string
	CategoryUUID string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (s *Subcategory) TableName() string        { return "subcategories" }
func (s *Subcategory) PrimaryKeyColumn() string { return "uuid" }
func (s *Subcategory) PrimaryKeyValue() string  { return s.UUID }
func (s *Subcategory) Paranoid() bool           { return true }

func (s *Subcategory) AuditColumns() []string {
	return []string{"category_uuid", "name"}
}

func (s *Subcategory) AuditValue(column string) Value {
	switch column {
	case "category_uuid":
		return StringValue(s.CategoryUUID)
	case "name":
		return StringValue(s.Name)
	}
	return NullValue()
}

func (s *Subcategory) MarkDeleted(t time.Time) { s.DeletedAt = &t }
func (s *Subcategory) DeletedValue() Value     { return NullableTimeValue(s.DeletedAt) }
