package models

import "time"

// Household is the tenant boundary; nearly every entity resolves to
// exactly one, directly or through a parent relation.
type Household struct {
	base

	UUID      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (h *Household) TableName() string        { return "households" }
func (h *Household) PrimaryKeyColumn() string { return "uuid" }
func (h *Household) PrimaryKeyValue() string  { return h.UUID }
func (h *Household) Paranoid() bool           { return true }

func (h *Household) AuditColumns() []string {
	return []string{"name"}
}

func (h *Household) AuditValue(column string) Value {
	switch column {
	case "name":
		return StringValue(h.Name)
	}
	return NullValue()
}

func (h *Household) MarkDeleted(t time.Time) { h.DeletedAt = &t }
func (h *Household) DeletedValue() Value     { return NullableTimeValue(h.DeletedAt) }

// User is an authenticated account belonging to one household. The
// password hash is deliberately absent from the audited columns.
type User struct {
	base

	UUID          string
	HouseholdUUID string
	Email         string
	FirstName     string
	LastName      string
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func (u *User) TableName() string        { return "users" }
func (u *User) PrimaryKeyColumn() string { return "uuid" }
func (u *User) PrimaryKeyValue() string  { return u.UUID }
func (u *User) Paranoid() bool           { return true }

func (u *User) AuditColumns() []string {
	return []string{"email", "first_name", "household_uuid", "last_name"}
}

func (u *User) AuditValue(column string) Value {
	switch column {
	case "email":
		return StringValue(u.Email)
	case "first_name":
		return StringValue(u.FirstName)
	case "household_uuid":
		return StringValue(u.HouseholdUUID)
	case "last_name":
		return StringValue(u.LastName)
	}
	return NullValue()
}

func (u *User) MarkDeleted(t time.Time) { u.DeletedAt = &t }
func (u *User) DeletedValue() Value     { return NullableTimeValue(u.DeletedAt) }

// HouseholdMember is a person expenses and incomes are attributed to.
// Members are not users; a household of two adults and two children has
// four members and maybe one account.
type HouseholdMember struct {
	base

	UUID          string
	HouseholdUUID string
	Name          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func (m *HouseholdMember) TableName() string        { return "household_members" }
func (m *HouseholdMember) PrimaryKeyColumn() string { return "uuid" }
func (m *HouseholdMember) PrimaryKeyValue() string  { return m.UUID }
func (m *HouseholdMember) Paranoid() bool           { return true }

func (m *HouseholdMember) AuditColumns() []string {
	return []string{"household_uuid", "name"}
}

func (m *HouseholdMember) AuditValue(column string) Value {
	switch column {
	case "household_uuid":
		return StringValue(m.HouseholdUUID)
	case "name":
		return StringValue(m.Name)
	}
	return NullValue()
}

func (m *HouseholdMember) MarkDeleted(t time.Time) { m.DeletedAt = &t }
func (m *HouseholdMember) DeletedValue() Value     { return NullableTimeValue(m.DeletedAt) }
