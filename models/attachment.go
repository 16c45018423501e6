package models

import "time"

// Attachment is a receipt or document linked to an expense. The blob
// itself lives in object storage; only the reference is tracked here.
// Household ownership is transitive through the linked expense.
type Attachment struct {
	base

	UUID       string
	EntityType string
	EntityUUID string
	Name       string
	AwsBucket  *string
	AwsKey     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

func (a *Attachment) TableName() string        { return "attachments" }
func (a *Attachment) PrimaryKeyColumn() string { return "uuid" }
func (a *Attachment) PrimaryKeyValue() string  { return a.UUID }
func (a *Attachment) Paranoid() bool           { return true }

func (a *Attachment) AuditColumns() []string {
	return []string{"aws_bucket", "aws_key", "entity_type", "entity_uuid", "name"}
}

func (a *Attachment) AuditValue(column string) Value {
	switch column {
	case "aws_bucket":
		return NullableStringValue(a.AwsBucket)
	case "aws_key":
		return NullableStringValue(a.AwsKey)
	case "entity_type":
		return StringValue(a.EntityType)
	case "entity_uuid":
		return StringValue(a.EntityUUID)
	case "name":
		return StringValue(a.Name)
	}
	return NullValue()
}

func (a *Attachment) MarkDeleted(t time.Time) { a.DeletedAt = &t }
func (a *Attachment) DeletedValue() Value     { return NullableTimeValue(a.DeletedAt) }
