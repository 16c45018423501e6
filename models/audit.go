package models

import "time"

// AuditApiCall records one inbound HTTP request. Rows are created by
// the audit middleware before any controller logic runs and are
// read-only afterwards.
type AuditApiCall struct {
	UUID       string
	UserUUID   *string
	HTTPMethod string
	Route      string
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// AuditLog groups all change rows produced while servicing one API
// call. One log per mutating request, append-only, never deleted.
type AuditLog struct {
	UUID             string
	AuditApiCallUUID string
	CreatedAt        time.Time
}

// AuditChange is one attribute-level before/after diff entry.
type AuditChange struct {
	UUID         string
	AuditLogUUID string
	TableName    string
	Key          string
	Attribute    string
	OldValue     Value
	NewValue     Value
	CreatedAt    time.Time
}
