package models

import (
	"database/sql"
	"strconv"
	"time"
)

// Value is a null-aware, stringified column value. Audit changes store
// every attribute as a nullable string, so all typed values are coerced
// through the constructors below. The rules are deliberately explicit:
// integers become decimal strings, timestamps RFC 3339 in UTC, booleans
// "true"/"false", and NULL stays a null Value (never the word "null").
type Value struct {
	valid bool
	str   string
}

// NullValue returns the SQL NULL value.
func NullValue() Value {
	return Value{}
}

// StringValue returns a non-null string value.
func StringValue(s string) Value {
	return Value{valid: true, str: s}
}

// IntValue coerces an integer to its decimal string form.
func IntValue(i int64) Value {
	return Value{valid: true, str: strconv.FormatInt(i, 10)}
}

// BoolValue coerces a boolean to "true" or "false".
func BoolValue(b bool) Value {
	return Value{valid: true, str: strconv.FormatBool(b)}
}

// TimeValue coerces a timestamp to RFC 3339 in UTC.
func TimeValue(t time.Time) Value {
	return Value{valid: true, str: t.UTC().Format(time.RFC3339)}
}

// NullableTimeValue coerces an optional timestamp, mapping nil to NULL.
func NullableTimeValue(t *time.Time) Value {
	if t == nil {
		return NullValue()
	}
	return TimeValue(*t)
}

// NullableStringValue coerces an optional string, mapping nil to NULL.
func NullableStringValue(s *string) Value {
	if s == nil {
		return NullValue()
	}
	return StringValue(*s)
}

// Valid reports whether the value is non-null.
func (v Value) Valid() bool {
	return v.valid
}

// String returns the coerced string form; the empty string for NULL.
func (v Value) String() string {
	return v.str
}

// Equal compares two values byte-for-byte, treating NULL as equal only
// to NULL.
func (v Value) Equal(other Value) bool {
	if v.valid != other.valid {
		return false
	}
	return !v.valid || v.str == other.str
}

// NullString converts the value for use as a query argument.
func (v Value) NullString() sql.NullString {
	return sql.NullString{String: v.str, Valid: v.valid}
}
