package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueCoercions(t *testing.T) {
	assert.Equal(t, "2500", IntValue(2500).String())
	assert.Equal(t, "-1", IntValue(-1).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "false", BoolValue(false).String())

	// Timestamps always render RFC 3339 in UTC, whatever zone they
	// arrived in.
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 15, 14, 30, 0, 0, loc)
	assert.Equal(t, "2024-03-15T12:30:00Z", TimeValue(ts).String())
}

func TestNullValueStaysNull(t *testing.T) {
	v := NullValue()
	assert.False(t, v.Valid())
	assert.Equal(t, "", v.String())
	assert.False(t, v.NullString().Valid)

	// NULL is not the string "null" and not the empty string.
	assert.False(t, v.Equal(StringValue("null")))
	assert.False(t, v.Equal(StringValue("")))
	assert.True(t, v.Equal(NullValue()))
}

func TestNullableConstructors(t *testing.T) {
	assert.False(t, NullableStringValue(nil).Valid())
	s := "abc"
	assert.Equal(t, "abc", NullableStringValue(&s).String())

	assert.False(t, NullableTimeValue(nil).Valid())
	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15T12:00:00Z", NullableTimeValue(&ts).String())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, StringValue("a").Equal(StringValue("a")))
	assert.False(t, StringValue("a").Equal(StringValue("b")))
	assert.True(t, IntValue(3).Equal(StringValue("3")))
}
