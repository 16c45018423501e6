package controllers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/apperr"
)

func decodeTestDocument(t *testing.T, body string) *resource {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	res, err := decodeDocument(req)
	require.NoError(t, err)
	return res
}

func TestDecodeDocumentRejectsMissingData(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	_, err := decodeDocument(req)
	assert.Error(t, err)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	_, err = decodeDocument(req)
	assert.Error(t, err)
}

func TestAttributeHelpersDistinguishAbsentFromZero(t *testing.T) {
	res := decodeTestDocument(t, `{"data":{"type":"budgets","attributes":{"year":2024,"month":0,"notes":"","amount":2500}}}`)

	require.NotNil(t, res.intAttr("year"))
	assert.Equal(t, 2024, *res.intAttr("year"))

	// Present zero values come back as non-nil pointers.
	require.NotNil(t, res.intAttr("month"))
	assert.Equal(t, 0, *res.intAttr("month"))
	require.NotNil(t, res.stringAttr("notes"))
	assert.Equal(t, "", *res.stringAttr("notes"))

	require.NotNil(t, res.int64Attr("amount"))
	assert.Equal(t, int64(2500), *res.int64Attr("amount"))

	// Absent attributes stay nil so PATCH can skip them.
	assert.Nil(t, res.stringAttr("name"))
	assert.Nil(t, res.intAttr("day"))
	assert.Nil(t, res.int64Attr("balance"))
}

func TestRelationshipHelpers(t *testing.T) {
	res := decodeTestDocument(t, `{"data":{"type":"expenses","relationships":{
		"fund":{"data":{"type":"funds","id":"fund-1"}},
		"employer":{"data":null}}}}`)

	require.NotNil(t, res.relationshipID("fund"))
	assert.Equal(t, "fund-1", *res.relationshipID("fund"))
	assert.False(t, res.relationshipCleared("fund"))

	// {"data": null} clears the link; an absent relationship does not.
	assert.Nil(t, res.relationshipID("employer"))
	assert.True(t, res.relationshipCleared("employer"))
	assert.False(t, res.relationshipCleared("vendor"))
	assert.Nil(t, res.relationshipID("vendor"))
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"validation", apperr.Validation("Invalid year"), http.StatusUnprocessableEntity, "Invalid year"},
		{"not found", apperr.NotFound("Budget not found"), http.StatusNotFound, "Budget not found"},
		{"conflict", apperr.Conflict("Duplicate budget"), http.StatusConflict, "Duplicate budget"},
		{"internal", assert.AnError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			expected := `{"errors":[{"status":"` + strconv.Itoa(tc.status) + `","detail":"` + tc.detail + `"}]}`
			assert.JSONEq(t, expected, rec.Body.String())
		})
	}
}
