package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/blogem/household-budget/apperr"
)

// resourceIdentifier is a JSON:API {type, id} pair.
type resourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type relationship struct {
	Data *resourceIdentifier `json:"data"`
}

type resource struct {
	Type          string                  `json:"type,omitempty"`
	ID            string                  `json:"id,omitempty"`
	Attributes    map[string]interface{}  `json:"attributes,omitempty"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
}

type document struct {
	Data *resource `json:"data"`
}

// decodeDocument reads a JSON:API request body. Missing or malformed
// documents are a validation failure, not a panic further down.
func decodeDocument(r *http.Request) (*resource, error) {
	var doc document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		return nil, errors.New("missing data")
	}
	return doc.Data, nil
}

// stringAttr returns the named attribute when present and a string,
// nil otherwise. PATCH handlers rely on the nil to mean "unchanged".
func (res *resource) stringAttr(name string) *string {
	if v, ok := res.Attributes[name]; ok {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

// intAttr returns the named attribute when present and numeric.
func (res *resource) intAttr(name string) *int {
	if v, ok := res.Attributes[name]; ok {
		if f, ok := v.(float64); ok {
			i := int(f)
			return &i
		}
	}
	return nil
}

// int64Attr returns the named attribute when present and numeric.
func (res *resource) int64Attr(name string) *int64 {
	if v, ok := res.Attributes[name]; ok {
		if f, ok := v.(float64); ok {
			i := int64(f)
			return &i
		}
	}
	return nil
}

// relationshipID returns the related resource's id when the
// relationship is present with data, nil otherwise.
func (res *resource) relationshipID(name string) *string {
	rel, ok := res.Relationships[name]
	if !ok || rel.Data == nil {
		return nil
	}
	return &rel.Data.ID
}

// relationshipCleared reports a relationship explicitly sent with null
// data, the JSON:API way to remove a link.
func (res *resource) relationshipCleared(name string) bool {
	rel, ok := res.Relationships[name]
	return ok && rel.Data == nil
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func int64Val(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// writeData renders a single-resource JSON:API document.
func writeData(w http.ResponseWriter, status int, res resource) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(document{Data: &res})
}

type errorObject struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// writeError maps service errors onto JSON:API error documents:
// validation 422, not found 404, conflict 409, everything else 500
// with the detail withheld.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	case apperr.IsConflict(err):
		status = http.StatusConflict
	}

	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = "Internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string][]errorObject{
		"errors": {{Status: strconv.Itoa(status), Detail: detail}},
	})
}
