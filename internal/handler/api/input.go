package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/util"
)

// Flag is a boolean that also accepts the 0/1 numbers and strings sent by
// older admin forms.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		*f = true
	case "false", "0", "no", "off", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %q", s)
	}
	return nil
}

// Number is an integer that also accepts a numeric string.
type Number int64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		v = int64(f)
	}
	*n = Number(v)
	return nil
}

// ID is a row identifier given either as a JSON number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*id = ID(n.String())
	return nil
}

func flag(f *Flag, def bool) bool {
	if f == nil {
		return def
	}
	return bool(*f)
}

func number(n *Number) *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}

// trimmed returns the trimmed value of p, or "" for nil.
func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// nullString returns the trimmed value of p as a nullable column value.
// A nil p keeps cur; a blank value clears it.
func nullString(p *string, cur sql.NullString) sql.NullString {
	if p == nil {
		return cur
	}
	return util.NullStringFromPtr(p)
}

// nullHTML is nullString for rich-text fields.
func nullHTML(p *string, cur sql.NullString) sql.NullString {
	if p == nil {
		return cur
	}
	return util.NullStringTrimmed(handler.SanitizeHTML(*p))
}

func boolOr(f *Flag, cur bool) bool {
	return flag(f, cur)
}

func int64Or(n *Number, cur int64) int64 {
	if n == nil {
		return cur
	}
	return int64(*n)
}

func ptr(ns sql.NullString) *string {
	return util.PtrFromNullString(ns)
}

// requireOneOf reports a 422 detail when every value is blank.
func requireOneOf(details map[string]string, field, message string, values ...sql.NullString) map[string]string {
	for _, v := range values {
		if v.Valid && strings.TrimSpace(v.String) != "" {
			return details
		}
	}
	return addDetail(details, field, message)
}

// requireValue reports a 422 detail when value is blank.
func requireValue(details map[string]string, field, value string) map[string]string {
	if strings.TrimSpace(value) != "" {
		return details
	}
	return addDetail(details, field, field+" is required")
}

// reservedIDs are the static segments routed next to /{id} in every
// collection. A record keyed by one of them could not be addressed.
var reservedIDs = []string{"admin", "reorder"}

// rejectReserved reports a 422 detail when id is a reserved route segment.
func rejectReserved(details map[string]string, field, id string) map[string]string {
	id = strings.TrimSpace(id)
	for _, seg := range reservedIDs {
		if strings.EqualFold(id, seg) {
			return addDetail(details, field, "\""+seg+"\" is reserved")
		}
	}
	return details
}

// addDetail records a validation message, allocating details on first use.
func addDetail(details map[string]string, field, message string) map[string]string {
	if details == nil {
		details = map[string]string{}
	}
	details[field] = message
	return details
}
