// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions.
package util

import (
	"database/sql"
	"strings"
)

// NullInt64FromPtr converts a pointer to int64 into sql.NullInt64.
func NullInt64FromPtr(ptr *int64) sql.NullInt64 {
	if ptr != nil {
		return sql.NullInt64{Int64: *ptr, Valid: true}
	}
	return sql.NullInt64{}
}

// NullStringFromValue creates a sql.NullString that is valid only for non-empty strings.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringTrimmed trims s and stores an empty result as NULL.
func NullStringTrimmed(s string) sql.NullString {
	return NullStringFromValue(strings.TrimSpace(s))
}

// NullStringFromPtr trims the pointed-to string; nil and blank become NULL.
func NullStringFromPtr(ptr *string) sql.NullString {
	if ptr == nil {
		return sql.NullString{}
	}
	return NullStringTrimmed(*ptr)
}

// PtrFromNullString returns nil for NULL, otherwise a pointer to the value.
func PtrFromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// PtrFromNullInt64 returns nil for NULL, otherwise a pointer to the value.
func PtrFromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// BoolToInt converts a bool to the 0/1 form stored in TINYINT/INTEGER flag columns.
func BoolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
