// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain enums and small value types shared by the
// store, service and handler layers.
package model

// User roles. Anonymous visitors have no role.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// ValidRoles lists the roles a user account may hold.
var ValidRoles = []string{RoleAdmin, RoleEditor}

// IsValidRole reports whether role is an assignable user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleLevel returns the privilege level of a role: admin 2, editor 1, else 0.
func RoleLevel(role string) int {
	switch role {
	case RoleAdmin:
		return 2
	case RoleEditor:
		return 1
	default:
		return 0
	}
}
