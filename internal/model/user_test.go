package model

import "testing"

func TestRoles(t *testing.T) {
	tests := []struct {
		role  string
		valid bool
		level int
	}{
		{RoleAdmin, true, 2},
		{RoleEditor, true, 1},
		{"Admin", false, 0},
		{"teacher", false, 0},
		{"viewer", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := IsValidRole(tt.role); got != tt.valid {
				t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.valid)
			}
			if got := RoleLevel(tt.role); got != tt.level {
				t.Errorf("RoleLevel(%q) = %d, want %d", tt.role, got, tt.level)
			}
		})
	}
}

func TestAdminOutranksEditor(t *testing.T) {
	if RoleLevel(RoleAdmin) <= RoleLevel(RoleEditor) {
		t.Error("admin must outrank editor")
	}
	if RoleLevel(RoleEditor) <= RoleLevel("") {
		t.Error("editor must outrank anonymous visitors")
	}
}
