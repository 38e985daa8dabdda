// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlainFilename validates that name is a bare file name: no directory
// components, no traversal and no hidden-file prefix.
func PlainFilename(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") ||
		strings.HasPrefix(name, ".") || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("invalid filename: %q", name)
	}
	return name, nil
}

// SafeJoinPath joins a file name onto base and verifies the result stays
// inside base.
func SafeJoinPath(base, name string) (string, error) {
	if _, err := PlainFilename(name); err != nil {
		return "", err
	}

	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	target := filepath.Join(absBase, name)
	if !strings.HasPrefix(target, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: path escapes base directory")
	}
	return target, nil
}
