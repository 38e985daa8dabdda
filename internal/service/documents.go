package service

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DocumentLabel turns a stored file name into a menu label:
// "annual_report-2024.pdf" becomes "Annual Report 2024".
func DocumentLabel(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return filename
	}
	// Casers keep state, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(stem)
}

// DocumentTitle prefers the name the file was uploaded with.
func DocumentTitle(filename, originalName string) string {
	original := strings.TrimSpace(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	if original != "" {
		return original
	}
	return DocumentLabel(filename)
}
