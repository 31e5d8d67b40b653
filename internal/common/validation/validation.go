// Package validation checks operator input before any file is read.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePrincipalName checks that upn looks like a user principal name:
// one @ with non-empty local and domain parts and no whitespace or control
// characters inside.
func ValidatePrincipalName(upn string) error {
	upn = strings.TrimSpace(upn)
	if upn == "" {
		return fmt.Errorf("principal name cannot be empty")
	}
	if strings.IndexFunc(upn, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return fmt.Errorf("invalid principal name: %q (contains whitespace)", upn)
	}
	if !strings.Contains(upn, "@") {
		return fmt.Errorf("invalid principal name: %s (missing @)", upn)
	}
	parts := strings.Split(upn, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid principal name: %s", upn)
	}
	if !strings.Contains(parts[1], ".") {
		return fmt.Errorf("invalid principal name: %s (domain has no dot)", upn)
	}
	return nil
}

// spreadsheetExts are the extensions the loader understands.
var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
	".csv":  true,
	".txt":  true,
}

// ValidateInputFile checks an optional spreadsheet path: an empty path is
// allowed, otherwise the file must exist, be a regular file and carry a
// supported extension.
func ValidateInputFile(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if err := ValidateFilePath(path, fieldName); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !spreadsheetExts[ext] {
		return fmt.Errorf("%s: unsupported file type %q (expected .xlsx or .csv)", fieldName, ext)
	}
	return nil
}

// ValidateFilePath verifies that path names an accessible regular file.
// Empty is allowed for optional fields.
func ValidateFilePath(path, fieldName string) error {
	if path == "" {
		return nil
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%s: invalid path: %w", fieldName, err)
	}

	fileInfo, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: file not found: %s", fieldName, path)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%s: permission denied: %s", fieldName, path)
		}
		return fmt.Errorf("%s: cannot access file: %w", fieldName, err)
	}

	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file (is it a directory?): %s", fieldName, path)
	}
	return nil
}

// ValidateOutputDir verifies that dir is an existing directory. Empty is
// allowed and means "no export".
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory not found: %s", dir)
		}
		return fmt.Errorf("cannot access output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", dir)
	}
	return nil
}

// ValidatePSTTemplate requires the {upn} placeholder so that every
// archive lands in its own file.
func ValidatePSTTemplate(tpl string) error {
	if tpl == "" {
		return nil
	}
	if !strings.Contains(tpl, "{upn}") {
		return fmt.Errorf("PST path template must contain {upn}: %s", tpl)
	}
	return nil
}
