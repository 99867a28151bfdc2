// Package security guards filesystem paths the CLI writes to, so a
// weights or GWT export can't be pointed outside the working directory
// by a malformed -out flag.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidatePathWithinDirectory checks if a file path is within a safe directory.
// It prevents path traversal attacks by ensuring the resolved path doesn't escape
// the specified safe directory.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	// Clean the path to resolve . and .. components
	cleanPath := filepath.Clean(filePath)

	// Get absolute paths for proper validation
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	// Judge symlinks by their targets: resolve the longest existing prefix
	// of each path and keep any not-yet-created remainder as is.
	resolve := func(p string) string {
		rest := ""
		for cur := p; ; cur = filepath.Dir(cur) {
			if r, err := filepath.EvalSymlinks(cur); err == nil {
				return filepath.Join(r, rest)
			}
			if filepath.Dir(cur) == cur {
				return p
			}
			rest = filepath.Join(filepath.Base(cur), rest)
		}
	}
	absPath, absSafeDir = resolve(absPath), resolve(absSafeDir)

	// Check if path is within safe directory
	relPath, err := filepath.Rel(absSafeDir, absPath)
	if err != nil {
		return fmt.Errorf("path is outside safe directory: %w", err)
	}

	// Reject paths that escape the safe directory
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("path traversal detected: %s attempts to escape %s", filePath, safeDir)
	}

	return nil
}

// ValidatePathWithinAllowedDirs checks if a file path is within any of the allowed directories.
// Returns nil if the path is valid, or an error describing why it was rejected.
func ValidatePathWithinAllowedDirs(filePath string, allowedDirs []string) error {
	if len(allowedDirs) == 0 {
		return fmt.Errorf("no allowed directories specified")
	}

	for _, dir := range allowedDirs {
		if err := ValidatePathWithinDirectory(filePath, dir); err == nil {
			return nil // Path is valid within this directory
		}
	}

	// Path is not within any allowed directory
	return fmt.Errorf("path must be within one of the allowed directories: %v", allowedDirs)
}

// ValidateExportPath validates a file path for export operations.
// It ensures the path is within either the temp directory or current working directory.
func ValidateExportPath(filePath string) error {
	tempDir := os.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	allowedDirs := []string{tempDir, cwd}
	return ValidatePathWithinAllowedDirs(filePath, allowedDirs)
}

// ValidateOutputPath validates a destination path for a generated file
// (a GWT export, a registry dump). Same rule as ValidateExportPath:
// the temp directory or the current working directory only.
func ValidateOutputPath(filePath string) error {
	return ValidateExportPath(filePath)
}

var invalidFilenameRun = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

const maxFilenameLen = 128

// SanitizeFilename collapses anything that isn't alphanumeric, '.',
// '_' or '-' into a single underscore, trims leading/trailing '.' and
// '_', and caps the result at maxFilenameLen bytes. Used to turn a
// layer or variable name into a safe default output filename.
func SanitizeFilename(name string) string {
	sanitized := invalidFilenameRun.ReplaceAllString(name, "_")
	sanitized = strings.Trim(sanitized, "._")
	if sanitized == "" {
		return "unknown"
	}
	if len(sanitized) > maxFilenameLen {
		sanitized = sanitized[:maxFilenameLen]
	}
	return sanitized
}
