// SPDX-License-Identifier: MPL-2.0

// Package ignorefile renders .dockerignore files that restrict a Docker
// build context to one component and the components it depends on.
package ignorefile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the ignore file read and written in the registry root.
const FileName = ".dockerignore"

// Marker lines around the generated block.
const (
	BeginMarker = "# avocado:begin"
	EndMarker   = "# avocado:end"
)

// Render returns the ignore file for component id. Everything is excluded
// except id and each of deps; included, if not empty, is appended after the
// generated block with any previously generated block removed.
func Render(id string, deps []string, included string) string {
	var b strings.Builder
	b.WriteString(BeginMarker + "\n")
	b.WriteString("**\n")
	fmt.Fprintf(&b, "!%s/**\n", id)
	for _, dep := range deps {
		fmt.Fprintf(&b, "!%s/**\n", dep)
	}
	b.WriteString(EndMarker + "\n")
	b.WriteString(StripGenerated(included))
	return b.String()
}

// StripGenerated removes every generated block from content. An unterminated
// block runs to the end of content.
func StripGenerated(content string) string {
	if !strings.Contains(content, BeginMarker) {
		return content
	}

	var b strings.Builder
	inBlock := false
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	for sc.Scan() {
		line := sc.Text()
		switch trimmed := strings.TrimSpace(line); {
		case !inBlock && trimmed == BeginMarker:
			inBlock = true
		case inBlock && trimmed == EndMarker:
			inBlock = false
		case !inBlock:
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ReadExisting returns the content of the ignore file in root, or "" when
// there is no such regular file.
func ReadExisting(root string) (string, error) {
	path := filepath.Join(root, FileName)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// Write replaces the ignore file in root with content.
func Write(root, content string) error {
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
