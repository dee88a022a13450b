// Package parser turns uploaded files into plain text. Each supported format
// has its own Parser; the Registry dispatches on file extension and applies
// the checks shared by every format.
package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"neurabase/internal/domain"
	"neurabase/internal/port"
)

// Registry resolves parsers by extension.
type Registry struct {
	parsers map[string]port.Parser
}

// NewRegistry creates a registry holding the given parsers. A later parser
// replaces an earlier one registered for the same extension.
func NewRegistry(parsers ...port.Parser) *Registry {
	r := &Registry{parsers: make(map[string]port.Parser, len(parsers))}
	for _, p := range parsers {
		r.parsers[p.Extension()] = p
	}
	return r
}

// Default returns a registry with every supported format.
func Default() *Registry {
	return NewRegistry(
		NewPDFParser(),
		NewTextParser(),
		NewDocxParser(),
		NewCSVParser(),
		NewJSONParser(),
	)
}

// Extension returns the lower-case extension of path without the dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Lookup returns the parser for ext.
func (r *Registry) Lookup(ext string) (port.Parser, error) {
	p, ok := r.parsers[strings.ToLower(ext)]
	if !ok {
		return nil, domain.UnsupportedTypeError(ext)
	}
	return p, nil
}

// Parse extracts the text of the file at path. Failures from the underlying
// decoders, including panics, come back wrapped in domain.ErrParse.
func (r *Registry) Parse(path string) (text string, err error) {
	ext := Extension(path)
	p, err := r.Lookup(ext)
	if err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: error parsing %s: %v", domain.ErrParse, strings.ToUpper(ext), rec)
		}
	}()

	text, err = p.Parse(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text extracted from %s", domain.ErrParse, strings.ToUpper(ext))
	}
	return text, nil
}

// parseError wraps a decoder failure with the format name.
func parseError(format string, err error) error {
	return fmt.Errorf("%w: error parsing %s: %w", domain.ErrParse, format, err)
}
