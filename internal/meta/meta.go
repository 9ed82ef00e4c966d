// Package meta parses, mutates, and re-embeds the front-matter block of a
// note document.
//
// A front-matter block is delimited top and bottom by a line whose trimmed
// content is exactly "---". The text between the delimiters is a YAML
// mapping; the rest of the document is free-form body and is never touched
// by metadata mutations.
package meta

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/new-divos/pkbassist/internal/wikilink"
)

const delimiter = "---"

// CreatedLayout is the timestamp format of the created field.
const CreatedLayout = "2006-01-02 15:04:05"

var (
	// ErrMetadataNotFound reports a document with no front-matter block.
	ErrMetadataNotFound = errors.New("note metadata not found")

	// ErrMalformedMetadata reports a front-matter block that opens but never
	// closes, or whose content is not valid YAML.
	ErrMalformedMetadata = errors.New("malformed note metadata")

	// ErrNotAMapping reports a front-matter root that is not a mapping.
	ErrNotAMapping = errors.New("note metadata is not a mapping")
)

// Span is the half-open line range [First, Last) of the YAML text strictly
// between the two delimiter lines. The delimiters themselves sit at line
// First-1 and line Last.
type Span struct {
	First int
	Last  int
}

// Metadata is the parsed front-matter block of one document. One instance
// is built per document per operation and never shared across files.
type Metadata struct {
	root    Value
	span    Span
	present bool
}

// New returns empty metadata with no underlying span. Embed on such a value
// prepends a fresh delimited block to the document.
func New() *Metadata {
	return &Metadata{root: MappingValue()}
}

// Parse scans the document for a front-matter block and parses its content.
//
// It fails with ErrMetadataNotFound when no delimiter line exists, and with
// ErrMalformedMetadata when the block opens without closing or its content
// is not parseable YAML.
func Parse(text string) (*Metadata, error) {
	lines := strings.Split(text, "\n")

	first := -1
	last := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != delimiter {
			continue
		}
		if first < 0 {
			first = i + 1
			continue
		}
		last = i
		break
	}

	if first < 0 {
		return nil, ErrMetadataNotFound
	}
	if last < 0 {
		return nil, ErrMalformedMetadata
	}

	block := strings.Join(lines[first:last], "\n")
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
	}

	root := valueFromNode(&doc)
	if root.Kind() == KindScalar {
		// An empty block decodes to a null scalar; treat it as an empty
		// mapping so mutators can populate it.
		if s, _ := root.String(); s == "" {
			root = MappingValue()
		}
	}

	return &Metadata{
		root:    root,
		span:    Span{First: first, Last: last},
		present: true,
	}, nil
}

// Span returns the line range of the parsed block.
func (m *Metadata) Span() Span { return m.span }

// Root returns the metadata tree root.
func (m *Metadata) Root() Value { return m.root }

// Has reports whether a top-level key is present.
func (m *Metadata) Has(key string) bool {
	_, ok := m.root.Get(key)
	return ok
}

// GetString returns a top-level scalar field.
func (m *Metadata) GetString(key string) (string, bool) {
	v, ok := m.root.Get(key)
	if !ok {
		return "", false
	}
	return v.String()
}

// GetStringList returns a top-level sequence field as its scalar items.
func (m *Metadata) GetStringList(key string) ([]string, bool) {
	v, ok := m.root.Get(key)
	if !ok {
		return nil, false
	}
	return v.Strings()
}

// SetString sets a top-level scalar field.
func (m *Metadata) SetString(key, value string) error {
	if m.root.Kind() != KindMapping {
		return ErrNotAMapping
	}
	m.root.set(key, ScalarValue(value))
	return nil
}

// Append adds a scalar item to a top-level sequence field, creating the
// sequence when absent.
func (m *Metadata) Append(key, value string) error {
	if m.root.Kind() != KindMapping {
		return ErrNotAMapping
	}
	m.root.appendTo(key, ScalarValue(value))
	return nil
}

// Remove deletes a top-level field, reporting whether it was present.
func (m *Metadata) Remove(key string) (bool, error) {
	if m.root.Kind() != KindMapping {
		return false, ErrNotAMapping
	}
	return m.root.remove(key), nil
}

// Type returns the note type field.
func (m *Metadata) Type() (string, bool) {
	return m.GetString("type")
}

// Tags returns the note tags.
func (m *Metadata) Tags() []string {
	tags, _ := m.GetStringList("tags")
	return tags
}

// Banner returns the bare banner file name, stripped of the ![[...]]
// embed wrapper.
func (m *Metadata) Banner() (string, bool) {
	s, ok := m.GetString("banner")
	if !ok || s == "" {
		return "", false
	}
	return wikilink.StripEmbed(s), true
}

// SetBanner sets the banner field to the embedded reference for file name.
func (m *Metadata) SetBanner(name string) error {
	return m.SetString("banner", wikilink.Embed(name))
}

// FixBanner normalizes a bare or partially wrapped banner value into the
// canonical embed form, reporting whether the field changed.
func (m *Metadata) FixBanner() bool {
	s, ok := m.GetString("banner")
	if !ok || s == "" {
		return false
	}
	fixed := wikilink.Embed(wikilink.StripEmbed(s))
	if fixed == s {
		return false
	}
	if err := m.SetString("banner", fixed); err != nil {
		return false
	}
	return true
}

// HasCreated reports whether the creation timestamp field is present.
func (m *Metadata) HasCreated() bool {
	return m.Has("created")
}

// SetCreated sets the creation timestamp field.
func (m *Metadata) SetCreated(t time.Time) error {
	return m.SetString("created", t.Format(CreatedLayout))
}

// RemoveCreated deletes the creation timestamp field, reporting whether it
// was present.
func (m *Metadata) RemoveCreated() bool {
	removed, err := m.Remove("created")
	return err == nil && removed
}

// Embed re-renders the metadata tree and splices it back into the original
// document over the parsed span. Every line outside the span is preserved
// byte for byte. The rendered block is canonical YAML: key order is the
// tree's order, and the original block's comments and formatting are not
// reproduced.
func (m *Metadata) Embed(original string) (string, error) {
	block, err := m.render()
	if err != nil {
		return "", err
	}

	if !m.present {
		var sb strings.Builder
		sb.WriteString(delimiter)
		sb.WriteString("\n")
		for _, line := range block {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString(delimiter)
		sb.WriteString("\n")
		sb.WriteString(original)
		return sb.String(), nil
	}

	lines := strings.Split(original, "\n")
	if m.span.Last > len(lines) {
		return "", fmt.Errorf("%w: span %d:%d exceeds document", ErrMalformedMetadata, m.span.First, m.span.Last)
	}

	out := make([]string, 0, len(lines)-(m.span.Last-m.span.First)+len(block))
	out = append(out, lines[:m.span.First]...)
	out = append(out, block...)
	out = append(out, lines[m.span.Last:]...)
	return strings.Join(out, "\n"), nil
}

// render serializes the tree to YAML lines without a trailing blank line.
// An empty mapping renders as no lines at all.
func (m *Metadata) render() ([]string, error) {
	if m.root.Kind() == KindMapping && len(m.root.entries) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(m.root.node()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
	}

	rendered := strings.TrimSuffix(sb.String(), "\n")
	return strings.Split(rendered, "\n"), nil
}
