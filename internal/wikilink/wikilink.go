// Package wikilink provides canonical parsing and rewriting of vault wikilinks.
//
// Wikilink grammar:
//
//	[[target]]
//	[[target|display text]]
//	![[file name]]        (embedded attachment)
//
// The target and display text are trimmed of surrounding whitespace. The
// package does not understand markdown code fences; callers decide whether a
// region should be rewritten.
package wikilink

import (
	"fmt"
	"regexp"
	"strings"
)

// sloppy matches a described wikilink with stray whitespace around the target
// or the separator, the form produced by some editors' link completion:
//
//	[[ Note Name | description ]]
var sloppy = regexp.MustCompile(`\[\[\s*(?P<file>[A-Za-z\d\-\.]+(?:\s+[\w\d\-_\.\(\)]+)*)\s*\|\s+(?P<descr>[^\[\]]+?)\s*\]\]`)

// Normalize rewrites every described wikilink in text to the canonical
// [[target|description]] form. The returned flag reports whether anything
// changed, so callers can skip writing untouched files.
func Normalize(text string) (string, bool) {
	out := sloppy.ReplaceAllString(text, "[[$file|$descr]]")
	return out, out != text
}

// Embed returns the embedded-attachment reference for a bare file name.
func Embed(name string) string {
	return fmt.Sprintf("![[%s]]", name)
}

// StripEmbed removes the embed wrapper from a reference, returning the bare
// file name. Values that are not wrapped are returned unchanged, so it is
// safe to apply to banner fields of either form.
func StripEmbed(ref string) string {
	return strings.Trim(strings.TrimSpace(ref), "![]")
}

// IsEmbed reports whether ref is exactly an embedded-attachment reference.
func IsEmbed(ref string) bool {
	ref = strings.TrimSpace(ref)
	return strings.HasPrefix(ref, "![[") && strings.HasSuffix(ref, "]]")
}

// Parse parses a string that is exactly a wikilink literal, returning its
// target and optional display text.
func Parse(s string) (target, display string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", "", false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	target, display, _ = strings.Cut(inner, "|")
	target = strings.TrimSpace(target)
	display = strings.TrimSpace(display)
	if target == "" {
		return "", "", false
	}
	return target, display, true
}
