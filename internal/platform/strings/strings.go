// Package strings provides small string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Blank reports whether s has no non whitespace content
func Blank(s string) bool { return std.TrimSpace(s) == "" }

// MustPrefix normalizes and asserts a root path like /meta or /archiver
// ensures a single leading slash and no trailing slash
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// CleanPrefix is MustPrefix that allows the empty prefix
// "" and "/" both return "" so callers can mount at the parent router
func CleanPrefix(s string) string {
	if std.Trim(s, " /") == "" {
		return ""
	}
	return MustPrefix(s)
}
