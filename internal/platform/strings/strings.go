// Package strings provides string and path helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// HasPathPrefix reports whether path is prefix or sits below it
// /admin matches /admin and /admin/x but not /administrator
func HasPathPrefix(path, prefix string) bool {
	prefix = std.TrimRight(prefix, "/")
	if prefix == "" {
		return false
	}
	if !std.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// HasAnyPathPrefix is HasPathPrefix over a list, first match wins
func HasAnyPathPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if HasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// SplitCSV splits a comma separated list, dropping blanks
func SplitCSV(s string) []string {
	var out []string
	for _, part := range std.Split(s, ",") {
		if p := std.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
