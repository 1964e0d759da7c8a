// Package urlutil provides the normalization, scoping, and filtering
// primitives shared by the domain mapper, classifier, and parsers.
package urlutil

import (
	"net/url"
	"strings"
)

var binaryExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".zip": {}, ".rar": {}, ".gz": {}, ".tar": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".svg": {}, ".webp": {}, ".ico": {}, ".bmp": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wav": {},
	".xml": {}, ".rss": {}, ".atom": {},
}

// Normalize lowercases scheme and host, resolves ref against base (if
// base is non-nil and ref is relative), strips the fragment, and collapses
// a trailing slash except on the bare root path.
func Normalize(ref string, base *url.URL) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	if base != nil && !u.IsAbs() {
		u = base.ResolveReference(u)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String(), nil
}

// RegistrableDomain strips a leading "www." from the host, which is the
// extent of "registrable domain" comparison this engine performs (no
// public-suffix-list lookup).
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}

// SameRegistrableDomain reports whether two hosts share a registrable
// domain after stripping a leading "www.".
func SameRegistrableDomain(a, b string) bool {
	return RegistrableDomain(a) == RegistrableDomain(b)
}

// IsScrapeWorthy rejects empty URLs, fragment-only anchors, mailto:,
// tel:, javascript:, and paths ending in a binary/asset extension.
func IsScrapeWorthy(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return false
	}
	lower := strings.ToLower(raw)
	for _, prefix := range []string{"mailto:", "tel:", "javascript:"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for ext := range binaryExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	return true
}

// Dedupe removes duplicate entries, preserving the order of first
// occurrence.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
