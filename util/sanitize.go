// Package util contains any functions used across the application that
// don't match any other package
package util

import "strings"

// SanitizeName turns an original file name (without extension) into the
// lowercase, dash-separated suffix appended to generated file IDs.
// Anything outside [a-z0-9] collapses into a single dash.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}

		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
