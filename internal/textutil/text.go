package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// urlHostPattern captures the host portion of http/https URLs: everything
// between the scheme separator and the next whitespace or path separator.
var urlHostPattern = regexp.MustCompile(`https?://([^\s/]+)`)

// Normalize canonicalizes raw message text for matching: NFC unicode
// normalization, leading/trailing whitespace trimmed, internal whitespace
// runs collapsed to single spaces, and the result lowercased. It is total;
// empty or whitespace-only input yields the empty string.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	fields := strings.Fields(text)
	return strings.ToLower(strings.Join(fields, " "))
}

// ExtractDomains returns the hostnames of every http/https URL in the text,
// in order of occurrence, with any leading "www." prefix removed. Malformed
// URL-like tokens are skipped rather than reported; no URLs yields an empty
// slice.
func ExtractDomains(text string) []string {
	matches := urlHostPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	domains := make([]string, 0, len(matches))
	for _, m := range matches {
		host := strings.TrimPrefix(m[1], "www.")
		if host == "" {
			continue
		}
		domains = append(domains, host)
	}
	return domains
}
