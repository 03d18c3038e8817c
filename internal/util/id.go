package util

import (
	"strings"
	"unicode"
)

// NormalizeOfferID canonicalizes an offer id for cross-source matching:
// lowercased, surrounding whitespace trimmed, trailing slashes removed.
func NormalizeOfferID(id string) string {
	return strings.TrimRight(strings.TrimSpace(strings.ToLower(id)), "/")
}

// ExtractOfferID pulls the offer id from a listing URL, e.g.
// ".../sale/toyota/camry/1131420679-5346d8a6/" -> "1131420679-5346d8a6".
// The trailer must contain a hyphen and at least one digit; anything
// else is an unusable row and yields "".
func ExtractOfferID(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	trimmed := strings.TrimRight(rawURL, "/")
	last := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if !strings.Contains(last, "-") {
		return ""
	}
	for _, r := range last {
		if unicode.IsDigit(r) {
			return last
		}
	}
	return ""
}

// ExtractHyperlinkURL unwraps a spreadsheet =HYPERLINK(...) formula,
// returning its first quoted argument. Non-formula strings pass
// through unchanged.
func ExtractHyperlinkURL(cell string) string {
	if !strings.HasPrefix(cell, "=HYPERLINK") {
		return cell
	}
	parts := strings.Split(cell, `"`)
	if len(parts) >= 2 {
		return parts[1]
	}
	return cell
}

// MobileURL converts a desktop listing link to its mobile counterpart.
func MobileURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	return strings.Replace(rawURL, "https://auto.ru/", "https://m.auto.ru/", 1)
}
