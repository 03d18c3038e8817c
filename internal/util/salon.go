package util

import "strings"

type salonPattern struct {
	substr string
	code   string
}

// salonPatterns maps lowercase substrings of dealership names to short
// display codes. Order is significant: specific depot names shadow the
// more general prefixes below them, so this must stay a slice and must
// not be reordered into a map.
var salonPatterns = []salonPattern{
	{"июль екб совхозная", "EKT"},
	{"июль екб металлургов", "EKT"},
	{"июль екб базовый", "EKT"},
	{"июль екб", "EKT"},
	{"июль екб  рынок год", "EKT"},
	{"июль екб выезд", "EKT"},
	{"июль члб копейское", "CHL"},
	{"июль члб", "CHL"},
	{"июль крд", "KRD"},
	{"omoda новые", "OMODA"},
}

// apiSalonPatterns resolves the short ids the remote API uses in salon codes.
var apiSalonPatterns = []salonPattern{
	{"ekb", "EKT"},
	{"chel", "CHL"},
	{"krd", "KRD"},
}

// UnknownSalon is the sentinel for names that cannot be resolved at all.
const UnknownSalon = "???"

// ShortSalon converts a dealership name to its short code. Unmatched
// names fall back to the uppercased 3-rune prefix of the first
// whitespace-delimited token.
func ShortSalon(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return UnknownSalon
	}
	for _, p := range salonPatterns {
		if strings.Contains(lower, p.substr) {
			return p.code
		}
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return UnknownSalon
	}
	runes := []rune(fields[0])
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

// ShortSalonFromAPI resolves a salon code or name coming from the API,
// trying the API id table first and falling back to ShortSalon.
func ShortSalonFromAPI(name string) string {
	if name == "" {
		return UnknownSalon
	}
	lower := strings.ToLower(name)
	for _, p := range apiSalonPatterns {
		if strings.Contains(lower, p.substr) {
			return p.code
		}
	}
	return ShortSalon(name)
}
