package visibility

import (
	"regexp"
	"strings"
)

// Redactor masks identifying signal in free text. It is a pluggable strategy:
// the default HeuristicRedactor is best-effort pattern matching, and a
// stricter allow-list implementation can be swapped in without touching the
// decision function. Treat it as a redaction aid, not a security boundary.
type Redactor interface {
	MaskCompanyNames(text string) string
	GeneralizeLocation(location string) string
	GeneralizeTitle(title string) string
}

// HeuristicRedactor is the default Redactor.
type HeuristicRedactor struct{}

var (
	// Capitalized word run immediately followed by a corporate suffix.
	companySuffixPattern = regexp.MustCompile(`(?:[A-Z][A-Za-z&'-]*\s+)*[A-Z][A-Za-z&'-]*,?\s+(?:Inc|LLC|Ltd|Corp|Corporation|Company|Co|Group|Partners|LLP)\b`)

	// "at <Capitalized Words>" catches employer mentions without a suffix.
	employerAtPattern = regexp.MustCompile(`\bat\s+[A-Z][A-Za-z&'-]*(?:\s+[A-Z][A-Za-z&'-]*)*`)
)

// locationRegions maps normalized city/country strings to coarse regions.
// Unrecognized locations pass through unchanged; false precision is worse
// than recognizability only when a mapping actually exists.
var locationRegions = map[string]string{
	"new york":       "Northeast US",
	"new york city":  "Northeast US",
	"nyc":            "Northeast US",
	"boston":         "Northeast US",
	"philadelphia":   "Northeast US",
	"washington dc":  "Northeast US",
	"san francisco":  "West Coast US",
	"bay area":       "West Coast US",
	"oakland":        "West Coast US",
	"seattle":        "West Coast US",
	"los angeles":    "West Coast US",
	"san diego":      "West Coast US",
	"portland":       "West Coast US",
	"chicago":        "Midwest US",
	"detroit":        "Midwest US",
	"minneapolis":    "Midwest US",
	"austin":         "Southern US",
	"dallas":         "Southern US",
	"houston":        "Southern US",
	"atlanta":        "Southern US",
	"miami":          "Southern US",
	"denver":         "Mountain West US",
	"salt lake city": "Mountain West US",
	"phoenix":        "Mountain West US",
	"london":         "United Kingdom",
	"uk":             "United Kingdom",
	"england":        "United Kingdom",
	"manchester":     "United Kingdom",
	"edinburgh":      "United Kingdom",
	"berlin":         "Europe",
	"paris":          "Europe",
	"amsterdam":      "Europe",
	"dublin":         "Europe",
	"zurich":         "Europe",
	"toronto":        "Canada",
	"vancouver":      "Canada",
	"singapore":      "Asia Pacific",
	"sydney":         "Asia Pacific",
	"tokyo":          "Asia Pacific",
	"bangalore":      "Asia Pacific",
}

type keywordGroup struct {
	words []string
	label string
}

// Order matters in both tables: the first matching group wins. People/HR is
// checked before operations so "VP of People Operations" generalizes to
// "VP-level People", not "VP-level Operations".
var seniorityKeywords = []keywordGroup{
	{[]string{"senior", "sr"}, "Senior"},
	{[]string{"principal", "lead"}, "Lead"},
	{[]string{"vice president", "vp"}, "VP-level"},
	{[]string{"director"}, "Director"},
	{[]string{"head"}, "Head"},
	{[]string{"junior", "jr"}, "Junior"},
	{[]string{"manager"}, "Manager"},
}

var functionKeywords = []keywordGroup{
	{[]string{"engineer", "developer"}, "Engineer"},
	{[]string{"design"}, "Designer"},
	{[]string{"product"}, "Product"},
	{[]string{"marketing"}, "Marketing"},
	{[]string{"sales"}, "Sales"},
	{[]string{"people", "hr", "recruit"}, "People"},
	{[]string{"operations", "ops"}, "Operations"},
	{[]string{"finance", "accounting"}, "Finance"},
	{[]string{"legal", "attorney"}, "Legal"},
}

// MaskCompanyNames replaces likely company mentions with "[Company]". It will
// miss some names and occasionally over-mask.
func (HeuristicRedactor) MaskCompanyNames(text string) string {
	if text == "" {
		return text
	}
	masked := companySuffixPattern.ReplaceAllString(text, "[Company]")
	masked = employerAtPattern.ReplaceAllString(masked, "at [Company]")
	return masked
}

// GeneralizeLocation maps a city-level location to a coarse region. Anything
// containing "remote" becomes "Remote"; unmapped strings pass through.
func (HeuristicRedactor) GeneralizeLocation(location string) string {
	norm := strings.ToLower(strings.TrimSpace(location))
	if norm == "" {
		return location
	}
	if strings.Contains(norm, "remote") {
		return "Remote"
	}
	if region, ok := locationRegions[norm]; ok {
		return region
	}
	// "New York, NY" style: try the part before the first comma.
	if city, _, found := strings.Cut(norm, ","); found {
		if region, ok := locationRegions[strings.TrimSpace(city)]; ok {
			return region
		}
	}
	return location
}

// GeneralizeTitle classifies a free-text job title into "{Seniority}
// {Function}", or just "{Function}" when no seniority keyword matches.
// Unclassifiable titles become "Professional".
func (HeuristicRedactor) GeneralizeTitle(title string) string {
	norm := strings.ToLower(title)
	tokens := tokenize(norm)

	seniority := ""
	for _, group := range seniorityKeywords {
		if matchesAny(norm, tokens, group.words) {
			seniority = group.label
			break
		}
	}

	function := "Professional"
	for _, group := range functionKeywords {
		if matchesAny(norm, tokens, group.words) {
			function = group.label
			break
		}
	}

	if seniority == "" {
		return function
	}
	return seniority + " " + function
}

func matchesAny(norm string, tokens []string, words []string) bool {
	for _, w := range words {
		if strings.Contains(w, " ") {
			if strings.Contains(norm, w) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			// Prefix matching lets "design" catch "designer" and "engineer"
			// catch "engineering"; short keywords like "vp" stay exact.
			if tok == w || (len(w) >= 4 && strings.HasPrefix(tok, w)) {
				return true
			}
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r < 'a' || r > 'z'
	})
}
