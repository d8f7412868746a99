package genre

import "strings"

// CanonicalAliases maps catalog category and subject slugs to canonical quiz genre slugs.
// Google Books uses BISAC-style categories ("Fiction / Mystery & Detective"),
// Open Library uses free-form subjects ("Detective and mystery stories").
var CanonicalAliases = map[string][]string{
	// Science Fiction
	"sci-fi":                          {"science-fiction"},
	"scifi":                           {"science-fiction"},
	"sf":                              {"science-fiction"},
	"science-fiction-fantasy":         {"science-fiction", "fantasy"},
	"fiction-science-fiction":         {"science-fiction"},
	"space-opera":                     {"science-fiction"},
	"dystopias":                       {"science-fiction"},
	"fiction-science-fiction-general": {"science-fiction"},

	// Fantasy
	"fantasy-fiction": {"fantasy"},
	"epic-fantasy":    {"fantasy"},
	"magic":           {"fantasy"},

	// Mystery / Thriller
	"mystery-detective":             {"mystery"},
	"detective-and-mystery-stories": {"mystery"},
	"mystery-thriller-suspense":     {"mystery", "thriller"},
	"mystery-and-detective-stories": {"mystery"},
	"crime":                         {"mystery", "thriller"},
	"suspense":                      {"thriller"},
	"thrillers":                     {"thriller"},
	"psychological-fiction":         {"thriller", "literary-fiction"},
	"thrillers-suspense":            {"thriller"},

	// Romance
	"love-stories":            {"romance"},
	"romance-contemporary":    {"romance"},
	"man-woman-relationships": {"romance"},

	// Non-fiction families
	"nonfiction":                    {"non-fiction"},
	"biography-autobiography":       {"biography", "non-fiction"},
	"biographies":                   {"biography", "non-fiction"},
	"memoir":                        {"biography", "non-fiction"},
	"autobiography":                 {"biography", "non-fiction"},
	"self-help-techniques":          {"self-help"},
	"self-actualization-psychology": {"self-help"},
	"personal-development":          {"self-help"},
	"success":                       {"self-help"},
	"selfhelp":                      {"self-help"},
	"history-general":               {"history", "non-fiction"},
	"world-history":                 {"history", "non-fiction"},

	// Fiction families
	"literary":           {"literary-fiction"},
	"fiction-literary":   {"literary-fiction"},
	"literature":         {"literary-fiction", "fiction"},
	"general-fiction":    {"fiction"},
	"fiction-general":    {"fiction"},
	"historical-fiction": {"history", "fiction"},

	// Horror
	"horror-tales":  {"horror"},
	"ghost-stories": {"horror"},
	"scary":         {"horror"},
}

// NormalizeToSlugs takes a raw genre or category string and returns canonical slug(s).
// BISAC-style paths are split on "/" and each segment is normalized too.
// Returns the slugified input if no specific mapping is found.
func NormalizeToSlugs(raw string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(slugs ...string) {
		for _, s := range slugs {
			if s != "" && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}

	slug := Slugify(raw)
	if canonical, ok := CanonicalAliases[slug]; ok {
		add(canonical...)
	} else {
		add(slug)
	}

	if strings.Contains(raw, "/") {
		for part := range strings.SplitSeq(raw, "/") {
			s := Slugify(part)
			if canonical, ok := CanonicalAliases[s]; ok {
				add(canonical...)
			} else {
				add(s)
			}
		}
	}

	return out
}
