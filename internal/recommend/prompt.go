package recommend

import (
	"fmt"
	"strings"

	"github.com/vibereader/vibereader-server/internal/domain"
)

// Mood slider thresholds. Values in [moodLow, moodHigh] add no adjective.
const (
	moodLow  = 40
	moodHigh = 60

	// focusMidpoint and below is character-driven.
	focusMidpoint = 50
)

// MoodDescription turns the two mood sliders into at most two adjectives.
func MoodDescription(happySad, hopefulBleak int) string {
	var parts []string

	switch {
	case happySad < moodLow:
		parts = append(parts, "melancholic")
	case happySad > moodHigh:
		parts = append(parts, "uplifting")
	}

	switch {
	case hopefulBleak < moodLow:
		parts = append(parts, "bleak")
	case hopefulBleak > moodHigh:
		parts = append(parts, "hopeful")
	}

	if len(parts) == 0 {
		return "balanced"
	}
	return strings.Join(parts, " and ")
}

// FocusDescription binarizes the focus slider.
func FocusDescription(focus int) string {
	if focus > focusMidpoint {
		return "plot-driven"
	}
	return "character-driven"
}

// BuildQuizPrompt renders the quiz prompt asking for QuizCap books.
func BuildQuizPrompt(prefs domain.QuizPreferences) string {
	var b strings.Builder
	b.WriteString("You are a book recommendation expert. User preferences:\n")
	fmt.Fprintf(&b, "- Genres: %s\n", strings.Join(prefs.Genres, ", "))
	fmt.Fprintf(&b, "- Mood: %s\n", MoodDescription(prefs.MoodHappySad, prefs.MoodHopefulBleak))
	fmt.Fprintf(&b, "- Pacing: %s\n", prefs.Pacing)
	fmt.Fprintf(&b, "- Length: %s\n", prefs.Length)
	fmt.Fprintf(&b, "- Focus: %s\n", FocusDescription(prefs.Focus))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Return ONLY valid JSON array with %d books. Do not include any other text:\n", QuizCap)
	b.WriteString(`[{
  "title": "Book Title",
  "author": "Author Name",
  "description": "Two engaging sentences",
  "matchScore": 92,
  "matchExplanation": "Why this matches the preferences",
  "analytics": {
    "pageCount": 310,
    "pacing": "fast",
    "moods": ["dark", "tense", "mysterious"],
    "themes": ["family", "identity"]
  }
}]`)
	return b.String()
}

// BuildVibePrompt renders the vibe prompt asking for VibeCap books.
func BuildVibePrompt(v domain.Vibe) string {
	return VibePrompt(v, VibeCap)
}

// VibePrompt renders the vibe prompt asking for count books.
func VibePrompt(v domain.Vibe, count int) string {
	p := profileFor(v)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a book recommendation expert. Recommend books that match the %q vibe.\n\n", string(v))
	fmt.Fprintf(&b, "Vibe description: %s\n\n", v.Descriptor())
	fmt.Fprintf(&b, "Return ONLY valid JSON array with %d books. Do not include any other text:\n", count)
	fmt.Fprintf(&b, `[{
  "title": "Book Title",
  "author": "Author Name",
  "description": "Two engaging sentences explaining why this book matches the %[1]s vibe",
  "matchScore": 92,
  "matchExplanation": "Why this book perfectly captures %[1]s energy",
  "analytics": {
    "pageCount": 310,
    "pacing": "%[2]s",
    "moods": [%[3]s],
    "themes": [%[4]s]
  }
}]`, v, p.pacing, quoteList(p.moods), quoteList(p.themes))
	return b.String()
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
