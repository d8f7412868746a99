package recommend

import (
	"fmt"
	"strings"

	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/textutil"
)

// Flow is the kind of request being served.
type Flow string

// Flows.
const (
	FlowQuiz Flow = "quiz"
	FlowVibe Flow = "vibe"
)

// Per-flow output caps.
const (
	QuizCap = 5
	VibeCap = 6
)

// Cap is the maximum number of recommendations for the flow.
func (f Flow) Cap() int {
	if f == FlowVibe {
		return VibeCap
	}
	return QuizCap
}

// Default values for fields a provider leaves out.
const (
	DefaultPageCount = 300
	maxPageCount     = 10000
	DefaultTheme     = "Fiction"

	quizDefaultScore = 85
	vibeDefaultScore = 90
)

// Defaults is the fill-in table applied to every provider suggestion.
type Defaults struct {
	Flow        Flow
	PageCount   int
	Pacing      domain.Pacing
	Moods       []string
	Themes      []string
	MatchScore  int
	Explanation string
}

// QuizDefaults builds the table for a quiz request.
func QuizDefaults(prefs domain.QuizPreferences) Defaults {
	mood := MoodDescription(prefs.MoodHappySad, prefs.MoodHopefulBleak)
	return Defaults{
		Flow:       FlowQuiz,
		PageCount:  DefaultPageCount,
		Pacing:     domain.PacingMedium,
		Moods:      []string{mood},
		Themes:     []string{DefaultTheme},
		MatchScore: quizDefaultScore,
		Explanation: fmt.Sprintf("Recommended for your interest in %s with a %s mood.",
			strings.Join(prefs.Genres, ", "), mood),
	}
}

// VibeDefaults builds the table for a vibe request.
func VibeDefaults(v domain.Vibe) Defaults {
	return Defaults{
		Flow:        FlowVibe,
		PageCount:   DefaultPageCount,
		Pacing:      domain.PacingMedium,
		Moods:       []string{strings.ToLower(string(v))},
		Themes:      []string{DefaultTheme},
		MatchScore:  vibeDefaultScore,
		Explanation: fmt.Sprintf("Captures the %s vibe you're looking for.", v),
	}
}

// Normalize fills every missing field of s from d and clamps the score.
func Normalize(s RawSuggestion, d Defaults) domain.Recommendation {
	rec := domain.Recommendation{
		Title:            strings.TrimSpace(s.Title),
		Author:           strings.TrimSpace(s.Author),
		Description:      textutil.StripHTML(s.Description),
		MatchScore:       d.MatchScore,
		MatchExplanation: textutil.StripHTML(s.MatchExplanation),
		Analytics: domain.Analytics{
			PageCount: d.PageCount,
			Pacing:    d.Pacing,
			Moods:     cleanList(nil, d.Moods),
			Themes:    cleanList(nil, d.Themes),
		},
	}

	if rec.Author == "" {
		rec.Author = domain.UnknownAuthor
	}
	if score, ok := s.MatchScore.IntIn(domain.MinMatchScore, domain.MaxMatchScore); ok {
		rec.MatchScore = score
	}
	rec.MatchScore = domain.ClampScore(rec.MatchScore)
	if rec.MatchExplanation == "" {
		rec.MatchExplanation = d.Explanation
	}

	if a := s.Analytics; a != nil {
		if pages, ok := a.PageCount.IntIn(0, maxPageCount); ok && pages > 0 {
			rec.Analytics.PageCount = pages
		}
		if strings.TrimSpace(a.Pacing) != "" {
			rec.Analytics.Pacing = domain.ParsePacing(a.Pacing)
		}
		rec.Analytics.Moods = cleanList(a.Moods, d.Moods)
		rec.Analytics.Themes = cleanList(a.Themes, d.Themes)
	}
	if !rec.Analytics.Pacing.Valid() {
		rec.Analytics.Pacing = domain.PacingMedium
	}
	return rec
}

// cleanList trims items and drops blanks, returning a copy of fallback when
// nothing is left.
func cleanList(items, fallback []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, fallback...)
	}
	return out
}
