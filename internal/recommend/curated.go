package recommend

import (
	"fmt"
	"slices"

	"github.com/vibereader/vibereader-server/internal/domain"
)

// curatedFloor is the lowest score a curated title can be given.
const curatedFloor = 75

var curatedShelf = []domain.Recommendation{
	{
		Title:       "The Midnight Library",
		Author:      "Matt Haig",
		Description: "Between life and death, there is a library with infinite books and infinite lives. A thought-provoking journey through choices and possibilities.",
		MatchScore:  95,
		Analytics: domain.Analytics{
			PageCount: 304,
			Pacing:    domain.PacingMedium,
			Moods:     []string{"uplifting", "thought-provoking", "hopeful"},
			Themes:    []string{"choices", "identity", "second chances"},
		},
	},
	{
		Title:            "Project Hail Mary",
		Author:           "Andy Weir",
		Description:      "A lone astronaut must save the earth from disaster in this propulsive, cinematic science thriller. Fast-paced and deeply engaging.",
		MatchScore:       88,
		MatchExplanation: "Matches your preference for plot-driven stories with thrilling pacing.",
		Analytics: domain.Analytics{
			PageCount: 496,
			Pacing:    domain.PacingFast,
			Moods:     []string{"tense", "hopeful", "adventurous"},
			Themes:    []string{"survival", "science", "humanity"},
		},
	},
	{
		Title:            "The House in the Cerulean Sea",
		Author:           "TJ Klune",
		Description:      "A magical island, a dangerous task, a burning secret. A story about the profound experience of discovering an unlikely family.",
		MatchScore:       92,
		MatchExplanation: "Character-driven with uplifting themes that match your mood preferences.",
		Analytics: domain.Analytics{
			PageCount: 394,
			Pacing:    domain.PacingMedium,
			Moods:     []string{"uplifting", "lighthearted", "emotional"},
			Themes:    []string{"family", "acceptance", "magic"},
		},
	},
	{
		Title:            "The Silent Patient",
		Author:           "Alex Michaelides",
		Description:      "A woman shoots her husband and then never speaks another word. A criminal psychotherapist becomes obsessed with uncovering her motive.",
		MatchScore:       85,
		MatchExplanation: "Fast-paced psychological thriller with dark, mysterious elements.",
		Analytics: domain.Analytics{
			PageCount: 325,
			Pacing:    domain.PacingFast,
			Moods:     []string{"suspenseful", "dark", "mysterious"},
			Themes:    []string{"psychology", "secrets", "obsession"},
		},
	},
	{
		Title:            "Where the Crawdads Sing",
		Author:           "Delia Owens",
		Description:      "A coming-of-age story about a young girl who raises herself in the marshes of North Carolina while becoming a suspect in a murder investigation.",
		MatchScore:       90,
		MatchExplanation: "Beautiful character study with mystery elements at your preferred pacing.",
		Analytics: domain.Analytics{
			PageCount: 384,
			Pacing:    domain.PacingMedium,
			Moods:     []string{"emotional", "mysterious", "atmospheric"},
			Themes:    []string{"nature", "isolation", "resilience"},
		},
	},
}

// Curated returns the built-in shelf with jittered scores. subject completes
// "Perfect match for your ..." in the first title's explanation, for example
// "Mystery preferences" or "Calm vibe".
func Curated(subject string, pacing domain.Pacing, jitter func() int) []domain.Recommendation {
	out := make([]domain.Recommendation, len(curatedShelf))
	for i, rec := range curatedShelf {
		rec.Analytics.Moods = slices.Clone(rec.Analytics.Moods)
		rec.Analytics.Themes = slices.Clone(rec.Analytics.Themes)
		if rec.MatchExplanation == "" {
			rec.MatchExplanation = fmt.Sprintf("Perfect match for your %s with uplifting themes and %s pacing.", subject, pacing)
		}
		rec.MatchScore = max(curatedFloor, rec.MatchScore-jitter())
		out[i] = rec
	}
	return out
}
