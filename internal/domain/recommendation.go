package domain

// Score bounds for MatchScore.
const (
	MinMatchScore = 0
	MaxMatchScore = 100
)

// Analytics are the reading characteristics attached to a recommendation.
type Analytics struct {
	PageCount int      `json:"pageCount"`
	Pacing    Pacing   `json:"pacing"`
	Moods     []string `json:"moods"`
	Themes    []string `json:"themes"`
}

// Recommendation is a single ranked book suggestion.
// MatchScore is always within [0,100] and Analytics.Pacing is always valid.
type Recommendation struct {
	Title            string       `json:"title"`
	Author           string       `json:"author"`
	Description      string       `json:"description"`
	MatchScore       int          `json:"matchScore"`
	MatchExplanation string       `json:"matchExplanation"`
	Analytics        Analytics    `json:"analytics"`
	CoverURL         string       `json:"coverUrl,omitempty"`
	CatalogID        string       `json:"catalogId,omitempty"`
	CatalogSource    SourceSystem `json:"catalogSource,omitempty"`
}

// Key returns the dedup key for the recommendation.
func (r *Recommendation) Key() string {
	return DedupKey(r.Title, r.Author)
}

// ClampScore bounds a score to [MinMatchScore, MaxMatchScore].
func ClampScore(score int) int {
	return max(MinMatchScore, min(MaxMatchScore, score))
}
