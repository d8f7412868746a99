package recommend

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrExtraction means no JSON suggestion array could be parsed from provider text.
var ErrExtraction = errors.New("recommend: no parseable suggestion array")

var fencedArray = regexp.MustCompile("(?is)```json\\s*(\\[.*?\\])\\s*```")

// RawSuggestion is one suggestion as the provider wrote it. Absent fields
// stay nil or empty; Normalize fills them.
type RawSuggestion struct {
	Title            string        `json:"title"`
	Author           string        `json:"author"`
	Description      string        `json:"description"`
	MatchScore       *Number       `json:"matchScore"`
	MatchExplanation string        `json:"matchExplanation"`
	Analytics        *RawAnalytics `json:"analytics"`
}

// RawAnalytics is the provider's analytics block.
type RawAnalytics struct {
	PageCount *Number  `json:"pageCount"`
	Pacing    string   `json:"pacing"`
	Moods     []string `json:"moods"`
	Themes    []string `json:"themes"`
}

// Number accepts a JSON number or a numeric string. Anything else, and NaN,
// decodes as absent so one bad field never rejects the whole array.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f = math.NaN()
	}
	*n = Number(f)
	return nil
}

// IntIn rounds n into [lo, hi]. Infinities and huge magnitudes land on the
// bounds. ok is false when n is nil or absent.
func (n *Number) IntIn(lo, hi int) (v int, ok bool) {
	if n == nil || math.IsNaN(float64(*n)) {
		return 0, false
	}
	f := math.Round(float64(*n))
	return int(max(float64(lo), min(float64(hi), f))), true
}

// ExtractSuggestions finds the suggestion array in provider text.
// A fenced ```json block wins; otherwise the span from the first '[' to the
// last ']' is parsed. Member names match case-insensitively.
func ExtractSuggestions(raw string) ([]RawSuggestion, error) {
	candidate, ok := locateArray(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no array in %d bytes of text", ErrExtraction, len(raw))
	}

	var out []RawSuggestion
	if err := json.Unmarshal([]byte(candidate), &out, json.MatchCaseInsensitiveNames(true)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	if out == nil {
		out = []RawSuggestion{}
	}
	return out, nil
}

func locateArray(raw string) (string, bool) {
	if m := fencedArray.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
