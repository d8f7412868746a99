// Package domain contains the core entities of the VibeReader recommendation pipeline.
package domain

import "strings"

// Pacing describes how quickly a book moves.
type Pacing string

// Pacing values.
const (
	PacingSlow   Pacing = "slow"
	PacingMedium Pacing = "medium"
	PacingFast   Pacing = "fast"
)

// Valid reports whether p is one of the known pacing values.
func (p Pacing) Valid() bool {
	switch p {
	case PacingSlow, PacingMedium, PacingFast:
		return true
	default:
		return false
	}
}

// ParsePacing normalizes a free-form pacing string.
// Unknown values map to PacingMedium.
func ParsePacing(s string) Pacing {
	p := Pacing(strings.ToLower(strings.TrimSpace(s)))
	if p.Valid() {
		return p
	}
	return PacingMedium
}

// Length is the preferred book length bucket.
type Length string

// Length values.
const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Page count thresholds for length buckets.
const (
	shortMaxPages  = 250 // short: < 250
	mediumMaxPages = 400 // medium: 250..400 inclusive, long: > 400
)

// Valid reports whether l is one of the known length values.
func (l Length) Valid() bool {
	switch l {
	case LengthShort, LengthMedium, LengthLong:
		return true
	default:
		return false
	}
}

// Matches reports whether a page count falls inside the length bucket.
func (l Length) Matches(pageCount int) bool {
	switch l {
	case LengthShort:
		return pageCount < shortMaxPages
	case LengthMedium:
		return pageCount >= shortMaxPages && pageCount <= mediumMaxPages
	case LengthLong:
		return pageCount > mediumMaxPages
	default:
		return false
	}
}

// QuizPreferences are the answers a reader gives in the preference quiz.
// Sliders run from 0 to 100. Low Focus means character-driven.
type QuizPreferences struct {
	Genres           []string `json:"genres" validate:"required,min=1,dive,required"`
	MoodHappySad     int      `json:"moodHappySad" validate:"min=0,max=100"`
	MoodHopefulBleak int      `json:"moodHopefulBleak" validate:"min=0,max=100"`
	Pacing           Pacing   `json:"pacing" validate:"required,oneof=slow medium fast"`
	Length           Length   `json:"length" validate:"required,oneof=short medium long"`
	Focus            int      `json:"focus" validate:"min=0,max=100"`
}
