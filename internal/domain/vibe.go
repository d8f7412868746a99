package domain

import (
	"fmt"
	"strings"
)

// Vibe is a single-label shortcut for the preference quiz.
type Vibe string

// Known vibes.
const (
	VibeEnergetic  Vibe = "Energetic"
	VibeCalm       Vibe = "Calm"
	VibeMotivated  Vibe = "Motivated"
	VibeReflective Vibe = "Reflective"
)

// AllVibes lists the vibes in display order.
var AllVibes = []Vibe{VibeEnergetic, VibeCalm, VibeMotivated, VibeReflective}

var vibeDescriptors = map[Vibe]string{
	VibeEnergetic:  "fast-paced, action-packed, thrilling books with high energy and excitement",
	VibeCalm:       "peaceful, meditative, slow-paced books that promote relaxation and contemplation",
	VibeMotivated:  "inspiring, empowering books about growth, ambition and achieving goals",
	VibeReflective: "thoughtful, introspective books that explore meaning, memory and the human condition",
}

// ParseVibe matches a vibe name case-insensitively.
func ParseVibe(s string) (Vibe, error) {
	for _, v := range AllVibes {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown vibe %q", s)
}

// Descriptor returns the natural-language description used in prompts.
func (v Vibe) Descriptor() string {
	return vibeDescriptors[v]
}

// Valid reports whether v is a known vibe.
func (v Vibe) Valid() bool {
	_, ok := vibeDescriptors[v]
	return ok
}
