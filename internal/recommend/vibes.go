package recommend

import "github.com/vibereader/vibereader-server/internal/domain"

// vibeProfile is the fixed catalog strategy for a vibe.
type vibeProfile struct {
	queries []string
	pacing  domain.Pacing
	moods   []string
	themes  []string
}

var vibeProfiles = map[domain.Vibe]vibeProfile{
	domain.VibeEnergetic: {
		queries: []string{"subject:thriller", "subject:adventure", "subject:action"},
		pacing:  domain.PacingFast,
		moods:   []string{"energetic", "thrilling", "exciting"},
		themes:  []string{"adventure", "discovery"},
	},
	domain.VibeCalm: {
		queries: []string{"subject:meditation", "subject:nature", "subject:poetry"},
		pacing:  domain.PacingSlow,
		moods:   []string{"calm", "peaceful", "relaxing"},
		themes:  []string{"meditation", "nature"},
	},
	domain.VibeMotivated: {
		queries: []string{"subject:self-help", "subject:biography", "subject:success"},
		pacing:  domain.PacingMedium,
		moods:   []string{"motivated", "inspiring", "empowering"},
		themes:  []string{"growth", "ambition"},
	},
	domain.VibeReflective: {
		queries: []string{"subject:philosophy", "subject:literary fiction", "subject:memoir"},
		pacing:  domain.PacingSlow,
		moods:   []string{"reflective", "thoughtful", "introspective"},
		themes:  []string{"meaning", "memory"},
	},
}

func profileFor(v domain.Vibe) vibeProfile {
	if p, ok := vibeProfiles[v]; ok {
		return p
	}
	return vibeProfile{pacing: domain.PacingMedium}
}

// subjects returns the query subjects without the "subject:" prefix.
func (p vibeProfile) subjects() []string {
	out := make([]string, 0, len(p.queries))
	for _, q := range p.queries {
		out = append(out, q[len("subject:"):])
	}
	return out
}
