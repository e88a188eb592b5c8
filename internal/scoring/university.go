package scoring

import (
	"fmt"
	"strings"
)

type UniversityMatchResult struct {
	OverallScore     float64  `json:"overall_score"`
	Relevance        string   `json:"relevance"`
	MatchedKeywords  []string `json:"matched_keywords"`
	DomainMatchScore float64  `json:"domain_match_score"`
	MajorMatchScore  float64  `json:"major_match_score"`
	Suggestions      []string `json:"suggestions"`
}

type universityProfile struct {
	domain   []string
	keywords []string
}

// Curated domain profiles for the supported target universities.
var universityProfiles = map[string]universityProfile{
	"Xi'an Jiaotong University": {
		domain:   []string{"engineering", "computer", "technology", "mechanical", "materials"},
		keywords: []string{"innovation", "robotics", "aerospace", "energy"},
	},
	"Northwestern Polytechnical University": {
		domain:   []string{"aeronautics", "materials", "marine", "computer"},
		keywords: []string{"design", "simulation", "testing"},
	},
	"Xidian University": {
		domain:   []string{"electronics", "communication", "information", "technology"},
		keywords: []string{"semiconductor", "microchip", "circuit", "signal"},
	},
	"Northwest University": {
		domain:   []string{"archaeology", "history", "literature", "philosophy", "economics"},
		keywords: []string{"ancient", "heritage", "methodology"},
	},
}

var majorKeywords = map[string][]string{
	"Computer Science":       {"computer", "programming", "algorithm", "software", "data", "network", "ai", "machine"},
	"Electronic Engineering": {"circuit", "chip", "hardware", "embedded", "vlsi", "fpga"},
	"Mechanical Engineering": {"mechanical", "design", "cad", "manufacturing", "materials", "robotics"},
	"Materials Science":      {"materials", "properties", "nanotechnology", "polymer", "composite", "metallurgy"},
}

// ScoreUniversityMatch rates how well an answer aligns with the target
// university's domain vocabulary and the target major's keyword set.
func ScoreUniversityMatch(answer, university, major string) UniversityMatchResult {
	tokens := strings.Fields(strings.ToLower(answer))

	domainScore := matchUniversityDomain(tokens, university)
	majorScore := matchMajorDomain(tokens, major)
	overall := round2((domainScore + majorScore) / 2)

	return UniversityMatchResult{
		OverallScore:     overall,
		Relevance:        relevanceTier(overall),
		MatchedKeywords:  matchedKeywords(tokens, university, major),
		DomainMatchScore: domainScore,
		MajorMatchScore:  majorScore,
		Suggestions:      matchSuggestions(overall, university, major),
	}
}

// matchUniversityDomain counts exact token hits against the university's
// domain keyword set.
func matchUniversityDomain(tokens []string, university string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	domain := make(map[string]bool)
	for _, kw := range universityProfiles[university].domain {
		domain[strings.ToLower(kw)] = true
	}

	matches := 0
	for _, t := range tokens {
		if domain[t] {
			matches++
		}
	}

	return clamp(float64(matches)/float64(len(tokens))*100, 0, 100)
}

// matchMajorDomain counts tokens containing any major keyword as a
// substring, so inflected forms still match.
func matchMajorDomain(tokens []string, major string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	keywords := majorKeywords[major]

	matches := 0
	for _, t := range tokens {
		for _, kw := range keywords {
			if strings.Contains(t, strings.ToLower(kw)) {
				matches++
				break
			}
		}
	}

	return clamp(float64(matches)/float64(len(tokens))*100, 0, 100)
}

func matchedKeywords(tokens []string, university, major string) []string {
	all := make(map[string]bool)
	for _, kw := range universityProfiles[university].keywords {
		all[strings.ToLower(kw)] = true
	}
	for _, kw := range majorKeywords[major] {
		all[strings.ToLower(kw)] = true
	}

	matched := []string{}
	for _, t := range tokens {
		if all[t] {
			matched = append(matched, t)
		}
	}
	return matched
}

func relevanceTier(score float64) string {
	switch {
	case score >= 85:
		return "high"
	case score >= 70:
		return "medium"
	case score >= 50:
		return "low"
	default:
		return "none"
	}
}

func matchSuggestions(score float64, university, major string) []string {
	switch {
	case score < 60:
		return []string{fmt.Sprintf("Try to incorporate more vocabulary related to %s and %s", university, major)}
	case score < 80:
		return []string{fmt.Sprintf("Good start! Try to add more specific details about %s", major)}
	default:
		return []string{fmt.Sprintf("Excellent answer that aligns well with %s's %s program!", university, major)}
	}
}
