// Package match fuses semantic similarity, skill keywords and seniority
// hints into a single fit score.
package match

import (
	"math"
	"strings"

	"github.com/xxxsen/nextstep/internal/embedding"
	"github.com/xxxsen/nextstep/internal/model"
)

const (
	semanticWeight   = 0.5
	skillsWeight     = 0.3
	experienceWeight = 0.2

	MaxMissingSkills = 10
)

// SkillVocabulary is matched by substring on lower-cased text.
var SkillVocabulary = []string{
	"python", "javascript", "java", "react", "aws", "docker", "kubernetes",
	"sql", "machine learning", "data science", "agile", "scrum", "leadership",
	"project management", "communication", "team", "analytics", "cloud",
}

// levels are checked in order; the first present keyword is the level.
var levels = []string{"senior", "lead", "principal", "junior", "entry", "intern"}

type levelPair struct {
	job    string
	resume string
}

// Only these pairs reduce the experience component.
var downgrades = map[levelPair]float64{
	{job: "senior", resume: "junior"}: 60,
	{job: "lead", resume: "junior"}:   50,
}

// Score compares a resume with a job. A missing vector gives a zero
// semantic component.
func Score(resumeText string, resumeVec []float32, jobText string, jobVec []float32) model.MatchResult {
	semantic := 0.0
	if len(resumeVec) > 0 && len(jobVec) > 0 {
		semantic = clamp(embedding.Similarity(resumeVec, jobVec)*100, 0, 100)
	}

	resumeLower := strings.ToLower(resumeText)
	jobLower := strings.ToLower(jobText)

	jobSkills := SkillsIn(jobLower)
	matched := make([]string, 0, len(jobSkills))
	missing := make([]string, 0, len(jobSkills))
	for _, skill := range jobSkills {
		if strings.Contains(resumeLower, skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	skills := 0.0
	if len(jobSkills) > 0 {
		skills = float64(len(matched)) / float64(len(jobSkills)) * 100
	}
	if len(missing) > MaxMissingSkills {
		missing = missing[:MaxMissingSkills]
	}

	experience := ExperienceMatch(Level(jobLower), Level(resumeLower))

	return model.MatchResult{
		SemanticScore:   round1(semantic),
		SkillsMatch:     round1(skills),
		ExperienceMatch: round1(experience),
		OverallScore:    Overall(semantic, skills, experience),
		MatchedSkills:   matched,
		MissingSkills:   missing,
	}
}

// Overall is the weighted fusion of the three components, rounded to one decimal.
func Overall(semantic, skills, experience float64) float64 {
	return round1(clamp(semantic*semanticWeight+skills*skillsWeight+experience*experienceWeight, 0, 100))
}

// SkillsIn lists vocabulary entries present in text, in vocabulary order.
func SkillsIn(text string) []string {
	lower := strings.ToLower(text)
	out := make([]string, 0, len(SkillVocabulary))
	for _, skill := range SkillVocabulary {
		if strings.Contains(lower, skill) {
			out = append(out, skill)
		}
	}
	return out
}

// Requirements is SkillsIn with every word title-cased, as shown to the
// generation prompts.
func Requirements(jobText string) []string {
	skills := SkillsIn(jobText)
	for i, skill := range skills {
		words := strings.Fields(skill)
		for j, w := range words {
			words[j] = strings.ToUpper(w[:1]) + w[1:]
		}
		skills[i] = strings.Join(words, " ")
	}
	return skills
}

// Level returns the first seniority keyword present in text, or "".
func Level(text string) string {
	lower := strings.ToLower(text)
	for _, lvl := range levels {
		if strings.Contains(lower, lvl) {
			return lvl
		}
	}
	return ""
}

func ExperienceMatch(jobLevel, resumeLevel string) float64 {
	if jobLevel == "" || resumeLevel == "" {
		return 100
	}
	if v, ok := downgrades[levelPair{job: jobLevel, resume: resumeLevel}]; ok {
		return v
	}
	return 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
