package model

type MatchResult struct {
	SemanticScore   float64  `json:"semantic_score"`
	SkillsMatch     float64  `json:"skills_match"`
	ExperienceMatch float64  `json:"experience_match"`
	OverallScore    float64  `json:"overall_score"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
}
