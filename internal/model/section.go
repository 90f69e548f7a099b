package model

// SectionName identifies a recognised resume section.
type SectionName string

const (
	SectionSummary        SectionName = "summary"
	SectionEducation      SectionName = "education"
	SectionExperience     SectionName = "experience"
	SectionSkills         SectionName = "skills"
	SectionProjects       SectionName = "projects"
	SectionCertifications SectionName = "certifications"
)

// AllSections lists every section in segmenter table order.
var AllSections = []SectionName{
	SectionEducation,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionSummary,
	SectionCertifications,
}

func (s SectionName) Valid() bool {
	for _, item := range AllSections {
		if item == s {
			return true
		}
	}
	return false
}

type ParsedDocument struct {
	Name            string                 `json:"name,omitempty"`
	Email           string                 `json:"email,omitempty"`
	Phone           string                 `json:"phone,omitempty"`
	Sections        map[SectionName]string `json:"sections"`
	Bullets         []string               `json:"bullets"`
	Text            string                 `json:"text"`
	EducationCount  int                    `json:"education_count"`
	ExperienceCount int                    `json:"experience_count"`
}

func (p *ParsedDocument) Section(name SectionName) string {
	if p == nil || p.Sections == nil {
		return ""
	}
	return p.Sections[name]
}
