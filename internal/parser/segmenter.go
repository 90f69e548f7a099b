package parser

import (
	"strings"

	"github.com/xxxsen/nextstep/internal/model"
)

type sectionRule struct {
	name     model.SectionName
	keywords []string
}

// sectionRules is scanned in order; the first rule with a matching keyword wins.
var sectionRules = []sectionRule{
	{model.SectionEducation, []string{"EDUCATION", "ACADEMIC", "EDUCATIONAL BACKGROUND"}},
	{model.SectionExperience, []string{"EXPERIENCE", "WORK EXPERIENCE", "EMPLOYMENT", "PROFESSIONAL EXPERIENCE", "CAREER"}},
	{model.SectionSkills, []string{"SKILLS", "TECHNICAL SKILLS", "COMPETENCIES", "TECHNOLOGIES"}},
	{model.SectionProjects, []string{"PROJECTS", "PROJECT EXPERIENCE"}},
	{model.SectionSummary, []string{"SUMMARY", "PROFESSIONAL SUMMARY", "OBJECTIVE", "PROFILE"}},
	{model.SectionCertifications, []string{"CERTIFICATIONS", "CERTIFICATES", "LICENSES"}},
}

func matchHeader(line string) (model.SectionName, bool) {
	upper := strings.ToUpper(line)
	for _, rule := range sectionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(upper, kw) {
				return rule.name, true
			}
		}
	}
	return "", false
}

// Segment splits text into sections keyed by the header that opened them.
// Lines before the first header are dropped and header lines never appear
// in section bodies. A repeated header replaces the earlier section.
func Segment(text string) map[model.SectionName]string {
	sections := make(map[model.SectionName]string)
	var (
		current model.SectionName
		open    bool
		buf     []string
	)
	closeSection := func() {
		if open {
			sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if name, ok := matchHeader(line); ok {
			closeSection()
			current, open, buf = name, true, nil
			continue
		}
		if open {
			buf = append(buf, trimmed)
		}
	}
	closeSection()
	return sections
}
