package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/nextstep/internal/model"
)

func TestSegmentEducationThenExperience(t *testing.T) {
	text := "Jane Doe\njane@example.com\nEDUCATION\nBSc Computer Science, MIT\n\nEXPERIENCE\n• Built the billing pipeline\n• Led a team of five engineers\n"
	sections := Segment(text)

	require.Equal(t, "BSc Computer Science, MIT", sections[model.SectionEducation])
	exp := sections[model.SectionExperience]
	require.Equal(t, "• Built the billing pipeline\n• Led a team of five engineers", exp)
	require.NotContains(t, exp, "EXPERIENCE")
	require.NotContains(t, exp, "EDUCATION")
	require.NotContains(t, sections, model.SectionSkills)
}

func TestSegmentDropsPreamble(t *testing.T) {
	sections := Segment("John Smith\n555-123-4567\nSKILLS\nGo, SQL")
	require.Len(t, sections, 1)
	require.Equal(t, "Go, SQL", sections[model.SectionSkills])
}

func TestSegmentHeaderMatchIsSubstringAndCaseInsensitive(t *testing.T) {
	sections := Segment("Professional Summary:\nBuilder of things\nwork experience\nAcme Corp")
	require.Equal(t, "Builder of things", sections[model.SectionSummary])
	require.Equal(t, "Acme Corp", sections[model.SectionExperience])
}

func TestSegmentTableOrderDecidesAmbiguousHeaders(t *testing.T) {
	// "PROJECT EXPERIENCE" contains EXPERIENCE, which is checked first.
	sections := Segment("PROJECT EXPERIENCE\nSide project")
	require.Equal(t, "Side project", sections[model.SectionExperience])
	require.NotContains(t, sections, model.SectionProjects)
}

func TestSegmentRepeatedHeaderKeepsLast(t *testing.T) {
	sections := Segment("SKILLS\nGo\nEDUCATION\nMIT\nSKILLS\nRust")
	require.Equal(t, "Rust", sections[model.SectionSkills])
}

func TestSegmentEmptySection(t *testing.T) {
	sections := Segment("SKILLS\n\nEDUCATION\nMIT")
	v, ok := sections[model.SectionSkills]
	require.True(t, ok)
	require.Equal(t, "", v)
}
