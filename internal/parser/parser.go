// Package parser turns uploaded resume files into a ParsedDocument: plain
// text, contact fields, sections and experience bullets.
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/nextstep/internal/model"
)

const minTextLength = 50

// Parse extracts and structures a resume given its raw bytes and file name.
func Parse(data []byte, filename string) (*model.ParsedDocument, error) {
	kind, err := KindFromFilename(filename)
	if err != nil {
		return nil, err
	}
	text, err := Extract(data, kind)
	if err != nil {
		return nil, err
	}
	return ParseText(text)
}

// ParseText structures already extracted text.
func ParseText(text string) (*model.ParsedDocument, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLength {
		return nil, fmt.Errorf("%w: fewer than %d characters", ErrEmptyDocument, minTextLength)
	}
	sections := Segment(text)
	doc := &model.ParsedDocument{
		Name:     ExtractName(text),
		Email:    ExtractEmail(text),
		Phone:    ExtractPhone(text),
		Sections: sections,
		Bullets:  ExtractBullets(sections[model.SectionExperience]),
		Text:     text,
	}
	doc.EducationCount = countLines(sections[model.SectionEducation])
	doc.ExperienceCount = len(doc.Bullets)
	return doc, nil
}

func countLines(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
