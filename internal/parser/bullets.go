package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxBullets      = 20
	minBulletLength = 11
)

var bulletGlyphs = regexp.MustCompile(`[•\-\*▪▫‣⁃]\s*`)

// ExtractBullets splits experience text into achievement bullets. When the
// glyph split yields at most one usable fragment the text is split by line.
func ExtractBullets(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	bullets := keepFragments(bulletGlyphs.Split(text, -1))
	if len(bullets) <= 1 {
		bullets = keepFragments(strings.Split(text, "\n"))
	}
	if len(bullets) > MaxBullets {
		bullets = bullets[:MaxBullets]
	}
	return bullets
}

func keepFragments(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) < minBulletLength {
			continue
		}
		out = append(out, p)
	}
	return out
}
