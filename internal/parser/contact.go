package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const nameScanLines = 5

var (
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.]?\d{4}`),
		regexp.MustCompile(`\+\d{1,3}\s?\d{3}[-.]?\d{3}[-.]?\d{4}`),
	}
)

func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone tries each pattern in order and returns the first hit.
func ExtractPhone(text string) string {
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// ExtractName picks the first of the leading non-blank lines made of two
// to four capitalised words.
func ExtractName(text string) string {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if scanned == nameScanLines {
			break
		}
		scanned++
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if allCapitalised(words) {
			return line
		}
	}
	return ""
}

func allCapitalised(words []string) bool {
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
