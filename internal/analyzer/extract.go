package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxExtractedPoints caps the points returned by ExtractBulletPoints.
const MaxExtractedPoints = 5

// Section keywords searched (lower-cased) in the model's analysis.
var (
	InsightKeywords        = []string{"insights", "hallazgos", "patrones"}
	RecommendationKeywords = []string{"recomendaciones", "acciones", "sugerencias"}
)

type sectionState int

const (
	stateOutside sectionState = iota
	stateInSection
)

const bulletMarkers = "•-*"

// ExtractBulletPoints scans text line by line for list items that follow a
// heading containing one of keywords.
//
// A line containing a keyword enters the section. Inside a section a
// non-empty line that does not start with a bullet marker or a digit 1-5
// leaves it, but only once at least one point has been collected. Bullet
// lines are kept without their leading markers; numbered lines ("1. text")
// are kept from after the first period.
func ExtractBulletPoints(text string, keywords []string) []string {
	var points []string
	state := stateOutside

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if containsAny(strings.ToLower(line), keywords) {
			state = stateInSection
			continue
		}

		if state == stateInSection && line != "" && !startsListItem(line) && len(points) > 0 {
			state = stateOutside
		}

		if state != stateInSection || line == "" {
			continue
		}

		switch {
		case strings.ContainsRune(bulletMarkers, firstRune(line)):
			points = append(points, strings.TrimLeft(line, bulletMarkers+" "))
		case unicode.IsDigit(firstRune(line)) && strings.Contains(firstRunes(line, 3), "."):
			_, rest, _ := strings.Cut(line, ".")
			points = append(points, strings.TrimSpace(rest))
		}
	}

	if len(points) > MaxExtractedPoints {
		points = points[:MaxExtractedPoints]
	}
	return points
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// startsListItem reports whether line opens with a bullet marker or a digit 1-5.
func startsListItem(line string) bool {
	r := firstRune(line)
	return strings.ContainsRune(bulletMarkers, r) || (r >= '1' && r <= '5')
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func firstRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
