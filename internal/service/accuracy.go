package service

import (
	"strings"

	"github.com/arbovm/levenshtein"

	"go-doc-recognizer/pkg/models"
)

// buildAccuracyReport compares recognized text against a caller-supplied
// transcript. CER is character-level edit distance over the expected length,
// WER the same at word granularity.
func buildAccuracyReport(expected, actual string) *models.AccuracyReport {
	expected = normalizeTranscript(expected)
	actual = normalizeTranscript(actual)

	report := &models.AccuracyReport{ExpectedText: expected}
	if expected == "" {
		return report
	}

	charDist := levenshtein.Distance(expected, actual)
	report.CER = float64(charDist) / float64(len([]rune(expected)))

	expectedWords := strings.Fields(expected)
	actualWords := strings.Fields(actual)
	report.WER = float64(wordEditDistance(expectedWords, actualWords)) / float64(len(expectedWords))

	score := 1.0 - report.CER
	if score < 0 {
		score = 0
	}
	report.MatchScore = score
	return report
}

// normalizeTranscript collapses whitespace so line breaks introduced by the
// recognizer do not count as errors
func normalizeTranscript(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wordEditDistance(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
