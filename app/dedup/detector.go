package dedup

import (
	"strings"
	"unicode"
)

// Generic space-news words that carry no identity: two headlines both
// mentioning "우주" or "뉴스" says nothing about whether they cover the same
// event.
var stopTokens = map[string]bool{
	"우주": true, "뉴스": true, "소식": true, "기사": true,
	"발표": true, "오늘": true, "관련": true, "최신": true,
	"새로운": true, "새로": true,
}

const (
	charJaccardThreshold = 0.85
	minSharedTokens      = 2
	tokenOverlapRatio    = 0.7
)

// Detector decides whether a candidate title duplicates a previously admitted
// one. Three tiers, short-circuiting on the first hit: exact match catches
// re-publication, character-set Jaccard catches near-identical re-syndicated
// titles, keyword overlap catches paraphrased headlines about the same event.
// The cascade trades precision for recall; over-rejection is the safer failure
// mode for a public feed.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) IsDuplicate(title string, known map[string]struct{}) bool {
	if _, ok := known[title]; ok {
		return true
	}

	candChars := charSet(title)
	candTokens := tokenSet(title)

	for other := range known {
		if charJaccard(candChars, charSet(other)) > charJaccardThreshold {
			return true
		}
		if tokenOverlap(candTokens, tokenSet(other)) {
			return true
		}
	}

	return false
}

// charSet treats a title as a set of characters, ignoring spaces.
func charSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		set[r] = struct{}{}
	}
	return set
}

func charJaccard(a, b map[rune]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for r := range a {
		if _, ok := b[r]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// tokenSet extracts meaningful tokens: alphanumeric runs of at least two
// characters, minus the generic stopword list.
func tokenSet(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	var run []rune
	flush := func() {
		if len(run) >= 2 {
			tok := strings.ToLower(string(run))
			if !stopTokens[tok] {
				tokens[tok] = struct{}{}
			}
		}
		run = run[:0]
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// tokenOverlap reports a duplicate when the candidate shares at least two
// meaningful tokens with a known title and the shared portion covers more
// than 70% of the candidate's tokens.
func tokenOverlap(cand, other map[string]struct{}) bool {
	if len(cand) == 0 {
		return false
	}
	shared := 0
	for t := range cand {
		if _, ok := other[t]; ok {
			shared++
		}
	}
	if shared < minSharedTokens {
		return false
	}
	return float64(shared)/float64(len(cand)) > tokenOverlapRatio
}
