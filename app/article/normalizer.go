package article

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Boilerplate fragments that Korean news pages leak into scraped text:
// cookie notices, download-size strings, view counters, video player chrome
// and timestamp-like tokens.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)쿠키.*?수락.*?`),
	regexp.MustCompile(`(?i)다운로드.*?MB.*?`),
	regexp.MustCompile(`(?i)소스.*?MB.*?`),
	regexp.MustCompile(`(?i)좋아요.*?조회.*?`),
	regexp.MustCompile(`(?i)ID.*?\d+.*?`),
	regexp.MustCompile(`(?i)라이센스.*?표준.*?`),
	regexp.MustCompile(`(?i)YouTube.*?컨트롤.*?`),
	regexp.MustCompile(`(?i)음악 클립.*?`),
	regexp.MustCompile(`(?i)포함 코드.*?`),
	regexp.MustCompile(`(?i)캡션.*?자막.*?`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}.*?\d+.*?조회`),
	regexp.MustCompile(`00:\d{2}:\d{2}`),
	regexp.MustCompile(`(?i)MP4.*?\[.*?MB\]`),
}

// Sentences still containing any of these after pattern stripping are player
// or site chrome, not article text.
var markerWords = []string{"쿠키", "youtube", "다운로드", "라이센스", "클립"}

var whitespaceRe = regexp.MustCompile(`\s+`)

const (
	maxSentences      = 5
	sentenceScanLimit = 8
	minSentenceRunes  = 20
	fallbackRunes     = 500
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run strips boilerplate from raw scraped text and keeps at most five
// meaningful sentences. When nothing survives filtering it falls back to the
// first 500 characters of the input verbatim.
func (n *Normalizer) Run(raw string) string {
	raw = width.Fold.String(norm.NFC.String(raw))
	if strings.TrimSpace(raw) == "" {
		return "기사 내용을 가져올 수 없습니다."
	}

	cleaned := raw
	for _, re := range boilerplatePatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")

	var sentences []string
	for _, s := range strings.Split(cleaned, ".") {
		s = strings.TrimSpace(s)
		if s != "" && len([]rune(s)) > 10 {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) > sentenceScanLimit {
		sentences = sentences[:sentenceScanLimit]
	}

	var meaningful []string
	for _, s := range sentences {
		if len([]rune(s)) <= minSentenceRunes {
			continue
		}
		if containsMarker(s) {
			continue
		}
		meaningful = append(meaningful, s+".")
		if len(meaningful) >= maxSentences {
			break
		}
	}

	if len(meaningful) == 0 {
		if runes := []rune(raw); len(runes) > fallbackRunes {
			return string(runes[:fallbackRunes])
		}
		return raw
	}

	return strings.Join(meaningful, " ")
}

func containsMarker(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, w := range markerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
