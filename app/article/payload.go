package article

import (
	"strings"
)

// MaxContentRunes is the backend's hard ceiling on the content field. It is a
// contractual limit, enforced before every publish attempt.
const MaxContentRunes = 2000

// BuildPayload assembles the publishable content string for a candidate:
// attribution header, optional canned summary, cleaned body, keyword tags and
// the source link.
func BuildPayload(c Candidate, body string, cls Classification) string {
	var b strings.Builder

	b.WriteString("📰 **" + c.Source + " 뉴스**\n\n")

	if cls.Summary != "" {
		b.WriteString("🤖 요약: " + cls.Summary + "\n\n")
	}

	b.WriteString(body)
	b.WriteString("\n\n---\n")

	if c.URL != "" {
		b.WriteString("🔗 원문 보기: " + c.URL + "\n")
	}
	if len(cls.Keywords) > 0 {
		b.WriteString("🏷️ 핵심 키워드: " + strings.Join(cls.Keywords, ", ") + "\n")
	}
	b.WriteString("📅 발행: " + c.Source)

	return Truncate(b.String())
}

// Truncate enforces the backend content ceiling, marking cut-off text with an
// ellipsis. Lengths are counted in characters, not bytes.
func Truncate(content string) string {
	runes := []rune(content)
	if len(runes) <= MaxContentRunes {
		return content
	}
	return string(runes[:MaxContentRunes-3]) + "..."
}
