package article

import (
	"strings"
	"testing"
)

func TestBuildPayload_FullStructure(t *testing.T) {
	cand := Candidate{
		Title:  "제임스웹 우주망원경 외계행성 새로 발견",
		Source: "사이언스타임즈",
		URL:    "https://example.com/articles/1",
		Kind:   KindNews,
	}
	cls := Classification{
		Verdict:  VerdictAccept,
		Summary:  "제임스웹 우주망원경의 새로운 발견입니다.",
		Keywords: []string{"우주", "제임스웹"},
	}

	got := BuildPayload(cand, "본문 내용입니다.", cls)

	if !strings.HasPrefix(got, "📰 **사이언스타임즈 뉴스**\n\n") {
		t.Errorf("Expected attribution header, got: %s", got)
	}
	if !strings.Contains(got, "🤖 요약: 제임스웹 우주망원경의 새로운 발견입니다.") {
		t.Errorf("Expected summary line, got: %s", got)
	}
	if !strings.Contains(got, "본문 내용입니다.") {
		t.Errorf("Expected body, got: %s", got)
	}
	if !strings.Contains(got, "🔗 원문 보기: https://example.com/articles/1") {
		t.Errorf("Expected source link, got: %s", got)
	}
	if !strings.Contains(got, "🏷️ 핵심 키워드: 우주, 제임스웹") {
		t.Errorf("Expected keyword line, got: %s", got)
	}
	if !strings.HasSuffix(got, "📅 발행: 사이언스타임즈") {
		t.Errorf("Expected attribution footer, got: %s", got)
	}
}

func TestBuildPayload_OmitsEmptySections(t *testing.T) {
	cand := Candidate{
		Title:  "국제우주정거장 보급선 도킹 성공",
		Source: "연합뉴스",
		Kind:   KindNews,
	}

	got := BuildPayload(cand, "본문.", Classification{})

	if strings.Contains(got, "🤖 요약") {
		t.Errorf("Expected no summary line without classification, got: %s", got)
	}
	if strings.Contains(got, "🔗 원문 보기") {
		t.Errorf("Expected no link line without URL, got: %s", got)
	}
	if strings.Contains(got, "🏷️ 핵심 키워드") {
		t.Errorf("Expected no keyword line without keywords, got: %s", got)
	}
}

func TestTruncate_CountsCharactersNotBytes(t *testing.T) {
	// 2500 Korean characters are 7500 bytes; the ceiling counts characters.
	long := strings.Repeat("가", 2500)

	got := Truncate(long)

	if runes := []rune(got); len(runes) != MaxContentRunes {
		t.Errorf("Expected %d characters, got %d", MaxContentRunes, len(runes))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Expected ellipsis suffix on truncated content")
	}
	if !strings.HasPrefix(got, strings.Repeat("가", 100)) {
		t.Error("Expected truncation to preserve the leading text intact")
	}
}

func TestTruncate_ShortContentUnchanged(t *testing.T) {
	content := "짧은 본문입니다."
	if got := Truncate(content); got != content {
		t.Errorf("Expected content unchanged, got: %s", got)
	}

	exact := strings.Repeat("가", MaxContentRunes)
	if got := Truncate(exact); got != exact {
		t.Error("Expected content at exactly the ceiling unchanged")
	}
}

func TestBuildPayload_EnforcesCeiling(t *testing.T) {
	cand := Candidate{
		Title:  "누리호 4차 발사 성공",
		Source: "한국항공우주연구원",
		URL:    "https://example.com/articles/2",
		Kind:   KindNews,
	}
	cls := Classification{
		Verdict:  VerdictAccept,
		Summary:  "한국의 누리호 로켓 관련 소식입니다.",
		Keywords: []string{"우주", "로켓", "누리호"},
	}

	got := BuildPayload(cand, strings.Repeat("발사 성공 상세 내용 ", 500), cls)

	if runes := []rune(got); len(runes) > MaxContentRunes {
		t.Errorf("Expected payload capped at %d characters, got %d", MaxContentRunes, len(runes))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Expected ellipsis suffix on capped payload")
	}
}
