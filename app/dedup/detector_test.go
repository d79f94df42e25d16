package dedup

import (
	"testing"
)

func known(titles ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[t] = struct{}{}
	}
	return set
}

func TestDetector_IsDuplicate_ExactMatch(t *testing.T) {
	detector := NewDetector()

	title := "제임스웹 우주망원경 외계행성 발견"
	if !detector.IsDuplicate(title, known(title)) {
		t.Error("Expected exact title match to be a duplicate")
	}
}

func TestDetector_IsDuplicate_EmptyKnownSet(t *testing.T) {
	detector := NewDetector()

	if detector.IsDuplicate("누리호 4차 발사 성공", known()) {
		t.Error("Expected no duplicate against empty known set")
	}
}

func TestDetector_IsDuplicate_CharacterJaccard(t *testing.T) {
	detector := NewDetector()

	// Same characters, spacing differences only
	if !detector.IsDuplicate("누리호 4차 발사성공", known("누리호 4차 발사 성공")) {
		t.Error("Expected spacing-only variation to be a duplicate")
	}
}

func TestDetector_IsDuplicate_KeywordOverlap(t *testing.T) {
	detector := NewDetector()

	// Paraphrased headline about the same event: shares 제임스웹, 외계행성 and
	// 발견; 새로/새로운 are stopwords. 3 of the candidate's 4 tokens are
	// shared, clearing the 70% bar.
	cand := "제임스웹 우주망원경 외계행성 새로 발견"
	prior := "제임스웹, 새로운 외계행성 발견"

	if !detector.IsDuplicate(cand, known(prior)) {
		t.Error("Expected paraphrased headline to be a duplicate")
	}
}

func TestDetector_IsDuplicate_DistinctTopics(t *testing.T) {
	detector := NewDetector()

	cand := "화성 탐사 로버 새 지역 진입"
	prior := "블랙홀 합병 중력파 첫 관측"

	if detector.IsDuplicate(cand, known(prior)) {
		t.Error("Expected unrelated headlines to pass")
	}
}

func TestDetector_IsDuplicate_SharedStopwordsIgnored(t *testing.T) {
	detector := NewDetector()

	// Only generic words overlap; not a duplicate
	cand := "우주 뉴스 오늘의 소행성 소식"
	prior := "우주 뉴스 오늘의 은하 소식"

	if detector.IsDuplicate(cand, known(prior)) {
		t.Error("Expected stopword-only overlap to pass")
	}
}

func TestTokenSet_FiltersShortRunsAndStopwords(t *testing.T) {
	tokens := tokenSet("우주 뉴스: 달 탐사선 발사 A")

	if _, ok := tokens["우주"]; ok {
		t.Error("Expected stopword '우주' excluded")
	}
	if _, ok := tokens["뉴스"]; ok {
		t.Error("Expected stopword '뉴스' excluded")
	}
	if _, ok := tokens["달"]; ok {
		t.Error("Expected single-character token '달' excluded")
	}
	if _, ok := tokens["a"]; ok {
		t.Error("Expected single-character token 'a' excluded")
	}
	if _, ok := tokens["탐사선"]; !ok {
		t.Error("Expected token '탐사선' present")
	}
	if _, ok := tokens["발사"]; !ok {
		t.Error("Expected token '발사' present")
	}
}

func TestCharJaccard(t *testing.T) {
	a := charSet("가나다라")
	b := charSet("가나다마")

	// 3 shared of 5 distinct characters
	got := charJaccard(a, b)
	want := 3.0 / 5.0
	if got != want {
		t.Errorf("Expected Jaccard %f, got %f", want, got)
	}

	if charJaccard(charSet(""), b) != 0 {
		t.Error("Expected zero Jaccard for empty set")
	}
}

func TestCharSet_IgnoresSpaces(t *testing.T) {
	a := charSet("가 나 다")
	b := charSet("가나다")

	if charJaccard(a, b) != 1.0 {
		t.Error("Expected spacing to be ignored in character sets")
	}
}
