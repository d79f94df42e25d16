package article

import (
	"fmt"
	"strings"
)

// Terms are matched by substring containment on lowercased text, not by word
// boundary. Several deny-list entries depend on this (e.g. "우주소녀" idol-group
// mentions inside longer strings), so do not switch to tokenized matching.

var denyTerms = []string{
	"코로나", "백신", "의료", "병원", "치료", "약물", "건강",
	"정치", "경제", "부동산", "주식", "금융", "선거", "etf", "투자", "수익률", "펀드", "방산",
	"우주소녀", "팬미팅", "콘서트", "아이돌", "가수", "연예인", "음악", "앨범",
}

var allowTerms = []string{
	"우주", "천문", "별", "달", "행성", "로켓", "위성", "화성", "태양", "은하",
	"망원경", "탐사", "항공", "nasa", "우주정거장", "혜성", "소행성", "블랙홀",
	"제임스웹", "누리호", "스페이스x", "아르테미스", "화성탐사", "달착륙",
}

const (
	ReasonUnrelatedDomain       = "unrelated-domain"
	ReasonInsufficientRelevance = "insufficient-relevance"
)

const maxKeywords = 3

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Run decides whether a candidate is topically relevant and produces the
// canned summary and keyword tags. It is a pure function over the text.
// An error is returned only for degenerate input (empty title); callers are
// expected to fall back to FallbackClassification rather than drop the
// candidate.
func (c *Classifier) Run(title, content string) (Classification, error) {
	if strings.TrimSpace(title) == "" {
		return Classification{}, fmt.Errorf("empty title")
	}

	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)

	for _, term := range denyTerms {
		if strings.Contains(titleLower, term) || strings.Contains(contentLower, term) {
			return Classification{
				Verdict: VerdictReject,
				Reason:  ReasonUnrelatedDomain,
			}, nil
		}
	}

	var keywords []string
	for _, term := range allowTerms {
		if strings.Contains(titleLower, term) || strings.Contains(contentLower, term) {
			if len(keywords) < maxKeywords {
				keywords = append(keywords, term)
			}
		}
	}

	if len(keywords) == 0 {
		return Classification{
			Verdict: VerdictReject,
			Reason:  ReasonInsufficientRelevance,
		}, nil
	}

	return Classification{
		Verdict:  VerdictAccept,
		Summary:  c.summarize(title, titleLower),
		Keywords: keywords,
	}, nil
}

// summarize matches the title against an ordered list of topic rules; the
// first matching rule wins.
func (c *Classifier) summarize(title, titleLower string) string {
	switch {
	case strings.Contains(title, "우주의 끝"):
		return "우주의 경계와 크기에 대한 과학적 탐구입니다. 우주론과 물리학의 기본 질문을 다룹니다."
	case strings.Contains(title, "한양대") && strings.Contains(titleLower, "ssp"):
		return "한양대 ERICA가 국내 최초로 국제우주대학 우주연구 프로그램을 개최합니다. 한국 우주교육의 새로운 이정표입니다."
	case strings.Contains(title, "블랙홀") || strings.Contains(title, "중력파"):
		return "블랙홀이나 중력파 관련 최신 연구 결과입니다. 우주의 기본 원리를 이해하는 데 도움이 됩니다."
	case strings.Contains(title, "외계인") || strings.Contains(title, "생명체"):
		return "외계 생명체 탐사나 관련 연구 소식입니다. 인류의 우주에서의 위치를 새롭게 생각하게 합니다."
	case strings.Contains(title, "화성") && (strings.Contains(title, "탐사") || strings.Contains(title, "착륙")):
		return "화성 탐사 미션의 새로운 소식입니다. 인류의 화성 정착 꿈에 한 걸음 더 가까워졌습니다."
	case strings.Contains(title, "달") && (strings.Contains(title, "기지") || strings.Contains(title, "정착")):
		return "달 기지 건설이나 달 정착 계획 관련 소식입니다. 인류의 우주 시대가 본격화되고 있습니다."
	case strings.Contains(title, "제임스웹") || strings.Contains(titleLower, "jwst"):
		return "제임스웹 우주망원경의 새로운 발견입니다. 우주의 초기 모습을 더 선명하게 보여주고 있습니다."
	case strings.Contains(title, "누리호") || strings.Contains(title, "한국형"):
		return "한국의 누리호 로켓 관련 소식입니다. 한국이 우주 강국으로 도약하고 있습니다."
	case strings.Contains(title, "발사") || strings.Contains(title, "성공"):
		return "우주 발사체나 인공위성 발사 성공 소식입니다. 우주 기술의 눈부신 발전을 보여줍니다."
	case strings.Contains(title, "?"):
		return "우주에 대한 흥미로운 질문을 다룹니다. 과학적 호기심을 자극하는 내용입니다."
	}

	topic := strings.TrimSpace(strings.SplitN(strings.SplitN(title, ",", 2)[0], "-", 2)[0])
	if runes := []rune(topic); len(runes) > 40 {
		topic = string(runes[:40])
	}
	return fmt.Sprintf("%s에 대한 우주 과학 소식입니다. 우주의 신비를 풀어가는 여정입니다.", topic)
}

// FallbackClassification is the fail-open result used when classification
// itself fails: the candidate is force-accepted with a generic summary so a
// classifier defect never blocks publication entirely.
func FallbackClassification(title string) Classification {
	return Classification{
		Verdict:  VerdictAccept,
		Summary:  fmt.Sprintf("%s. 우주 관련 최신 소식입니다.", title),
		Keywords: []string{"우주", "뉴스", "과학"},
	}
}
