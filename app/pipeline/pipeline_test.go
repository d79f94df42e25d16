package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/byeolnight/skywatch/app/article"
	"github.com/byeolnight/skywatch/app/backend"
)

type stubClassifier struct {
	cls   article.Classification
	err   error
	calls int
}

func (s *stubClassifier) Run(title, content string) (article.Classification, error) {
	s.calls++
	return s.cls, s.err
}

type stubNormalizer struct{}

func (stubNormalizer) Run(raw string) string { return raw }

type stubDetector struct {
	dup       bool
	lastKnown map[string]struct{}
}

func (s *stubDetector) IsDuplicate(title string, known map[string]struct{}) bool {
	s.lastKnown = known
	return s.dup
}

type stubPublisher struct {
	publishErrs  []error
	publishCalls int
	published    []backend.Post
	recentTitles map[string]struct{}
	recentErr    error
	dupOnCheck   bool
	checkCalls   int
}

func (s *stubPublisher) Publish(ctx context.Context, post backend.Post) error {
	call := s.publishCalls
	s.publishCalls++
	s.published = append(s.published, post)
	if call < len(s.publishErrs) {
		return s.publishErrs[call]
	}
	return nil
}

func (s *stubPublisher) RecentTitles(ctx context.Context, days int, category string) (map[string]struct{}, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	if s.recentTitles == nil {
		return map[string]struct{}{}, nil
	}
	return s.recentTitles, nil
}

func (s *stubPublisher) CheckDuplicate(ctx context.Context, title, content string) bool {
	s.checkCalls++
	return s.dupOnCheck
}

type stubCache struct {
	recent   map[string]struct{}
	all      map[string]struct{}
	appended []string
}

func (s *stubCache) Recent(window time.Duration) map[string]struct{} {
	if s.recent == nil {
		return map[string]struct{}{}
	}
	return s.recent
}

func (s *stubCache) All() map[string]struct{} {
	if s.all == nil {
		return map[string]struct{}{}
	}
	return s.all
}

func (s *stubCache) Append(titles ...string) error {
	s.appended = append(s.appended, titles...)
	return nil
}

type archiveRecord struct {
	title    string
	attempts int
}

type stubArchive struct {
	records []archiveRecord
}

func (s *stubArchive) RecordPublished(title, source, category string, attempts int) error {
	s.records = append(s.records, archiveRecord{title: title, attempts: attempts})
	return nil
}

func accepting() *stubClassifier {
	return &stubClassifier{cls: article.Classification{
		Verdict:  article.VerdictAccept,
		Summary:  "요약",
		Keywords: []string{"우주"},
	}}
}

func newsCandidate() article.Candidate {
	return article.Candidate{
		Title:   "제임스웹 외계행성 발견 소식",
		Content: "제임스웹 우주망원경이 새로운 외계행성을 발견했다고 연구진이 밝혔다.",
		Source:  "사이언스타임즈",
		URL:     "https://example.com/articles/1",
		Kind:    article.KindNews,
	}
}

func newPipeline(classifier Classifier, detector Detector, publisher Publisher,
	cache TitleStore, archive Archive, opts Options) *Pipeline {
	return New(classifier, stubNormalizer{}, detector, publisher, cache, archive, opts)
}

func TestPipeline_Admit_PublishesAcceptedCandidate(t *testing.T) {
	publisher := &stubPublisher{}
	cache := &stubCache{}
	archive := &stubArchive{}
	p := newPipeline(accepting(), &stubDetector{}, publisher, cache, archive, Options{})

	outcome := p.Admit(context.Background(), newsCandidate())

	if outcome != OutcomePublished {
		t.Fatalf("Expected published outcome, got %s", outcome)
	}
	if publisher.publishCalls != 1 {
		t.Errorf("Expected 1 publish call, got %d", publisher.publishCalls)
	}
	if len(cache.appended) != 1 || cache.appended[0] != "제임스웹 외계행성 발견 소식" {
		t.Errorf("Expected title appended to cache, got %v", cache.appended)
	}
	if len(archive.records) != 1 || archive.records[0].attempts != 1 {
		t.Errorf("Expected archive record with 1 attempt, got %+v", archive.records)
	}
}

func TestPipeline_Admit_RejectsShortTitle(t *testing.T) {
	publisher := &stubPublisher{}
	p := newPipeline(accepting(), &stubDetector{}, publisher, &stubCache{}, &stubArchive{}, Options{})

	cand := newsCandidate()
	cand.Title = "짧은 제목"

	if outcome := p.Admit(context.Background(), cand); outcome != OutcomeInvalid {
		t.Errorf("Expected invalid outcome for short title, got %s", outcome)
	}
	if publisher.publishCalls != 0 {
		t.Error("Expected no publish call for invalid candidate")
	}
}

func TestPipeline_Admit_RejectsShortContent(t *testing.T) {
	p := newPipeline(accepting(), &stubDetector{}, &stubPublisher{}, &stubCache{}, &stubArchive{}, Options{})

	cand := newsCandidate()
	cand.Content = "열 자 남짓한 본문"

	if outcome := p.Admit(context.Background(), cand); outcome != OutcomeInvalid {
		t.Errorf("Expected invalid outcome for short content, got %s", outcome)
	}

	// Empty content is allowed; the normalizer substitutes a placeholder
	cand.Content = ""
	if outcome := p.Admit(context.Background(), cand); outcome != OutcomePublished {
		t.Errorf("Expected empty content to pass validation, got %s", outcome)
	}
}

func TestPipeline_Admit_RejectedByClassifier(t *testing.T) {
	classifier := &stubClassifier{cls: article.Classification{
		Verdict: article.VerdictReject,
		Reason:  "unrelated-domain",
	}}
	publisher := &stubPublisher{}
	p := newPipeline(classifier, &stubDetector{}, publisher, &stubCache{}, &stubArchive{}, Options{})

	if outcome := p.Admit(context.Background(), newsCandidate()); outcome != OutcomeRejected {
		t.Errorf("Expected rejected outcome, got %s", outcome)
	}
	if publisher.publishCalls != 0 {
		t.Error("Expected no publish call for rejected candidate")
	}
}

func TestPipeline_Admit_ClassifierErrorFailsOpen(t *testing.T) {
	classifier := &stubClassifier{err: fmt.Errorf("classifier broken")}
	publisher := &stubPublisher{}
	p := newPipeline(classifier, &stubDetector{}, publisher, &stubCache{}, &stubArchive{}, Options{})

	if outcome := p.Admit(context.Background(), newsCandidate()); outcome != OutcomePublished {
		t.Errorf("Expected fail-open publication on classifier error, got %s", outcome)
	}
	if publisher.publishCalls != 1 {
		t.Errorf("Expected 1 publish call, got %d", publisher.publishCalls)
	}
}

func TestPipeline_Admit_EventSkipsClassification(t *testing.T) {
	classifier := &stubClassifier{cls: article.Classification{Verdict: article.VerdictReject}}
	publisher := &stubPublisher{}
	p := newPipeline(classifier, &stubDetector{}, publisher, &stubCache{}, &stubArchive{}, Options{})

	cand := newsCandidate()
	cand.Kind = article.KindEvent

	if outcome := p.Admit(context.Background(), cand); outcome != OutcomePublished {
		t.Errorf("Expected event published without classification, got %s", outcome)
	}
	if classifier.calls != 0 {
		t.Errorf("Expected classifier not called for events, got %d calls", classifier.calls)
	}
}

func TestPipeline_Admit_DuplicateSkipped(t *testing.T) {
	publisher := &stubPublisher{}
	cache := &stubCache{}
	p := newPipeline(accepting(), &stubDetector{dup: true}, publisher, cache, &stubArchive{}, Options{})

	if outcome := p.Admit(context.Background(), newsCandidate()); outcome != OutcomeSkippedDuplicate {
		t.Errorf("Expected duplicate skip, got %s", outcome)
	}
	if publisher.publishCalls != 0 {
		t.Error("Expected no publish call for duplicate")
	}
	if len(cache.appended) != 0 {
		t.Error("Expected no cache write for duplicate")
	}
}

func TestPipeline_Admit_RetriesUntilSuccess(t *testing.T) {
	publisher := &stubPublisher{publishErrs: []error{
		fmt.Errorf("timeout"), fmt.Errorf("timeout"), fmt.Errorf("timeout"), fmt.Errorf("timeout"),
	}}
	archive := &stubArchive{}
	p := newPipeline(accepting(), &stubDetector{}, publisher, &stubCache{}, archive, Options{})

	if outcome := p.Admit(context.Background(), newsCandidate()); outcome != OutcomePublished {
		t.Fatalf("Expected success on fifth attempt, got %s", outcome)
	}
	if publisher.publishCalls != 5 {
		t.Errorf("Expected 5 publish calls, got %d", publisher.publishCalls)
	}
	if len(archive.records) != 1 || archive.records[0].attempts != 5 {
		t.Errorf("Expected archive record with 5 attempts, got %+v", archive.records)
	}
}

func TestPipeline_Admit_FailsAfterMaxAttempts(t *testing.T) {
	publisher := &stubPublisher{publishErrs: []error{
		fmt.Errorf("down"), fmt.Errorf("down"), fmt.Errorf("down"), fmt.Errorf("down"), fmt.Errorf("down"),
	}}
	cache := &stubCache{}
	p := newPipeline(accepting(), &stubDetector{}, publisher, cache, &stubArchive{}, Options{})

	if outcome := p.Admit(context.Background(), newsCandidate()); outcome != OutcomeFailed {
		t.Fatalf("Expected failed outcome after retry exhaustion, got %s", outcome)
	}
	if publisher.publishCalls != 5 {
		t.Errorf("Expected exactly 5 publish attempts, got %d", publisher.publishCalls)
	}
	if len(cache.appended) != 0 {
		t.Error("Expected no cache write after failed publication")
	}
}

func TestPipeline_Admit_MidRetryDuplicateCheck(t *testing.T) {
	publisher := &stubPublisher{
		publishErrs: []error{fmt.Errorf("timeout")},
		dupOnCheck:  true,
	}
	p := newPipeline(accepting(), &stubDetector{}, publisher, &stubCache{}, &stubArchive{},
		Options{RecheckOnRetry: true})

	// First publish attempt fails; before the second one the server reports
	// the title as already published (the first attempt may have landed).
	if outcome := p.Admit(context.Background(), newsCandidate()); outcome != OutcomeSkippedDuplicate {
		t.Fatalf("Expected duplicate skip mid-retry, got %s", outcome)
	}
	if publisher.publishCalls != 1 {
		t.Errorf("Expected a single publish attempt, got %d", publisher.publishCalls)
	}
	if publisher.checkCalls != 1 {
		t.Errorf("Expected one duplicate re-check, got %d", publisher.checkCalls)
	}
}

func TestPipeline_Admit_NoRecheckWhenDisabled(t *testing.T) {
	publisher := &stubPublisher{
		publishErrs: []error{fmt.Errorf("timeout")},
		dupOnCheck:  true,
	}
	p := newPipeline(accepting(), &stubDetector{}, publisher, &stubCache{}, &stubArchive{},
		Options{RecheckOnRetry: false})

	if outcome := p.Admit(context.Background(), newsCandidate()); outcome != OutcomePublished {
		t.Fatalf("Expected publication on retry, got %s", outcome)
	}
	if publisher.checkCalls != 0 {
		t.Errorf("Expected no duplicate re-checks, got %d", publisher.checkCalls)
	}
}

func TestPipeline_KnownTitles_UnionsRegistryAndCache(t *testing.T) {
	publisher := &stubPublisher{recentTitles: map[string]struct{}{"등록된 기사": {}}}
	cache := &stubCache{recent: map[string]struct{}{"방금 발행한 기사": {}}}
	detector := &stubDetector{}
	p := newPipeline(accepting(), detector, publisher, cache, &stubArchive{}, Options{})

	p.Admit(context.Background(), newsCandidate())

	if _, ok := detector.lastKnown["등록된 기사"]; !ok {
		t.Error("Expected registry title in known set")
	}
	if _, ok := detector.lastKnown["방금 발행한 기사"]; !ok {
		t.Error("Expected cached title in known set")
	}
}

func TestPipeline_KnownTitles_RegistryFailureWidensCache(t *testing.T) {
	publisher := &stubPublisher{recentErr: fmt.Errorf("registry down")}
	cache := &stubCache{
		recent: map[string]struct{}{"최근 기사": {}},
		all:    map[string]struct{}{"최근 기사": {}, "며칠 전 기사": {}},
	}
	detector := &stubDetector{}
	p := newPipeline(accepting(), detector, publisher, cache, &stubArchive{}, Options{})

	p.Admit(context.Background(), newsCandidate())

	// On registry failure the full local retention window backs the check
	if _, ok := detector.lastKnown["며칠 전 기사"]; !ok {
		t.Error("Expected full cache contents when the registry is unavailable")
	}
}

func TestPipeline_Run_Summary(t *testing.T) {
	classifier := &stubClassifier{cls: article.Classification{
		Verdict: article.VerdictReject,
		Reason:  "insufficient-relevance",
	}}
	publisher := &stubPublisher{}
	p := newPipeline(classifier, &stubDetector{}, publisher, &stubCache{}, &stubArchive{}, Options{})

	invalid := newsCandidate()
	invalid.Title = "짧음"

	summary := p.Run(context.Background(), []article.Candidate{newsCandidate(), invalid})

	if summary.Total != 2 {
		t.Errorf("Expected total 2, got %d", summary.Total)
	}
	if summary.Rejected != 1 {
		t.Errorf("Expected 1 rejected, got %d", summary.Rejected)
	}
	if summary.Invalid != 1 {
		t.Errorf("Expected 1 invalid, got %d", summary.Invalid)
	}
	if summary.Success != 0 {
		t.Errorf("Expected 0 published, got %d", summary.Success)
	}
}
