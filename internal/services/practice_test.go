package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pathwise/pathwise-backend/internal/logger"
)

type stubAIClient struct {
	response map[string]any
	err      error
}

func (s *stubAIClient) GenerateJSON(ctx context.Context, system, user string) (map[string]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func newPracticeService(t *testing.T, ai AIClient) PracticeService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewPracticeService(log, ai)
}

func mcq(question string, options []any, correctIndex any) map[string]any {
	return map[string]any{
		"question":     question,
		"options":      options,
		"correctIndex": correctIndex,
	}
}

var fourOptions = []any{"a", "b", "c", "d"}

func TestGenerateFailsOpen(t *testing.T) {
	cases := []struct {
		name string
		ai   AIClient
	}{
		{name: "missing_credential", ai: nil},
		{name: "upstream_error", ai: &stubAIClient{err: errors.New("http 503")}},
		{name: "nil_object", ai: &stubAIClient{response: nil}},
		{name: "wrong_shapes", ai: &stubAIClient{response: map[string]any{"mcqs": "nope", "texts": 7}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ps := newPracticeService(t, tc.ai)
			got := ps.Generate(context.Background(), PracticeRequest{Topic: "Go", Subtopic: "Slices"})
			if got.MCQs == nil || len(got.MCQs) != 0 {
				t.Fatalf("mcqs = %v, want empty non-nil", got.MCQs)
			}
			if got.Texts == nil || len(got.Texts) != 0 {
				t.Fatalf("texts = %v, want empty non-nil", got.Texts)
			}
		})
	}
}

func TestGenerateFiltersMalformedCandidates(t *testing.T) {
	ai := &stubAIClient{response: map[string]any{
		"mcqs": []any{
			mcq("good one", fourOptions, float64(2)),
			mcq("three options", []any{"a", "b", "c"}, float64(0)),
			mcq("index out of range", fourOptions, float64(4)),
			mcq("fractional index", fourOptions, 1.5),
			map[string]any{"options": fourOptions, "correctIndex": float64(0)},
			mcq("good two", fourOptions, float64(0)),
		},
		"texts": []any{
			map[string]any{"prompt": "explain slices", "context": "ch 4"},
			map[string]any{"context": "no prompt"},
			"not an object",
			map[string]any{"prompt": "explain maps"},
		},
	}}
	ps := newPracticeService(t, ai)

	got := ps.Generate(context.Background(), PracticeRequest{Topic: "Go", Subtopic: "Slices"})
	if len(got.MCQs) != 2 {
		t.Fatalf("mcqs = %d, want 2 valid of 6", len(got.MCQs))
	}
	if got.MCQs[0].Question != "good one" || got.MCQs[1].Question != "good two" {
		t.Fatalf("wrong survivors: %+v", got.MCQs)
	}
	if got.MCQs[0].CorrectIndex != 2 {
		t.Fatalf("correctIndex = %d, want 2", got.MCQs[0].CorrectIndex)
	}
	if len(got.Texts) != 2 {
		t.Fatalf("texts = %d, want 2", len(got.Texts))
	}
	if got.Texts[0].Prompt != "explain slices" || got.Texts[0].Context != "ch 4" {
		t.Fatalf("text item = %+v", got.Texts[0])
	}
}

func TestGenerateTruncatesToRequestedCounts(t *testing.T) {
	manyMCQs := make([]any, 10)
	for i := range manyMCQs {
		manyMCQs[i] = mcq("q", fourOptions, float64(1))
	}
	manyTexts := make([]any, 10)
	for i := range manyTexts {
		manyTexts[i] = map[string]any{"prompt": "p"}
	}
	ai := &stubAIClient{response: map[string]any{"mcqs": manyMCQs, "texts": manyTexts}}
	ps := newPracticeService(t, ai)

	cases := []struct {
		name      string
		req       PracticeRequest
		wantMCQs  int
		wantTexts int
	}{
		{name: "defaults", req: PracticeRequest{}, wantMCQs: 3, wantTexts: 2},
		{name: "explicit", req: PracticeRequest{MCQCount: 5, TextCount: 3}, wantMCQs: 5, wantTexts: 3},
		{name: "clamped_high", req: PracticeRequest{MCQCount: 50, TextCount: 50}, wantMCQs: 6, wantTexts: 4},
		{name: "clamped_low", req: PracticeRequest{MCQCount: -2, TextCount: -2}, wantMCQs: 1, wantTexts: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ps.Generate(context.Background(), tc.req)
			if len(got.MCQs) != tc.wantMCQs {
				t.Fatalf("mcqs = %d, want %d", len(got.MCQs), tc.wantMCQs)
			}
			if len(got.Texts) != tc.wantTexts {
				t.Fatalf("texts = %d, want %d", len(got.Texts), tc.wantTexts)
			}
		})
	}
}
