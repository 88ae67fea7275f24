package services

import (
	"context"
	"encoding/json"

	"github.com/pathwise/pathwise-backend/internal/logger"
)

const (
	defaultMCQCount  = 3
	maxMCQCount      = 6
	defaultTextCount = 2
	maxTextCount     = 4
)

type MCQItem struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

type TextItem struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context,omitempty"`
}

// GeneratedPractice is produced fresh on every request and never persisted.
type GeneratedPractice struct {
	MCQs  []MCQItem  `json:"mcqs"`
	Texts []TextItem `json:"texts"`
}

type PracticeRequest struct {
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic"`
	// Roadmap is free-form context; it is serialized into the prompt but
	// never interpreted.
	Roadmap   any `json:"roadmap,omitempty"`
	MCQCount  int `json:"mcq_count,omitempty"`
	TextCount int `json:"text_count,omitempty"`
}

// PracticeService asks the generative-text API for practice items. It fails
// open: a missing credential, upstream failure or malformed response all
// yield empty item lists so the caller can fall back to placeholder content.
type PracticeService interface {
	Generate(ctx context.Context, req PracticeRequest) GeneratedPractice
}

type practiceService struct {
	log *logger.Logger
	ai  AIClient
}

// NewPracticeService accepts a nil AIClient (no credential configured).
func NewPracticeService(log *logger.Logger, ai AIClient) PracticeService {
	return &practiceService{log: log.With("service", "PracticeService"), ai: ai}
}

const practiceSystemPrompt = `You are a tutoring assistant. Given a topic and subtopic from a learning roadmap, produce practice material as a single JSON object with two keys: "mcqs", an array of multiple-choice questions each shaped as {"question": string, "options": [4 strings], "correctIndex": 0-3, "explanation": string}, and "texts", an array of short-answer prompts each shaped as {"prompt": string, "context": string}. Respond with JSON only.`

func (ps *practiceService) Generate(ctx context.Context, req PracticeRequest) GeneratedPractice {
	empty := GeneratedPractice{MCQs: []MCQItem{}, Texts: []TextItem{}}

	mcqCount := clampCount(req.MCQCount, defaultMCQCount, maxMCQCount)
	textCount := clampCount(req.TextCount, defaultTextCount, maxTextCount)

	if ps.ai == nil {
		ps.log.Debug("Practice generation skipped, no AI credential configured")
		return empty
	}

	payload, err := json.Marshal(map[string]any{
		"topic":    req.Topic,
		"subtopic": req.Subtopic,
		"roadmap":  req.Roadmap,
	})
	if err != nil {
		ps.log.Warn("Practice payload encoding failed", "error", err)
		return empty
	}

	obj, err := ps.ai.GenerateJSON(ctx, practiceSystemPrompt, string(payload))
	if err != nil {
		ps.log.Warn("Practice generation failed", "topic", req.Topic, "subtopic", req.Subtopic, "error", err)
		return empty
	}

	out := GeneratedPractice{
		MCQs:  validateMCQs(obj["mcqs"], mcqCount),
		Texts: validateTexts(obj["texts"], textCount),
	}
	return out
}

func clampCount(requested, def, max int) int {
	if requested == 0 {
		return def
	}
	if requested < 1 {
		return 1
	}
	if requested > max {
		return max
	}
	return requested
}

// Validation is purely structural; nobody checks that correctIndex points at
// a correct answer.
func validateMCQs(raw any, limit int) []MCQItem {
	out := []MCQItem{}
	candidates, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, candidate := range candidates {
		if len(out) >= limit {
			break
		}
		m, ok := candidate.(map[string]any)
		if !ok {
			continue
		}
		question, ok := m["question"].(string)
		if !ok {
			continue
		}
		rawOptions, ok := m["options"].([]any)
		if !ok || len(rawOptions) != 4 {
			continue
		}
		options := make([]string, 0, 4)
		for _, rawOption := range rawOptions {
			s, ok := rawOption.(string)
			if !ok {
				break
			}
			options = append(options, s)
		}
		if len(options) != 4 {
			continue
		}
		correctIndex, ok := intFromJSON(m["correctIndex"])
		if !ok || correctIndex < 0 || correctIndex >= 4 {
			continue
		}
		item := MCQItem{
			Question:     question,
			Options:      options,
			CorrectIndex: correctIndex,
		}
		if explanation, ok := m["explanation"].(string); ok {
			item.Explanation = explanation
		}
		out = append(out, item)
	}
	return out
}

func validateTexts(raw any, limit int) []TextItem {
	out := []TextItem{}
	candidates, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, candidate := range candidates {
		if len(out) >= limit {
			break
		}
		m, ok := candidate.(map[string]any)
		if !ok {
			continue
		}
		prompt, ok := m["prompt"].(string)
		if !ok {
			continue
		}
		item := TextItem{Prompt: prompt}
		if contextText, ok := m["context"].(string); ok {
			item.Context = contextText
		}
		out = append(out, item)
	}
	return out
}

// intFromJSON accepts the float64 that encoding/json produces for numbers,
// rejecting fractional values.
func intFromJSON(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
