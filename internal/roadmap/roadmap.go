// Package roadmap models the Topic/Subtopic learning plan produced by the
// tutoring service and recovers it from free-form model output.
package roadmap

import (
	"encoding/json"
	"strings"
)

const (
	topicType    = "TOPIC"
	subtopicType = "SUBTOPIC"
)

type Subtopic struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type Topic struct {
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Subtopics []Subtopic `json:"subtopics"`
}

// Roadmap is an ordered Topic tree. A nil Roadmap means "no roadmap"; an
// empty one is a valid plan with zero topics.
type Roadmap []Topic

// Extract locates a JSON array embedded anywhere in s and validates it as a
// Roadmap. The candidate span runs from the first '[' to the last ']'. The
// whole array is rejected if any element fails shape validation; malformed
// input never produces an error, only (nil, false).
func Extract(s string) (Roadmap, bool) {
	span, ok := planSpan(s)
	if !ok {
		return nil, false
	}
	raw := strings.TrimSpace(s[span.start : span.end+1])

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, false
	}

	out := make(Roadmap, 0, len(elems))
	for _, elem := range elems {
		topic, ok := validateTopic(elem)
		if !ok {
			return nil, false
		}
		out = append(out, topic)
	}
	return out, true
}

// StripPlan removes a validated roadmap span from s and returns the
// surrounding prose, with the non-empty prefix and suffix joined by a blank
// line. When no span exists, or the span is not a roadmap, the trimmed input
// is returned unchanged so ordinary bracketed prose survives.
func StripPlan(s string) string {
	span, ok := planSpan(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	if _, ok := Extract(s); !ok {
		return strings.TrimSpace(s)
	}
	prefix := strings.TrimSpace(s[:span.start])
	suffix := strings.TrimSpace(s[span.end+1:])
	switch {
	case prefix == "":
		return suffix
	case suffix == "":
		return prefix
	default:
		return prefix + "\n\n" + suffix
	}
}

type spanBounds struct {
	start, end int
}

func planSpan(s string) (spanBounds, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < 0 || end <= start {
		return spanBounds{}, false
	}
	return spanBounds{start: start, end: end}, true
}

func validateTopic(raw json.RawMessage) (Topic, bool) {
	var candidate struct {
		Type      string             `json:"type"`
		Name      *string            `json:"name"`
		Subtopics *[]json.RawMessage `json:"subtopics"`
	}
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return Topic{}, false
	}
	if candidate.Type != topicType || candidate.Name == nil || candidate.Subtopics == nil {
		return Topic{}, false
	}
	subs := make([]Subtopic, 0, len(*candidate.Subtopics))
	for _, rawSub := range *candidate.Subtopics {
		var sub struct {
			Type string  `json:"type"`
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(rawSub, &sub); err != nil {
			return Topic{}, false
		}
		if sub.Type != subtopicType || sub.Name == nil {
			return Topic{}, false
		}
		subs = append(subs, Subtopic{Type: subtopicType, Name: *sub.Name})
	}
	return Topic{Type: topicType, Name: *candidate.Name, Subtopics: subs}, true
}
