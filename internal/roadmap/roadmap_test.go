package roadmap

import (
	"encoding/json"
	"reflect"
	"testing"
)

const validPlan = `[{"type":"TOPIC","name":"Algebra","subtopics":[{"type":"SUBTOPIC","name":"Linear Equations"},{"type":"SUBTOPIC","name":"Quadratics"}]},{"type":"TOPIC","name":"Geometry","subtopics":[]}]`

func TestExtract(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		wantOK     bool
		wantTopics int
	}{
		{
			name:       "bare_array",
			input:      validPlan,
			wantOK:     true,
			wantTopics: 2,
		},
		{
			name:       "embedded_in_prose",
			input:      "Here is your learning plan:\n" + validPlan + "\nGood luck!",
			wantOK:     true,
			wantTopics: 2,
		},
		{
			name:       "empty_array_is_valid",
			input:      "plan: []",
			wantOK:     true,
			wantTopics: 0,
		},
		{
			name:   "no_brackets",
			input:  "I could not produce a roadmap for that topic.",
			wantOK: false,
		},
		{
			name:   "close_before_open",
			input:  "weird ] text [ here",
			wantOK: false,
		},
		{
			name:   "unparsable_span",
			input:  "see [not json at all]",
			wantOK: false,
		},
		{
			name:   "array_of_scalars",
			input:  `["just a string"]`,
			wantOK: false,
		},
		{
			name:   "one_bad_element_rejects_all",
			input:  `[{"type":"TOPIC","name":"Good","subtopics":[]},{"type":"TOPIC","subtopics":[]}]`,
			wantOK: false,
		},
		{
			name:   "missing_subtopics_rejected",
			input:  `[{"type":"TOPIC","name":"Solo"}]`,
			wantOK: false,
		},
		{
			name:   "wrong_type_tag",
			input:  `[{"type":"NODE","name":"Solo","subtopics":[]}]`,
			wantOK: false,
		},
		{
			name:   "non_string_name",
			input:  `[{"type":"TOPIC","name":7,"subtopics":[]}]`,
			wantOK: false,
		},
		{
			name:   "bad_subtopic_shape",
			input:  `[{"type":"TOPIC","name":"T","subtopics":[{"type":"SUBTOPIC"}]}]`,
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Extract(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("Extract ok=%v, want %v", ok, tc.wantOK)
			}
			if !tc.wantOK {
				if got != nil {
					t.Fatalf("Extract returned %v on failure, want nil", got)
				}
				return
			}
			if len(got) != tc.wantTopics {
				t.Fatalf("Extract returned %d topics, want %d", len(got), tc.wantTopics)
			}
		})
	}
}

func TestExtractRecoversExactStructure(t *testing.T) {
	input := "Intro text [\n" + validPlan[1:len(validPlan)-1] + "\n] trailing notes"
	got, ok := Extract(input)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}

	var want Roadmap
	if err := json.Unmarshal([]byte(validPlan), &want); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %+v, want %+v", got, want)
	}
}

func TestExtractOuterSpanSwallowsNestedArrays(t *testing.T) {
	// First '[' to last ']' covers both arrays, so the combined span fails
	// to parse and no roadmap is found.
	input := validPlan + " and also " + validPlan
	if _, ok := Extract(input); ok {
		t.Fatal("expected combined span to be rejected")
	}
}

func TestStripPlan(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "prefix_and_suffix",
			input: "Here you go:\n" + validPlan + "\nEnjoy.",
			want:  "Here you go:\n\nEnjoy.",
		},
		{
			name:  "prefix_only",
			input: "Here you go: " + validPlan,
			want:  "Here you go:",
		},
		{
			name:  "suffix_only",
			input: validPlan + " Enjoy.",
			want:  "Enjoy.",
		},
		{
			name:  "no_span_returns_trimmed_original",
			input: "  no plan here  ",
			want:  "no plan here",
		},
		{
			name:  "span_is_whole_string",
			input: validPlan,
			want:  "",
		},
		{
			name:  "unparsable_span_left_intact",
			input: "see [not json at all] for details",
			want:  "see [not json at all] for details",
		},
		{
			name:  "invalid_roadmap_span_left_intact",
			input: `citations [1] and [2] apply`,
			want:  "citations [1] and [2] apply",
		},
		{
			name:  "bad_element_span_left_intact",
			input: `plan: [{"type":"TOPIC","subtopics":[]}] maybe later`,
			want:  `plan: [{"type":"TOPIC","subtopics":[]}] maybe later`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripPlan(tc.input); got != tc.want {
				t.Fatalf("StripPlan = %q, want %q", got, tc.want)
			}
		})
	}
}
