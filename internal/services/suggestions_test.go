package services

import (
	"context"
	"strings"
	"testing"

	"alfredoptarigan/vocalize/internal/apperrors"
	"alfredoptarigan/vocalize/internal/rubric"
)

func sampleCategories() []rubric.CategoryScore {
	return []rubric.CategoryScore{
		{Category: rubric.CategoryContent, Score: 7.25},
		{Category: rubric.CategoryDelivery, Score: 5.25},
		{Category: rubric.CategoryLanguage, Score: 7.5},
	}
}

func TestRequestSuggestionsTruncatesToFive(t *testing.T) {
	var items []string
	for i := 0; i < 8; i++ {
		items = append(items, `{"category":"Delivery and Vocal Control","text":"tip"}`)
	}
	gen := &fakeGenerator{responses: []string{"[" + strings.Join(items, ",") + "]"}}

	got, err := NewSuggestionService(gen).RequestSuggestions(context.Background(), sampleCategories())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != rubric.MaxSuggestions {
		t.Fatalf("expected %d suggestions, got %d", rubric.MaxSuggestions, len(got))
	}
}

func TestRequestSuggestionsPromptAndOptions(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"[]"}}
	if _, err := NewSuggestionService(gen).RequestSuggestions(context.Background(), sampleCategories()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := gen.prompts[0]
	for _, want := range []string{
		"Content & Structure: 7.25/10",
		"Delivery & Vocal Control: 5.25/10",
		"Language Use & Style: 7.5/10",
		"should not exceed 5",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if gen.opts[0].Temperature != 0.7 || gen.opts[0].MaxOutputTokens != 500 {
		t.Fatalf("unexpected generation options: %+v", gen.opts[0])
	}
}

func TestRequestSuggestionsAcceptsFencedJSON(t *testing.T) {
	resp := "```json\n[{\"category\":\"Content & Structure\",\"text\":\"Open with a clear claim.\"}]\n```"
	gen := &fakeGenerator{responses: []string{resp}}
	got, err := NewSuggestionService(gen).RequestSuggestions(context.Background(), sampleCategories())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Category != rubric.CategoryContent || got[0].Text != "Open with a clear claim." {
		t.Fatalf("unexpected suggestions: %+v", got)
	}
}

func TestRequestSuggestionsRejectsBadOutput(t *testing.T) {
	for name, resp := range map[string]string{
		"not json":         "Practice more.",
		"unknown category": `[{"category":"Body Language","text":"Stand tall."}]`,
		"object":           `{"category":"Content & Structure","text":"x"}`,
		"missing category": `[{"text":"Slow down."}]`,
		"null category":    `[{"category":null,"text":"Slow down."}]`,
	} {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{responses: []string{resp}}
			_, err := NewSuggestionService(gen).RequestSuggestions(context.Background(), sampleCategories())
			if !apperrors.Is(err, apperrors.KindUpstreamFormat) {
				t.Fatalf("expected upstream format error, got %v", err)
			}
		})
	}
}

func TestRequestSuggestionsBlankReplyIsEmpty(t *testing.T) {
	for _, resp := range []string{"", "  \n"} {
		gen := &fakeGenerator{responses: []string{resp}}
		got, err := NewSuggestionService(gen).RequestSuggestions(context.Background(), sampleCategories())
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", resp, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("%q: expected empty suggestions, got %+v", resp, got)
		}
	}
}

func TestRequestSuggestionsRequiresCategories(t *testing.T) {
	_, err := NewSuggestionService(&fakeGenerator{}).RequestSuggestions(context.Background(), nil)
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n[1,2]\n```":  "[1,2]",
		"Sure! {\"a\":1} done": `{"a":1}`,
		`[{"a":1},{"b":2}]`:    `[{"a":1},{"b":2}]`,
		"no json here":         "no json here",
	}
	for in, want := range cases {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
