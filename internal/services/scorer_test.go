package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"alfredoptarigan/vocalize/internal/apperrors"
	"alfredoptarigan/vocalize/internal/rubric"
)

func TestScoreTranscript(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"3, 4, 5, 2, 3, 4, 5, 2, 3\n"}}
	report, err := NewAIScorer(gen).ScoreTranscript(context.Background(), "Today I want to talk about habits.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.FinalScore != 65 {
		t.Fatalf("expected 65, got %v", report.FinalScore)
	}
	if report.ContentAndStructure.Total != 29 || report.DeliveryAndVocalControl.Total != 21 || report.LanguageUseAndStyle.Total != 15 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "Today I want to talk about habits.") {
		t.Fatalf("transcript missing from prompt: %v", gen.prompts)
	}
	if !strings.Contains(gen.prompts[0], "separated by commas") {
		t.Fatal("prompt does not ask for comma-separated scores")
	}
}

func TestScoreTranscriptRejectsMalformedResponse(t *testing.T) {
	for _, resp := range []string{
		"3,4,5",
		"Here are the scores: 3,4,5,2,3,4,5,2,3",
		"3,4,5,2,3,4,5,2,9",
		"3,4,5,2,3,4,5,2,2.5",
	} {
		gen := &fakeGenerator{responses: []string{resp}}
		report, err := NewAIScorer(gen).ScoreTranscript(context.Background(), "hello")
		if report != nil {
			t.Fatalf("%q: expected no report", resp)
		}
		if !apperrors.Is(err, apperrors.KindUpstreamFormat) {
			t.Fatalf("%q: expected upstream format error, got %v", resp, err)
		}
		if !errors.Is(err, rubric.ErrMalformedRatings) {
			t.Fatalf("%q: expected ErrMalformedRatings in chain, got %v", resp, err)
		}
	}
}

func TestScoreTranscriptTransportFailure(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.E(apperrors.KindUpstreamTransport, "gemini.generate", fmt.Errorf("quota exceeded"))}
	_, err := NewAIScorer(gen).ScoreTranscript(context.Background(), "hello")
	if !apperrors.Is(err, apperrors.KindUpstreamTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestScoreTranscriptRequiresText(t *testing.T) {
	gen := &fakeGenerator{}
	_, err := NewAIScorer(gen).ScoreTranscript(context.Background(), "   ")
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatal("generator should not be called for empty transcript")
	}
}
