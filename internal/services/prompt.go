package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/vocalize/internal/rubric"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildRubricRatingPrompt asks for the nine ratings as bare comma-separated
// numbers, in rubric.FieldNames order.
func (pb *PromptBuilder) BuildRubricRatingPrompt(transcript string) string {
	return fmt.Sprintf(`Act as an expert public English speaking coach. Evaluate the following transcript and provide a score on a scale of 1-5 for each of these categories:

1. Thesis Clarity
2. Organization
3. Support/Evidence
4. Pacing/Pausing
5. Volume/Clarity
6. Vocal Variety
7. Grammar/Syntax
8. Appropriateness
9. Word Choice/Rhetoric

Provide only the numerical scores for each category, separated by commas, in the order listed above. Do not include any other text in your response.

Transcript:
%s`, transcript)
}

// BuildSuggestionsPrompt lists each category with its 0-10 score and asks for
// at most five suggestions as a JSON array.
func (pb *PromptBuilder) BuildSuggestionsPrompt(categories []rubric.CategoryScore) string {
	lines := make([]string, 0, len(categories))
	for _, c := range categories {
		lines = append(lines, fmt.Sprintf("%s: %s/10", c.Category, formatScore(c.Score)))
	}

	return fmt.Sprintf(`As an expert public speaking coach, provide improvement suggestions for the following categories based on their scores. Give 1-2 concise, actionable suggestions for each category. The total number of suggestions should not exceed %d.

Categories and scores:
%s

Format your response as a JSON array of objects, each with 'category' and 'text' properties. Use the category names exactly as listed above. For example:
[
  {"category": "Content & Structure", "text": "Strengthen your thesis statement by making it more specific and arguable."},
  {"category": "Delivery & Vocal Control", "text": "Practice varying your pitch and tone to add emphasis to key points."}
]`, rubric.MaxSuggestions, strings.Join(lines, "\n"))
}

// BuildTranscriptionPrompt is the instruction sent alongside audio to Gemini.
func (pb *PromptBuilder) BuildTranscriptionPrompt(language string) string {
	return fmt.Sprintf(`Transcribe the speech in this audio recording verbatim. The speaker is using language code %s.
Return only the transcript text, with one line per sentence. Do not add commentary, timestamps or speaker labels.
If there is no intelligible speech, return an empty response.`, language)
}

func formatScore(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
