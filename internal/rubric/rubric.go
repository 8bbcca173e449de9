// Package rubric implements the public-speaking rubric: nine 1-5 ratings grouped
// into three weighted categories and reduced to a 0-100 final score.
package rubric

import (
	"fmt"
	"math"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Ratings holds the nine raw rubric ratings, each an integer in [1,5].
type Ratings struct {
	ThesisClarity      int `json:"thesisClarity"`
	Organization       int `json:"organization"`
	SupportEvidence    int `json:"supportEvidence"`
	PacingPausing      int `json:"pacingPausing"`
	VolumeClarity      int `json:"volumeClarity"`
	VocalVariety       int `json:"vocalVariety"`
	GrammarSyntax      int `json:"grammarSyntax"`
	Appropriateness    int `json:"appropriateness"`
	WordChoiceRhetoric int `json:"wordChoiceRhetoric"`
}

// FieldNames lists the rating fields in rubric order. The AI rating prompt asks
// for scores in exactly this order.
var FieldNames = [9]string{
	"thesisClarity",
	"organization",
	"supportEvidence",
	"pacingPausing",
	"volumeClarity",
	"vocalVariety",
	"grammarSyntax",
	"appropriateness",
	"wordChoiceRhetoric",
}

// Values returns the ratings in FieldNames order.
func (r Ratings) Values() [9]int {
	return [9]int{
		r.ThesisClarity,
		r.Organization,
		r.SupportEvidence,
		r.PacingPausing,
		r.VolumeClarity,
		r.VocalVariety,
		r.GrammarSyntax,
		r.Appropriateness,
		r.WordChoiceRhetoric,
	}
}

// RatingsFromValues builds Ratings from values given in FieldNames order.
func RatingsFromValues(v [9]int) Ratings {
	return Ratings{
		ThesisClarity:      v[0],
		Organization:       v[1],
		SupportEvidence:    v[2],
		PacingPausing:      v[3],
		VolumeClarity:      v[4],
		VocalVariety:       v[5],
		GrammarSyntax:      v[6],
		Appropriateness:    v[7],
		WordChoiceRhetoric: v[8],
	}
}

// Validate reports the first field outside [1,5]. A zero value counts as missing.
func (r Ratings) Validate() error {
	for i, v := range r.Values() {
		if v == 0 {
			return &ValidationError{Field: FieldNames[i], Reason: "missing"}
		}
		if v < MinRating || v > MaxRating {
			return &ValidationError{Field: FieldNames[i], Reason: fmt.Sprintf("%d is outside [%d,%d]", v, MinRating, MaxRating)}
		}
	}
	return nil
}

// ValidationError identifies the rating field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid or missing value for %s", e.Field)
	}
	return fmt.Sprintf("invalid or missing value for %s: %s", e.Field, e.Reason)
}

type ContentAndStructure struct {
	ThesisClarity   int `json:"thesisClarity"`
	Organization    int `json:"organization"`
	SupportEvidence int `json:"supportEvidence"`
	Total           int `json:"total"`
}

type DeliveryAndVocalControl struct {
	PacingPausing int `json:"pacingPausing"`
	VolumeClarity int `json:"volumeClarity"`
	VocalVariety  int `json:"vocalVariety"`
	Total         int `json:"total"`
}

type LanguageUseAndStyle struct {
	GrammarSyntax      int `json:"grammarSyntax"`
	Appropriateness    int `json:"appropriateness"`
	WordChoiceRhetoric int `json:"wordChoiceRhetoric"`
	Total              int `json:"total"`
}

// ScoreReport is the weighted breakdown derived from one Ratings value.
type ScoreReport struct {
	ContentAndStructure     ContentAndStructure     `json:"contentAndStructure"`
	DeliveryAndVocalControl DeliveryAndVocalControl `json:"deliveryAndVocalControl"`
	LanguageUseAndStyle     LanguageUseAndStyle     `json:"languageUseAndStyle"`
	FinalScore              float64                 `json:"finalScore"`
}

// Compute validates the ratings and applies the fixed rubric weights.
//
// Category maxima are 40, 40 and 20. The final score weights them 40/40/20 and is
// rounded half away from zero to two decimals.
func Compute(r Ratings) (*ScoreReport, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	content := ContentAndStructure{
		ThesisClarity:   r.ThesisClarity * 4,
		Organization:    r.Organization * 3,
		SupportEvidence: r.SupportEvidence,
	}
	content.Total = content.ThesisClarity + content.Organization + content.SupportEvidence

	delivery := DeliveryAndVocalControl{
		PacingPausing: r.PacingPausing * 4,
		VolumeClarity: r.VolumeClarity * 3,
		VocalVariety:  r.VocalVariety,
	}
	delivery.Total = delivery.PacingPausing + delivery.VolumeClarity + delivery.VocalVariety

	language := LanguageUseAndStyle{
		GrammarSyntax:      r.GrammarSyntax * 2,
		Appropriateness:    r.Appropriateness,
		WordChoiceRhetoric: r.WordChoiceRhetoric,
	}
	language.Total = language.GrammarSyntax + language.Appropriateness + language.WordChoiceRhetoric

	final := (float64(content.Total)/float64(CategoryContent.Max())*0.4 +
		float64(delivery.Total)/float64(CategoryDelivery.Max())*0.4 +
		float64(language.Total)/float64(CategoryLanguage.Max())*0.2) * 100

	return &ScoreReport{
		ContentAndStructure:     content,
		DeliveryAndVocalControl: delivery,
		LanguageUseAndStyle:     language,
		FinalScore:              roundTo2(final),
	}, nil
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Total returns the weighted total of one category.
func (s *ScoreReport) Total(c Category) int {
	switch c {
	case CategoryContent:
		return s.ContentAndStructure.Total
	case CategoryDelivery:
		return s.DeliveryAndVocalControl.Total
	case CategoryLanguage:
		return s.LanguageUseAndStyle.Total
	}
	return 0
}

// Normalized rescales a category total to 0-10.
func (s *ScoreReport) Normalized(c Category) float64 {
	limit := c.Max()
	if limit == 0 {
		return 0
	}
	return roundTo2(float64(s.Total(c)) * 10 / float64(limit))
}

// CategoryScore is a category paired with its 0-10 score.
type CategoryScore struct {
	Category Category `json:"name"`
	Score    float64  `json:"score"`
}

// CategoryScores returns the three categories with normalized scores, in rubric order.
func (s *ScoreReport) CategoryScores() []CategoryScore {
	out := make([]CategoryScore, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, CategoryScore{Category: c, Score: s.Normalized(c)})
	}
	return out
}

// SubScore is one weighted criterion inside a category, used for display.
type SubScore struct {
	Name  string
	Score int
	Max   int
}

// SubScores returns the weighted criteria of a category with their display names.
func (s *ScoreReport) SubScores(c Category) []SubScore {
	switch c {
	case CategoryContent:
		return []SubScore{
			{Name: "Thesis & Message Clarity", Score: s.ContentAndStructure.ThesisClarity, Max: 20},
			{Name: "Organization", Score: s.ContentAndStructure.Organization, Max: 15},
			{Name: "Support & Evidence", Score: s.ContentAndStructure.SupportEvidence, Max: 5},
		}
	case CategoryDelivery:
		return []SubScore{
			{Name: "Pacing & Pausing", Score: s.DeliveryAndVocalControl.PacingPausing, Max: 20},
			{Name: "Volume & Clarity", Score: s.DeliveryAndVocalControl.VolumeClarity, Max: 15},
			{Name: "Vocal Variety", Score: s.DeliveryAndVocalControl.VocalVariety, Max: 5},
		}
	case CategoryLanguage:
		return []SubScore{
			{Name: "Grammar & Syntax", Score: s.LanguageUseAndStyle.GrammarSyntax, Max: 10},
			{Name: "Appropriateness", Score: s.LanguageUseAndStyle.Appropriateness, Max: 5},
			{Name: "Word Choice & Rhetoric", Score: s.LanguageUseAndStyle.WordChoiceRhetoric, Max: 5},
		}
	}
	return nil
}
