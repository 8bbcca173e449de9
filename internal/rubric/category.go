package rubric

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is one of the three top-level rubric groups.
type Category int

const (
	CategoryContent Category = iota + 1
	CategoryDelivery
	CategoryLanguage
)

// Categories lists every category in rubric order.
var Categories = []Category{CategoryContent, CategoryDelivery, CategoryLanguage}

func (c Category) String() string {
	switch c {
	case CategoryContent:
		return "Content & Structure"
	case CategoryDelivery:
		return "Delivery & Vocal Control"
	case CategoryLanguage:
		return "Language Use & Style"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Key is the camelCase identifier used by ScoreReport JSON.
func (c Category) Key() string {
	switch c {
	case CategoryContent:
		return "contentAndStructure"
	case CategoryDelivery:
		return "deliveryAndVocalControl"
	case CategoryLanguage:
		return "languageUseAndStyle"
	}
	return ""
}

// Max is the highest weighted total a category can reach.
func (c Category) Max() int {
	switch c {
	case CategoryContent, CategoryDelivery:
		return 40
	case CategoryLanguage:
		return 20
	}
	return 0
}

func (c Category) Valid() bool {
	return c >= CategoryContent && c <= CategoryLanguage
}

// ParseCategory accepts a display name ("Content & Structure"), its "and"
// spelling ("Content and Structure") or the JSON key ("contentAndStructure").
func ParseCategory(s string) (Category, error) {
	needle := normalizeCategory(s)
	for _, c := range Categories {
		if needle == normalizeCategory(c.String()) || needle == normalizeCategory(c.Key()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/'
	}), "")
}

func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid category %d", int(c))
	}
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Suggestion is one piece of improvement advice tied to a category.
type Suggestion struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// MaxSuggestions caps the advice kept for a single score report.
const MaxSuggestions = 5
