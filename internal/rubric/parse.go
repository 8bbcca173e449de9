package rubric

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedRatings is returned when model output cannot be read as nine ratings.
var ErrMalformedRatings = errors.New("malformed ratings")

// ParseRatings reads nine comma-separated numbers in FieldNames order.
//
// The sequence must have exactly nine elements, every element must be a finite
// number, and every number must be a whole rating in [1,5]. Anything else wraps
// ErrMalformedRatings.
func ParseRatings(text string) (Ratings, error) {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "`")
	parts := strings.Split(text, ",")
	if len(parts) != len(FieldNames) {
		return Ratings{}, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedRatings, len(FieldNames), len(parts))
	}

	var values [9]int
	for i, part := range parts {
		part = strings.TrimSpace(part)
		f, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Ratings{}, fmt.Errorf("%w: %s value %q is not a number", ErrMalformedRatings, FieldNames[i], part)
		}
		if f != math.Trunc(f) || f < MinRating || f > MaxRating {
			return Ratings{}, fmt.Errorf("%w: %s value %v is not a rating in [%d,%d]", ErrMalformedRatings, FieldNames[i], f, MinRating, MaxRating)
		}
		values[i] = int(f)
	}

	return RatingsFromValues(values), nil
}
