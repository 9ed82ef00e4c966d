package twir

import (
	"fmt"
	"strconv"
	"strings"
)

// Range selects issue numbers, inclusive on both ends. A single issue is a
// range with Min == Max.
type Range struct {
	Min int
	Max int
}

// ParseRange parses an issue selection argument: either a bare number
// ("500") or an inclusive range ("495..500").
func ParseRange(s string) (Range, error) {
	if lo, hi, ok := strings.Cut(s, ".."); ok {
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return Range{}, fmt.Errorf("illegal issues range %q: %w", s, err)
		}
		last, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return Range{}, fmt.Errorf("illegal issues range %q: %w", s, err)
		}
		if first > last {
			return Range{}, fmt.Errorf("illegal issues range %q: empty", s)
		}
		return Range{Min: first, Max: last}, nil
	}

	number, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Range{}, fmt.Errorf("illegal issue number %q: %w", s, err)
	}
	return Range{Min: number, Max: number}, nil
}

// Numbers expands the range into the selected issue numbers.
func (r Range) Numbers() []int {
	numbers := make([]int, 0, r.Max-r.Min+1)
	for n := r.Min; n <= r.Max; n++ {
		numbers = append(numbers, n)
	}
	return numbers
}
