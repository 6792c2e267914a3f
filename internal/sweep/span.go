package sweep

import "fmt"

// Span is the inclusive integer range of h values a sweep covers.
// From > To yields the empty sweep.
type Span struct {
	From int `json:"from"`
	To   int `json:"to"`
	Step int `json:"step"`
}

// step returns the stride, at least 1.
func (s Span) step() int {
	if s.Step > 0 {
		return s.Step
	}
	return 1
}

// Values returns the sweep values in ascending order.
func (s Span) Values() []int {
	var vals []int
	for h := s.From; h <= s.To; h += s.step() {
		vals = append(vals, h)
	}
	return vals
}

// Count returns the number of sweep values.
func (s Span) Count() int {
	if s.From > s.To {
		return 0
	}
	return (s.To-s.From)/s.step() + 1
}

// String renders the span for logs, e.g. "0..4" or "0..10 step 2".
func (s Span) String() string {
	if s.step() == 1 {
		return fmt.Sprintf("%d..%d", s.From, s.To)
	}
	return fmt.Sprintf("%d..%d step %d", s.From, s.To, s.Step)
}
