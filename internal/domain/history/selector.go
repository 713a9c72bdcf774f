package history

// Selector holds the active history filter for a view. Choosing a custom
// range without both dates leaves the previous filter in place.
type Selector struct {
	current Selection
}

// NewSelector starts with every bill visible.
func NewSelector() *Selector {
	return &Selector{current: Selection{Range: RangeAll}}
}

// Select switches to sel if it is complete and reports whether it did.
func (s *Selector) Select(sel Selection) bool {
	if !sel.Complete() {
		return false
	}
	s.current = sel
	return true
}

// Current returns the filter in effect.
func (s *Selector) Current() Selection {
	return s.current
}
