package sequencer

// Pattern is the ordered on/off sequence across the steps of one track.
// Patterns are replaced as a whole; a shared Pattern is never mutated
// in place.
type Pattern []bool

// NewPattern returns an all-false pattern of the given length.
func NewPattern(steps int) Pattern {
	return make(Pattern, steps)
}

// Any reports whether at least one step is active.
func (p Pattern) Any() bool {
	for _, on := range p {
		if on {
			return true
		}
	}
	return false
}

// Active returns the indices of the active steps.
func (p Pattern) Active() []int {
	var idx []int
	for i, on := range p {
		if on {
			idx = append(idx, i)
		}
	}
	return idx
}

// Clone returns an independent copy.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}
