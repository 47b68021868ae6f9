package report

// Selector partitions the field superset into pinned rows (always on top),
// scrolling rows and a hide-set. The order is learned once from the first
// snapshot and stays stable for the run; fields missing from later
// snapshots render as absent rather than reordering anything.
type Selector struct {
	order  []string
	known  map[string]bool
	pinned map[string]bool
	hidden map[string]bool
	// everNonZero drives all-zero row suppression; a field that was
	// nonzero once stays visible even after it drops back to zero.
	everNonZero map[string]bool

	edits int // pending changes since the last Commit
}

func NewSelector(pinned, hidden []string) *Selector {
	s := &Selector{
		known:       make(map[string]bool),
		pinned:      make(map[string]bool),
		hidden:      make(map[string]bool),
		everNonZero: make(map[string]bool),
	}
	for _, f := range pinned {
		s.pinned[f] = true
	}
	for _, f := range hidden {
		s.hidden[f] = true
	}
	return s
}

// Learn fixes the field order from the first snapshot seen. Later calls
// only append names not seen before, so the schema is a growing superset.
func (s *Selector) Learn(fields []string) {
	for _, f := range fields {
		if !s.known[f] {
			s.known[f] = true
			s.order = append(s.order, f)
		}
	}
}

// Observe records which fields have ever been nonzero.
func (s *Selector) Observe(values map[string]int64) {
	for f, v := range values {
		if v != 0 {
			s.everNonZero[f] = true
		}
	}
}

// Rows returns the pinned and normal field lists in display order.
// Hidden fields are dropped from the normal list; unless showZeros is set,
// so are fields that have never been nonzero.
func (s *Selector) Rows(showZeros bool) (pinned, normal []string) {
	for _, f := range s.order {
		switch {
		case s.pinned[f]:
			pinned = append(pinned, f)
		case s.hidden[f]:
		case !showZeros && !s.everNonZero[f]:
		default:
			normal = append(normal, f)
		}
	}
	return pinned, normal
}

// All returns every known field in display order, ignoring hides.
func (s *Selector) All() []string { return s.order }

func (s *Selector) IsPinned(f string) bool { return s.pinned[f] }
func (s *Selector) IsHidden(f string) bool { return s.hidden[f] }

// Pin puts a field above the line; pinning clears a hide.
func (s *Selector) Pin(f string) {
	s.pinned[f] = true
	delete(s.hidden, f)
	s.edits++
}

// Hide drops a field from the report; hiding clears a pin.
func (s *Selector) Hide(f string) {
	s.hidden[f] = true
	delete(s.pinned, f)
	s.edits++
}

// Reset returns one field to the normal scrolling group.
func (s *Selector) Reset(f string) {
	delete(s.pinned, f)
	delete(s.hidden, f)
	s.edits++
}

// ResetAll clears every pin and hide.
func (s *Selector) ResetAll() {
	s.pinned = make(map[string]bool)
	s.hidden = make(map[string]bool)
	s.edits++
}

// Dirty reports whether there are edits not yet committed to disk.
func (s *Selector) Dirty() bool { return s.edits > 0 }

// Commit returns the pinned and hidden sets for persistence and clears
// the dirty counter.
func (s *Selector) Commit() (pinned, hidden []string) {
	for _, f := range s.order {
		if s.pinned[f] {
			pinned = append(pinned, f)
		}
		if s.hidden[f] {
			hidden = append(hidden, f)
		}
	}
	// keep configured names for fields this run never saw
	for f := range s.pinned {
		if !s.known[f] {
			pinned = append(pinned, f)
		}
	}
	for f := range s.hidden {
		if !s.known[f] {
			hidden = append(hidden, f)
		}
	}
	s.edits = 0
	return pinned, hidden
}
