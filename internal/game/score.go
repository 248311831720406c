package game

// Scores tracks points per side. Values only ever grow, one point per
// scoring event.
type Scores struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Add records one point for the given side and returns the new tally for
// that side.
func (s *Scores) Add(side Side) int {
	if side == SideLeft {
		s.Left++
		return s.Left
	}
	s.Right++
	return s.Right
}

// Get returns the tally for one side.
func (s Scores) Get(side Side) int {
	if side == SideLeft {
		return s.Left
	}
	return s.Right
}

// Leader returns the side currently ahead; ties report SideLeft, so callers
// must only consult it once a win condition is met.
func (s Scores) Leader() Side {
	if s.Right > s.Left {
		return SideRight
	}
	return SideLeft
}
