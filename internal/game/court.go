package game

// Court dimensions in world units. The coordinate origin is the top-left
// corner; x grows rightward and y grows downward.
const (
	CourtWidth  = 800.0
	CourtHeight = 600.0

	PaddleHeight = 100.0
	PaddleWidth  = 10.0

	// Fixed x anchors for the two sides. Left paddles occupy
	// [LeftPaddleX, LeftPaddleX+PaddleWidth], right paddles
	// [RightPaddleX-PaddleWidth, RightPaddleX].
	LeftPaddleX  = 50.0
	RightPaddleX = 750.0

	// MaxPaddleY is the lowest legal top-left y for a paddle.
	MaxPaddleY = CourtHeight - PaddleHeight
)

// Vec2 is a position or velocity in court space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Side identifies one half of the court.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns the other side of the court.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Ball carries the full kinematic state of the ball. While Frozen is set the
// velocity is not applied; the ball sits re-centered waiting for kickoff.
type Ball struct {
	Pos    Vec2 `json:"pos"`
	Vel    Vec2 `json:"vel"`
	Frozen bool `json:"frozen"`
}

// Paddle is positioned by its top-left corner. X never changes after layout
// construction; only Y moves.
type Paddle struct {
	Pos    Vec2    `json:"pos"`
	Height float64 `json:"height"`
}

// Center returns the vertical midpoint of the paddle.
func (p Paddle) Center() float64 {
	return p.Pos.Y + p.Height/2
}

// ClampY forces the paddle back inside the court.
func (p *Paddle) ClampY() {
	if p.Pos.Y < 0 {
		p.Pos.Y = 0
	}
	if p.Pos.Y > MaxPaddleY {
		p.Pos.Y = MaxPaddleY
	}
}

// LayoutKind tags the paddle arrangement chosen at session creation.
type LayoutKind string

const (
	// LayoutSingles holds exactly one paddle per side (duel mode).
	LayoutSingles LayoutKind = "singles"
	// LayoutTeams holds one or more paddles per side (arcade and
	// tournament modes).
	LayoutTeams LayoutKind = "teams"
)

// Layout is the paddle arrangement for one session. The kind is fixed at
// construction and never switches mid-session; all physics and input code
// operates on the slices regardless of kind.
type Layout struct {
	Kind  LayoutKind `json:"kind"`
	Left  []Paddle   `json:"left"`
	Right []Paddle   `json:"right"`
}

// Paddles returns the paddle slice for the requested side.
func (l *Layout) Paddles(side Side) []Paddle {
	if side == SideLeft {
		return l.Left
	}
	return l.Right
}

// Paddle returns a pointer into the layout for in-place movement, or nil when
// the index is out of range.
func (l *Layout) Paddle(side Side, index int) *Paddle {
	paddles := l.Left
	if side == SideRight {
		paddles = l.Right
	}
	if index < 0 || index >= len(paddles) {
		return nil
	}
	return &paddles[index]
}

// Clone deep-copies the layout so snapshots can be marshaled while the
// original keeps mutating.
func (l Layout) Clone() Layout {
	cloned := l
	cloned.Left = append([]Paddle(nil), l.Left...)
	cloned.Right = append([]Paddle(nil), l.Right...)
	return cloned
}

// NewSinglesLayout builds the duel arrangement: one vertically centered
// paddle per side.
func NewSinglesLayout() Layout {
	return Layout{
		Kind:  LayoutSingles,
		Left:  []Paddle{newPaddle(LeftPaddleX, centeredPaddleY())},
		Right: []Paddle{newPaddle(RightPaddleX, centeredPaddleY())},
	}
}

// NewTeamsLayout builds the team arrangement with the paddles of each side
// spread evenly over the court height. Counts below one are raised to one.
func NewTeamsLayout(leftCount, rightCount int) Layout {
	if leftCount < 1 {
		leftCount = 1
	}
	if rightCount < 1 {
		rightCount = 1
	}
	return Layout{
		Kind:  LayoutTeams,
		Left:  spreadPaddles(LeftPaddleX, leftCount),
		Right: spreadPaddles(RightPaddleX, rightCount),
	}
}

func newPaddle(x, y float64) Paddle {
	return Paddle{Pos: Vec2{X: x, Y: y}, Height: PaddleHeight}
}

func centeredPaddleY() float64 {
	return (CourtHeight - PaddleHeight) / 2
}

func spreadPaddles(x float64, count int) []Paddle {
	spacing := CourtHeight / float64(count+1)
	paddles := make([]Paddle, count)
	for i := range paddles {
		y := spacing*float64(i+1) - PaddleHeight/2
		paddles[i] = newPaddle(x, y)
		paddles[i].ClampY()
	}
	return paddles
}
