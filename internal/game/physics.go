package game

import "math"

// maxBounceAngle bounds the angled bounce to ±60° from horizontal.
const maxBounceAngle = math.Pi / 3

// accelerateFactor is applied to the exit speed on every paddle hit when the
// session enables AccelerateOnHit.
const accelerateFactor = 1.15

// HitInfo describes a resolved paddle collision.
type HitInfo struct {
	Side  Side
	Index int
	// Offset is the normalized vertical contact point in [-1, 1], zero at
	// the paddle center.
	Offset float64
}

// Result reports what a single tick of ball physics produced.
type Result struct {
	Scored bool
	Scorer Side
	Hit    *HitInfo
}

// Advance runs one fixed tick of ball physics. It is pure: the input ball is
// taken by value and the layout is only read. A frozen ball is returned
// untouched. Scoring is reported but not acted on; win checks belong to the
// session.
func Advance(ball Ball, layout *Layout, set Settings) (Ball, Result) {
	if ball.Frozen {
		return ball, Result{}
	}

	ball.Pos.X += ball.Vel.X
	ball.Pos.Y += ball.Vel.Y

	if ball.Pos.Y <= 0 {
		ball.Pos.Y = 0
		ball.Vel.Y = -ball.Vel.Y
	} else if ball.Pos.Y >= CourtHeight {
		ball.Pos.Y = CourtHeight
		ball.Vel.Y = -ball.Vel.Y
	}

	if hit := resolvePaddleHit(&ball, layout, set); hit != nil {
		return ball, Result{Hit: hit}
	}

	if ball.Pos.X < 0 {
		return ball, Result{Scored: true, Scorer: SideRight}
	}
	if ball.Pos.X > CourtWidth {
		return ball, Result{Scored: true, Scorer: SideLeft}
	}

	return ball, Result{}
}

// resolvePaddleHit tests the side the ball is approaching and applies the
// angled bounce on contact. Only one paddle can connect per tick.
func resolvePaddleHit(ball *Ball, layout *Layout, set Settings) *HitInfo {
	var side Side
	switch {
	case ball.Vel.X < 0 && ball.Pos.X >= LeftPaddleX && ball.Pos.X <= LeftPaddleX+PaddleWidth:
		side = SideLeft
	case ball.Vel.X > 0 && ball.Pos.X >= RightPaddleX-PaddleWidth && ball.Pos.X <= RightPaddleX:
		side = SideRight
	default:
		return nil
	}

	for i, paddle := range layout.Paddles(side) {
		if ball.Pos.Y < paddle.Pos.Y || ball.Pos.Y > paddle.Pos.Y+paddle.Height {
			continue
		}
		offset := (ball.Pos.Y - paddle.Center()) / (paddle.Height / 2)
		bounce(ball, side, offset, set)
		return &HitInfo{Side: side, Index: i, Offset: offset}
	}
	return nil
}

// bounce recomputes the velocity from the contact offset, preserving the
// pre-hit speed magnitude and optionally accelerating it.
func bounce(ball *Ball, side Side, offset float64, set Settings) {
	angle := offset * maxBounceAngle
	if side == SideRight {
		angle = math.Pi - angle
	}

	speed := math.Hypot(ball.Vel.X, ball.Vel.Y)
	if set.AccelerateOnHit {
		speed = math.Min(speed*accelerateFactor, set.MaxBallSpeed())
	}

	ball.Vel.X = speed * math.Cos(angle)
	ball.Vel.Y = speed * math.Sin(angle)
}

// NewKickoffBall produces the frozen, re-centered ball used at countdown and
// after every score. The kickoff travels horizontally toward the given side
// at exactly the tier speed once unfrozen.
func NewKickoffBall(toward Side, set Settings) Ball {
	speed := set.BallSpeedValue()
	vx := speed
	if toward == SideLeft {
		vx = -speed
	}
	return Ball{
		Pos:    Vec2{X: CourtWidth / 2, Y: CourtHeight / 2},
		Vel:    Vec2{X: vx, Y: 0},
		Frozen: true,
	}
}
