package game

import (
	"math"
	"testing"
)

func slowSettings() Settings {
	return Settings{Mode: ModeDuel, BallSpeed: SpeedSlow, ScoreToWin: 5}.Normalized()
}

func TestFrozenBallDoesNotMove(t *testing.T) {
	layout := NewSinglesLayout()
	ball := NewKickoffBall(SideRight, slowSettings())

	advanced, res := Advance(ball, &layout, slowSettings())
	if advanced != ball {
		t.Fatalf("frozen ball changed: %+v -> %+v", ball, advanced)
	}
	if res.Scored || res.Hit != nil {
		t.Fatalf("frozen tick produced events: %+v", res)
	}
}

func TestKickoffVelocityMagnitude(t *testing.T) {
	set := slowSettings()
	ball := NewKickoffBall(SideRight, set)

	if !ball.Frozen {
		t.Fatalf("kickoff ball must start frozen")
	}
	if ball.Pos.X != CourtWidth/2 || ball.Pos.Y != CourtHeight/2 {
		t.Fatalf("kickoff ball not centered: %+v", ball.Pos)
	}
	if ball.Vel.X != 3 || ball.Vel.Y != 0 {
		t.Fatalf("expected slow kickoff velocity (3, 0), got %+v", ball.Vel)
	}
	if mag := math.Hypot(ball.Vel.X, ball.Vel.Y); mag != 3 {
		t.Fatalf("expected kickoff speed 3, got %.4f", mag)
	}

	left := NewKickoffBall(SideLeft, set)
	if left.Vel.X != -3 {
		t.Fatalf("expected leftward kickoff, got %+v", left.Vel)
	}
}

func TestWallBounceFlipsAndClamps(t *testing.T) {
	layout := NewSinglesLayout()
	set := slowSettings()

	ball := Ball{Pos: Vec2{X: 400, Y: 1}, Vel: Vec2{X: 0, Y: -3}}
	advanced, _ := Advance(ball, &layout, set)
	if advanced.Vel.Y != 3 {
		t.Fatalf("expected vel.y sign flip at top wall, got %.2f", advanced.Vel.Y)
	}
	if advanced.Pos.Y != 0 {
		t.Fatalf("expected position clamped to 0, got %.2f", advanced.Pos.Y)
	}

	ball = Ball{Pos: Vec2{X: 400, Y: CourtHeight - 1}, Vel: Vec2{X: 0, Y: 3}}
	advanced, _ = Advance(ball, &layout, set)
	if advanced.Vel.Y != -3 {
		t.Fatalf("expected vel.y sign flip at bottom wall, got %.2f", advanced.Vel.Y)
	}
	if advanced.Pos.Y != CourtHeight {
		t.Fatalf("expected position clamped to court height, got %.2f", advanced.Pos.Y)
	}
}

func TestScoringSides(t *testing.T) {
	layout := NewSinglesLayout()
	set := slowSettings()

	ball := Ball{Pos: Vec2{X: 1, Y: 300}, Vel: Vec2{X: -3, Y: 0}}
	// Move the left paddle out of the ball's path.
	layout.Left[0].Pos.Y = 0
	ball.Pos.Y = 550
	_, res := Advance(ball, &layout, set)
	if !res.Scored || res.Scorer != SideRight {
		t.Fatalf("expected right side to score, got %+v", res)
	}

	ball = Ball{Pos: Vec2{X: CourtWidth - 1, Y: 550}, Vel: Vec2{X: 3, Y: 0}}
	layout.Right[0].Pos.Y = 0
	_, res = Advance(ball, &layout, set)
	if !res.Scored || res.Scorer != SideLeft {
		t.Fatalf("expected left side to score, got %+v", res)
	}
}

func TestPaddleHitPreservesSpeed(t *testing.T) {
	layout := NewSinglesLayout()
	set := slowSettings()
	paddle := layout.Right[0]

	// Aim the ball dead center at the right paddle.
	ball := Ball{
		Pos: Vec2{X: RightPaddleX - PaddleWidth - 2, Y: paddle.Center()},
		Vel: Vec2{X: 3, Y: 0},
	}

	advanced, res := Advance(ball, &layout, set)
	if res.Hit == nil {
		t.Fatalf("expected a paddle hit, got %+v", res)
	}
	if res.Hit.Side != SideRight || res.Hit.Index != 0 {
		t.Fatalf("unexpected hit info: %+v", res.Hit)
	}
	if advanced.Vel.X >= 0 {
		t.Fatalf("hit on right paddle must send the ball left, got %+v", advanced.Vel)
	}

	pre := math.Hypot(ball.Vel.X, ball.Vel.Y)
	post := math.Hypot(advanced.Vel.X, advanced.Vel.Y)
	if math.Abs(pre-post) > 1e-9 {
		t.Fatalf("speed not preserved: %.4f -> %.4f", pre, post)
	}
}

func TestPaddleHitAngleFollowsOffset(t *testing.T) {
	layout := NewSinglesLayout()
	set := slowSettings()
	paddle := layout.Left[0]

	// Contact near the bottom edge should produce a steep downward exit.
	ball := Ball{
		Pos: Vec2{X: LeftPaddleX + PaddleWidth + 2, Y: paddle.Pos.Y + paddle.Height - 5},
		Vel: Vec2{X: -3, Y: 0},
	}

	advanced, res := Advance(ball, &layout, set)
	if res.Hit == nil {
		t.Fatalf("expected a paddle hit")
	}
	if res.Hit.Offset <= 0 {
		t.Fatalf("expected positive contact offset, got %.3f", res.Hit.Offset)
	}
	if advanced.Vel.Y <= 0 {
		t.Fatalf("low contact should bounce downward, got %+v", advanced.Vel)
	}
	if advanced.Vel.X <= 0 {
		t.Fatalf("hit on left paddle must send the ball right, got %+v", advanced.Vel)
	}

	angle := math.Atan2(advanced.Vel.Y, advanced.Vel.X)
	if angle > maxBounceAngle+1e-9 {
		t.Fatalf("exit angle %.3f exceeds the ±60° range", angle)
	}
}

func TestAccelerateOnHitMultiplier(t *testing.T) {
	layout := NewSinglesLayout()
	set := slowSettings()
	set.AccelerateOnHit = true
	paddle := layout.Left[0]

	ball := Ball{
		Pos: Vec2{X: LeftPaddleX + PaddleWidth + 2, Y: paddle.Center()},
		Vel: Vec2{X: -3, Y: 0},
	}

	advanced, res := Advance(ball, &layout, set)
	if res.Hit == nil {
		t.Fatalf("expected a paddle hit")
	}

	pre := math.Hypot(ball.Vel.X, ball.Vel.Y)
	post := math.Hypot(advanced.Vel.X, advanced.Vel.Y)
	if math.Abs(post-pre*1.15) > 1e-9 {
		t.Fatalf("expected %.4f after acceleration, got %.4f", pre*1.15, post)
	}
}

func TestAccelerationCapsAtTwiceBaseSpeed(t *testing.T) {
	layout := NewSinglesLayout()
	set := slowSettings()
	set.AccelerateOnHit = true
	paddle := layout.Left[0]

	// Already at the cap; another hit must not exceed it.
	ball := Ball{
		Pos: Vec2{X: LeftPaddleX + PaddleWidth + 2, Y: paddle.Center()},
		Vel: Vec2{X: -set.MaxBallSpeed(), Y: 0},
	}

	advanced, res := Advance(ball, &layout, set)
	if res.Hit == nil {
		t.Fatalf("expected a paddle hit")
	}
	post := math.Hypot(advanced.Vel.X, advanced.Vel.Y)
	if post > set.MaxBallSpeed()+1e-9 {
		t.Fatalf("speed %.4f exceeds cap %.4f", post, set.MaxBallSpeed())
	}
}

func TestTeamLayoutCollidesPerPaddle(t *testing.T) {
	set := Settings{Mode: ModeArcade, BallSpeed: SpeedSlow, LeftTeamSize: 2, RightTeamSize: 3}.Normalized()
	layout := set.NewLayout()

	if layout.Kind != LayoutTeams {
		t.Fatalf("arcade mode must build a team layout, got %q", layout.Kind)
	}
	if len(layout.Left) != 2 || len(layout.Right) != 3 {
		t.Fatalf("unexpected paddle counts: %d vs %d", len(layout.Left), len(layout.Right))
	}

	// Hit the second right paddle specifically.
	target := layout.Right[1]
	ball := Ball{
		Pos: Vec2{X: RightPaddleX - PaddleWidth - 2, Y: target.Center()},
		Vel: Vec2{X: 3, Y: 0},
	}
	_, res := Advance(ball, &layout, set)
	if res.Hit == nil || res.Hit.Index != 1 || res.Hit.Side != SideRight {
		t.Fatalf("expected hit on right paddle 1, got %+v", res.Hit)
	}
}

func TestTeamPaddlesSpreadWithinBounds(t *testing.T) {
	for _, count := range []int{1, 2, 4, 7} {
		layout := NewTeamsLayout(count, count)
		for i, p := range layout.Left {
			if p.Pos.Y < 0 || p.Pos.Y > MaxPaddleY {
				t.Fatalf("paddle %d/%d out of bounds at y=%.1f", i, count, p.Pos.Y)
			}
		}
	}
}

func TestPaddleClampY(t *testing.T) {
	p := newPaddle(LeftPaddleX, -25)
	p.ClampY()
	if p.Pos.Y != 0 {
		t.Fatalf("expected clamp to 0, got %.1f", p.Pos.Y)
	}
	p.Pos.Y = CourtHeight
	p.ClampY()
	if p.Pos.Y != MaxPaddleY {
		t.Fatalf("expected clamp to %.1f, got %.1f", MaxPaddleY, p.Pos.Y)
	}
}
