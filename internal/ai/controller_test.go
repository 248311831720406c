package ai

import (
	"math/rand"
	"testing"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
)

func certainParams() Params {
	return Params{ReactionProbability: 1, StepSize: 8, DeadZone: 5}
}

func testController() *Controller {
	return NewController(rand.New(rand.NewSource(1)))
}

func TestDecideChasesBall(t *testing.T) {
	c := testController()
	paddle := game.Paddle{Pos: game.Vec2{X: game.RightPaddleX, Y: 250}, Height: game.PaddleHeight}

	below := game.Ball{Pos: game.Vec2{X: 400, Y: 500}}
	if got := c.Decide(paddle, below, certainParams()); got != IntentDown {
		t.Fatalf("expected IntentDown toward low ball, got %v", got)
	}

	above := game.Ball{Pos: game.Vec2{X: 400, Y: 50}}
	if got := c.Decide(paddle, above, certainParams()); got != IntentUp {
		t.Fatalf("expected IntentUp toward high ball, got %v", got)
	}
}

func TestDecideRespectsDeadZone(t *testing.T) {
	c := testController()
	paddle := game.Paddle{Pos: game.Vec2{X: game.RightPaddleX, Y: 250}, Height: game.PaddleHeight}

	params := certainParams()
	params.DeadZone = 50

	// Ball within the dead zone around the paddle center (300).
	ball := game.Ball{Pos: game.Vec2{X: 400, Y: 330}}
	if got := c.Decide(paddle, ball, params); got != IntentNone {
		t.Fatalf("expected no move inside dead zone, got %v", got)
	}
}

func TestDecideSkipsWithZeroReaction(t *testing.T) {
	c := testController()
	paddle := game.Paddle{Pos: game.Vec2{X: game.RightPaddleX, Y: 0}, Height: game.PaddleHeight}
	ball := game.Ball{Pos: game.Vec2{X: 400, Y: 599}}

	params := certainParams()
	params.ReactionProbability = 0

	for i := 0; i < 100; i++ {
		if got := c.Decide(paddle, ball, params); got != IntentNone {
			t.Fatalf("bot acted despite zero reaction probability")
		}
	}
}

func TestParamsForTiers(t *testing.T) {
	easy := ParamsFor(game.DifficultyEasy)
	hard := ParamsFor(game.DifficultyHard)

	if easy.ReactionProbability >= hard.ReactionProbability {
		t.Fatalf("easy bot should react less often than hard: %.2f vs %.2f",
			easy.ReactionProbability, hard.ReactionProbability)
	}
	if easy.DeadZone <= hard.DeadZone {
		t.Fatalf("easy bot should have the larger dead zone: %.1f vs %.1f",
			easy.DeadZone, hard.DeadZone)
	}
	if easy.StepSize >= hard.StepSize {
		t.Fatalf("easy bot should move in smaller steps: %.1f vs %.1f",
			easy.StepSize, hard.StepSize)
	}

	if got := ParamsFor(game.Difficulty("nope")); got != ParamsFor(game.DifficultyMedium) {
		t.Fatalf("unknown difficulty should fall back to medium, got %+v", got)
	}
}
