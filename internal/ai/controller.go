// Package ai decides paddle intents for bot-controlled paddles. The
// controller is a per-tick heuristic: it has no memory beyond its random
// source and never touches paddles owned by humans — roster screening is the
// session's job before calling Decide.
package ai

import (
	"math/rand"

	"github.com/calvinhon/ft-transcendence-sub003/internal/game"
)

// Intent is the movement decision for one paddle for one tick.
type Intent int

const (
	IntentNone Intent = iota
	IntentUp
	IntentDown
)

// Params tunes the imperfection of a bot for one difficulty tier.
type Params struct {
	// ReactionProbability is the chance the bot acts at all this tick.
	ReactionProbability float64
	// StepSize is how far the paddle moves when the bot acts.
	StepSize float64
	// DeadZone is the vertical distance from the paddle center to the
	// ball below which the bot stays put.
	DeadZone float64
}

// ParamsFor maps a difficulty tier to its tuning. Unknown tiers fall back to
// medium.
func ParamsFor(d game.Difficulty) Params {
	switch d {
	case game.DifficultyEasy:
		return Params{ReactionProbability: 0.6, StepSize: 2, DeadZone: 50}
	case game.DifficultyHard:
		return Params{ReactionProbability: 0.98, StepSize: 8, DeadZone: 5}
	default:
		return Params{ReactionProbability: 0.8, StepSize: 4, DeadZone: 25}
	}
}

// Controller produces intents from its own random source so sessions stay
// independent and tests can seed deterministically.
type Controller struct {
	rng *rand.Rand
}

// NewController wraps the given source. A nil rng panics early rather than
// at the first tick.
func NewController(rng *rand.Rand) *Controller {
	if rng == nil {
		panic("ai: nil rng")
	}
	return &Controller{rng: rng}
}

// Decide returns the intent for one bot paddle. The bot skips the tick with
// probability 1-ReactionProbability, otherwise it chases the ball's y unless
// already within the dead zone.
func (c *Controller) Decide(paddle game.Paddle, ball game.Ball, p Params) Intent {
	if c.rng.Float64() > p.ReactionProbability {
		return IntentNone
	}
	center := paddle.Center()
	switch {
	case center < ball.Pos.Y-p.DeadZone:
		return IntentDown
	case center > ball.Pos.Y+p.DeadZone:
		return IntentUp
	default:
		return IntentNone
	}
}
