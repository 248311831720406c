package game

// Mode selects the match variant and thereby the paddle layout.
type Mode string

const (
	// ModeDuel is a single opponent per side, human or bot.
	ModeDuel Mode = "duel"
	// ModeArcade allows N paddles per side with mixed human/bot rosters.
	ModeArcade Mode = "arcade"
	// ModeTournament is a fixed 1-vs-1 with externally supplied players.
	ModeTournament Mode = "tournament"
)

// Difficulty selects the bot controller parameter tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// SpeedTier selects ball or paddle speed presets.
type SpeedTier string

const (
	SpeedSlow   SpeedTier = "slow"
	SpeedMedium SpeedTier = "medium"
	SpeedFast   SpeedTier = "fast"
)

// Settings is the immutable per-session configuration. Construct it from a
// join request and run it through Normalized before use.
type Settings struct {
	Mode            Mode       `json:"mode"`
	AIDifficulty    Difficulty `json:"aiDifficulty"`
	BallSpeed       SpeedTier  `json:"ballSpeed"`
	PaddleSpeed     SpeedTier  `json:"paddleSpeed"`
	AccelerateOnHit bool       `json:"accelerateOnHit"`
	ScoreToWin      int        `json:"scoreToWin"`
	LeftTeamSize    int        `json:"leftTeamSize,omitempty"`
	RightTeamSize   int        `json:"rightTeamSize,omitempty"`

	// ProgressionLevel, when positive, grants an additive paddle speed
	// bonus of one unit per level.
	ProgressionLevel int `json:"progressionLevel,omitempty"`
}

// Normalized fills unset fields with defaults and clamps nonsensical values.
func (s Settings) Normalized() Settings {
	switch s.Mode {
	case ModeDuel, ModeArcade, ModeTournament:
	default:
		s.Mode = ModeDuel
	}
	switch s.AIDifficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		s.AIDifficulty = DifficultyMedium
	}
	switch s.BallSpeed {
	case SpeedSlow, SpeedMedium, SpeedFast:
	default:
		s.BallSpeed = SpeedMedium
	}
	switch s.PaddleSpeed {
	case SpeedSlow, SpeedMedium, SpeedFast:
	default:
		s.PaddleSpeed = SpeedMedium
	}
	if s.ScoreToWin < 1 {
		s.ScoreToWin = 5
	}
	if s.LeftTeamSize < 1 {
		s.LeftTeamSize = 1
	}
	if s.RightTeamSize < 1 {
		s.RightTeamSize = 1
	}
	if s.Mode == ModeTournament {
		s.LeftTeamSize = 1
		s.RightTeamSize = 1
	}
	if s.ProgressionLevel < 0 {
		s.ProgressionLevel = 0
	}
	return s
}

// NewLayout builds the paddle arrangement dictated by the mode.
func (s Settings) NewLayout() Layout {
	if s.Mode == ModeDuel {
		return NewSinglesLayout()
	}
	return NewTeamsLayout(s.LeftTeamSize, s.RightTeamSize)
}

// BallSpeedValue converts the ball speed tier to units per tick.
func (s Settings) BallSpeedValue() float64 {
	switch s.BallSpeed {
	case SpeedSlow:
		return 3
	case SpeedFast:
		return 12
	default:
		return 8
	}
}

// MaxBallSpeed is the acceleration cap: twice the tier's base speed.
func (s Settings) MaxBallSpeed() float64 {
	return s.BallSpeedValue() * 2
}

// PaddleSpeedValue converts the paddle speed tier to units per input event,
// including the additive progression bonus.
func (s Settings) PaddleSpeedValue() float64 {
	base := 13.0
	switch s.PaddleSpeed {
	case SpeedSlow:
		base = 8
	case SpeedFast:
		base = 18
	}
	return base + float64(s.ProgressionLevel)
}
