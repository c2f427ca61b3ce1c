package schedule

import "time"

// DefaultGameDuration is the repair value for games whose upstream end time
// is missing or not after the start. It matches the usual rink slot length.
const DefaultGameDuration = 80 * time.Minute

// GameRecord is one validated upstream game. Constructed once by the parser
// and never mutated afterwards.
type GameRecord struct {
	SourceID   string
	Start      time.Time
	End        time.Time
	HomeTeam   string
	AwayTeam   string
	HomeTeamID *int
	AwayTeamID *int
	HomeScore  *int
	AwayScore  *int
	Status     string
	Location   string
	StageName  string
}

// TeamIdentity is how a configured team recognizes itself in upstream data.
// When IDs is non-empty, matching is by id only; otherwise by normalized
// name, falling back to Name when Names is empty.
type TeamIdentity struct {
	Name  string
	Slug  string
	IDs   []int
	Names []string
}

// MatchedGame pairs a GameRecord with the fields derived from one team's
// perspective. Result is empty until both scores are known.
type MatchedGame struct {
	Game     GameRecord
	Opponent string
	MyIsHome bool
	Result   string
}
