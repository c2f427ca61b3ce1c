package schedule

import (
	"fmt"
	"sort"
	"strings"
)

// NormalizeName case-folds a team name and collapses runs of whitespace so
// upstream spelling variants compare equal.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// MatchTeam filters records to games involving the given identity and derives
// opponent, side, and result for each. Output is stable-sorted ascending by
// start time regardless of input order.
//
// Matching priority: configured ids when any exist, otherwise normalized
// names. When both sides match (a team listed against itself), the home side
// wins for perspective purposes and the game is kept as-is.
func MatchTeam(records []GameRecord, identity TeamIdentity) []MatchedGame {
	ids := make(map[int]struct{}, len(identity.IDs))
	for _, id := range identity.IDs {
		ids[id] = struct{}{}
	}

	names := identity.Names
	if len(names) == 0 {
		names = []string{identity.Name}
	}
	normalized := make(map[string]struct{}, len(names))
	for _, name := range names {
		normalized[NormalizeName(name)] = struct{}{}
	}

	out := make([]MatchedGame, 0, len(records))
	for _, g := range records {
		var homeIsMe, awayIsMe bool
		if len(ids) > 0 {
			homeIsMe = g.HomeTeamID != nil && contains(ids, *g.HomeTeamID)
			awayIsMe = g.AwayTeamID != nil && contains(ids, *g.AwayTeamID)
		} else {
			_, homeIsMe = normalized[NormalizeName(g.HomeTeam)]
			_, awayIsMe = normalized[NormalizeName(g.AwayTeam)]
		}

		if !homeIsMe && !awayIsMe {
			continue
		}

		myIsHome := homeIsMe
		opponent := g.HomeTeam
		if myIsHome {
			opponent = g.AwayTeam
		}

		out = append(out, MatchedGame{
			Game:     g,
			Opponent: opponent,
			MyIsHome: myIsHome,
			Result:   resultString(myIsHome, g.HomeScore, g.AwayScore),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Game.Start.Before(out[j].Game.Start)
	})

	return out
}

func contains(set map[int]struct{}, id int) bool {
	_, ok := set[id]
	return ok
}

// resultString formats "W 6-3" style results from the matched team's
// perspective. Either score missing means no result yet.
func resultString(myIsHome bool, homeScore, awayScore *int) string {
	if homeScore == nil || awayScore == nil {
		return ""
	}

	myScore, oppScore := *awayScore, *homeScore
	if myIsHome {
		myScore, oppScore = *homeScore, *awayScore
	}

	prefix := "T"
	switch {
	case myScore > oppScore:
		prefix = "W"
	case myScore < oppScore:
		prefix = "L"
	}

	return fmt.Sprintf("%s %d-%d", prefix, myScore, oppScore)
}
