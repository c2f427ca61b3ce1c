package schedule

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func record(id string, start time.Time, home, away string) GameRecord {
	return GameRecord{
		SourceID: id,
		Start:    start,
		End:      start.Add(DefaultGameDuration),
		HomeTeam: home,
		AwayTeam: away,
	}
}

func TestMatchTeam_ByID_IgnoresNames(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 20, 1, 30, 0, 0, time.UTC)

	g := record("1", base, "Not Our Name", "Someone Else")
	g.HomeTeamID = intPtr(1254)
	g.AwayTeamID = intPtr(1258)

	decoy := record("2", base, "Alligator Skinners", "Someone Else")
	decoy.HomeTeamID = intPtr(9999)
	decoy.AwayTeamID = intPtr(9998)

	matched := MatchTeam([]GameRecord{g, decoy}, TeamIdentity{
		Name:  "Alligator Skinners",
		IDs:   []int{1254},
		Names: []string{"Alligator Skinners"},
	})

	if len(matched) != 1 {
		t.Fatalf("expected one match, got=%d", len(matched))
	}
	if matched[0].Game.SourceID != "1" {
		t.Fatalf("matched wrong record: %s", matched[0].Game.SourceID)
	}
	if !matched[0].MyIsHome {
		t.Fatalf("expected home side to match")
	}
	if matched[0].Opponent != "Someone Else" {
		t.Fatalf("unexpected opponent: %q", matched[0].Opponent)
	}
}

func TestMatchTeam_ByName_Normalized(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 20, 1, 30, 0, 0, time.UTC)
	g := record("1", base, "Ice Dogs", "  ALLIGATOR   skinners ")

	matched := MatchTeam([]GameRecord{g}, TeamIdentity{
		Name:  "Fallback",
		Names: []string{"Alligator Skinners"},
	})

	if len(matched) != 1 {
		t.Fatalf("expected one match, got=%d", len(matched))
	}
	if matched[0].MyIsHome {
		t.Fatalf("expected away side to match")
	}
	if matched[0].Opponent != "Ice Dogs" {
		t.Fatalf("unexpected opponent: %q", matched[0].Opponent)
	}
}

func TestMatchTeam_NameFallsBackToDisplayName(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 20, 1, 30, 0, 0, time.UTC)
	g := record("1", base, "Alligator Skinners", "Ice Dogs")

	matched := MatchTeam([]GameRecord{g}, TeamIdentity{Name: "alligator skinners"})
	if len(matched) != 1 {
		t.Fatalf("expected display-name fallback to match, got=%d", len(matched))
	}
}

func TestMatchTeam_BothSidesMatch_HomePrecedence(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 20, 1, 30, 0, 0, time.UTC)
	g := record("1", base, "Alligator Skinners", "Alligator Skinners B")
	g.HomeTeamID = intPtr(1254)
	g.AwayTeamID = intPtr(1255)

	matched := MatchTeam([]GameRecord{g}, TeamIdentity{Name: "x", IDs: []int{1254, 1255}})
	if len(matched) != 1 {
		t.Fatalf("expected one match, got=%d", len(matched))
	}
	if !matched[0].MyIsHome {
		t.Fatalf("home side must win when both sides match")
	}
	if matched[0].Opponent != "Alligator Skinners B" {
		t.Fatalf("opponent must be the away name, got=%q", matched[0].Opponent)
	}
}

func TestMatchTeam_SortedAscendingByStart(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 20, 1, 30, 0, 0, time.UTC)
	inputs := [][]GameRecord{
		{ // already sorted
			record("a", base, "Us", "X"),
			record("b", base.Add(time.Hour), "Us", "Y"),
			record("c", base.Add(2*time.Hour), "Us", "Z"),
		},
		{ // reverse sorted
			record("c", base.Add(2*time.Hour), "Us", "Z"),
			record("b", base.Add(time.Hour), "Us", "Y"),
			record("a", base, "Us", "X"),
		},
		{ // shuffled
			record("b", base.Add(time.Hour), "Us", "Y"),
			record("a", base, "Us", "X"),
			record("c", base.Add(2*time.Hour), "Us", "Z"),
		},
	}

	for _, records := range inputs {
		matched := MatchTeam(records, TeamIdentity{Name: "Us"})
		if len(matched) != 3 {
			t.Fatalf("expected 3 matches, got=%d", len(matched))
		}
		for i := 1; i < len(matched); i++ {
			if matched[i].Game.Start.Before(matched[i-1].Game.Start) {
				t.Fatalf("output not sorted ascending at index %d", i)
			}
		}
	}
}

func TestResultString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		myIsHome bool
		home     *int
		away     *int
		want     string
	}{
		{name: "home win", myIsHome: true, home: intPtr(6), away: intPtr(3), want: "W 6-3"},
		{name: "away loss", myIsHome: false, home: intPtr(6), away: intPtr(3), want: "L 3-6"},
		{name: "tie as home", myIsHome: true, home: intPtr(2), away: intPtr(2), want: "T 2-2"},
		{name: "tie as away", myIsHome: false, home: intPtr(2), away: intPtr(2), want: "T 2-2"},
		{name: "missing home score", myIsHome: true, home: nil, away: intPtr(3), want: ""},
		{name: "missing away score", myIsHome: false, home: intPtr(6), away: nil, want: ""},
	}

	for _, tc := range tests {
		if got := resultString(tc.myIsHome, tc.home, tc.away); got != tc.want {
			t.Fatalf("%s: got=%q want=%q", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	if got := NormalizeName("  Alligator \t Skinners  "); got != "alligator skinners" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if NormalizeName("A B") != NormalizeName("a    b") {
		t.Fatalf("whitespace runs must collapse")
	}
}
