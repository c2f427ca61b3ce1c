package bondsports

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/jaws696969/hockey-ics/internal/domain/schedule"
	"github.com/jaws696969/hockey-ics/internal/usecase"
)

// ParseGameScores converts a decoded game-scores payload into validated
// GameRecords. The endpoint contract is a JSON array; anything else is a
// payload error. Individual malformed elements degrade instead of failing:
// non-objects, elements with no usable identifier, and elements with no
// start time are dropped, and broken end times are repaired to the default
// slot length.
//
// A payload element looks like:
//
//	{
//	  "gameId": 1040,
//	  "eventId": 4416839,
//	  "homeTeam": {"id": 1254, "name": "...", "score": 6},
//	  "awayTeam": {"id": 1258, "name": "...", "score": 3},
//	  "status": "final",
//	  "startDateTime": "2026-01-20T01:30:00.000Z",
//	  "endDateTime": "2026-01-20T02:50:00.000Z",
//	  "space": {"name": "West Rink"},
//	  "stageName": "Regular Season"
//	}
func ParseGameScores(payload any) ([]schedule.GameRecord, error) {
	items, ok := payload.([]any)
	if !ok {
		return nil, crerr.Wrapf(usecase.ErrBadPayload, "game-scores endpoint returned %T, expected array", payload)
	}

	games := make([]schedule.GameRecord, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		sourceID := sourceIdentifier(item)
		if sourceID == "" {
			continue
		}

		start, ok := parseUpstreamTime(getString(item, "startDateTime"))
		if !ok {
			continue
		}

		end, ok := parseUpstreamTime(getString(item, "endDateTime"))
		if !ok || !end.After(start) {
			end = start.Add(schedule.DefaultGameDuration)
		}

		home := objectField(item, "homeTeam")
		away := objectField(item, "awayTeam")
		space := objectField(item, "space")

		games = append(games, schedule.GameRecord{
			SourceID:   sourceID,
			Start:      start,
			End:        end,
			HomeTeam:   getString(home, "name"),
			AwayTeam:   getString(away, "name"),
			HomeTeamID: safeInt(home["id"]),
			AwayTeamID: safeInt(away["id"]),
			HomeScore:  safeInt(home["score"]),
			AwayScore:  safeInt(away["score"]),
			Status:     getString(item, "status"),
			Location:   getString(space, "name"),
			StageName:  getString(item, "stageName"),
		})
	}

	return games, nil
}

// sourceIdentifier prefers gameId, falls back to eventId, and yields empty
// when neither is usable so the caller can drop the element.
func sourceIdentifier(item map[string]any) string {
	if id := safeInt(item["gameId"]); id != nil {
		return strconv.Itoa(*id)
	}
	if id := safeInt(item["eventId"]); id != nil {
		return strconv.Itoa(*id)
	}
	return ""
}

// parseUpstreamTime accepts ISO-8601 timestamps with a literal "Z" suffix or
// an explicit numeric offset, with or without fractional seconds.
func parseUpstreamTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func objectField(src map[string]any, key string) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	obj, ok := src[key].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return obj
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return ""
	}
	switch typed := raw.(type) {
	case string:
		return typed
	case float64:
		if typed == math.Trunc(typed) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return fmt.Sprintf("%v", typed)
	default:
		return ""
	}
}

// safeInt coerces JSON integers and digits-only strings to *int. Fractional
// numbers, non-digit strings, and nulls yield absent rather than an error.
func safeInt(raw any) *int {
	switch typed := raw.(type) {
	case float64:
		if typed != math.Trunc(typed) {
			return nil
		}
		v := int(typed)
		return &v
	case int:
		v := typed
		return &v
	case int64:
		v := int(typed)
		return &v
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil
		}
		for _, r := range trimmed {
			if r < '0' || r > '9' {
				return nil
			}
		}
		v, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}
