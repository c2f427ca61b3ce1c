package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/jaws696969/hockey-ics/internal/domain/schedule"
)

// icsTimestamp is the RFC 5545 compact UTC form.
const icsTimestamp = "20060102T150405Z"

// escaper applies RFC 5545 TEXT escaping. Applied to every free-text value
// before it is placed on a content line.
var escaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\n", `\n`,
)

// BuildInput describes one team's calendar. Games must already be sorted by
// start time; the builder preserves their order.
type BuildInput struct {
	TeamSlug          string
	CalendarName      string
	DescriptionPrefix string
	Games             []schedule.MatchedGame
}

// Builder serializes matched games into RFC 5545 calendar text. The zero
// Builder is not usable; construct with NewBuilder.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// WithClock overrides the DTSTAMP clock, for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build produces the full calendar document. All timestamps are rendered in
// UTC and every line, including the last, is CRLF-terminated as the format
// requires.
func (b *Builder) Build(in BuildInput) string {
	dtstamp := b.now().UTC().Format(icsTimestamp)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	line := func(s string) {
		_, _ = buf.WriteString(s)
		_, _ = buf.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//bond-hockey-ics//EN")
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("X-WR-CALNAME:" + escaper.Replace(in.CalendarName))
	line("X-WR-TIMEZONE:UTC")

	for _, m := range in.Games {
		line("BEGIN:VEVENT")
		line("UID:" + StableUID(in.TeamSlug, m.Game.SourceID))
		line("DTSTAMP:" + dtstamp)
		line("DTSTART:" + m.Game.Start.UTC().Format(icsTimestamp))
		line("DTEND:" + m.Game.End.UTC().Format(icsTimestamp))
		line("SUMMARY:" + escaper.Replace(summary(in.CalendarName, m)))
		if m.Game.Location != "" {
			line("LOCATION:" + escaper.Replace(m.Game.Location))
		}
		line("DESCRIPTION:" + escaper.Replace(description(in.DescriptionPrefix, m)))
		line("END:VEVENT")
	}

	line("END:VCALENDAR")

	return buf.String()
}

func summary(calendarName string, m schedule.MatchedGame) string {
	base := calendarName + " @ " + m.Opponent
	if m.MyIsHome {
		base = calendarName + " vs " + m.Opponent
	}
	if m.Result != "" {
		return base + " (" + m.Result + ")"
	}
	return base
}

// description assembles the informational line shown to calendar users. The
// score is rendered away-first, matching how the league publishes results.
func description(prefix string, m schedule.MatchedGame) string {
	parts := make([]string, 0, 6)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	if m.Game.StageName != "" {
		parts = append(parts, "Stage: "+m.Game.StageName)
	}
	if m.Game.Status != "" {
		parts = append(parts, "Status: "+m.Game.Status)
	}
	parts = append(parts, "Home: "+m.Game.HomeTeam)
	parts = append(parts, "Away: "+m.Game.AwayTeam)
	if m.Game.HomeScore != nil && m.Game.AwayScore != nil {
		parts = append(parts, fmt.Sprintf("Score (Away-Home): %d-%d", *m.Game.AwayScore, *m.Game.HomeScore))
	}
	return strings.Join(parts, " | ")
}
