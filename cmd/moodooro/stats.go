package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	insightdto "moodooro/internal/modules/insight/dto"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	fair    = color.New(color.FgYellow)
	muted   = color.New(color.Faint)
)

func printStats(w io.Writer, s insightdto.WeeklyStats, todayMinutes int) {
	_, _ = heading.Fprintf(w, "Weekly insights  %s – %s\n", s.From.Local().Format("Jan 02"), s.To.Local().Format("Jan 02"))
	if s.Err != "" {
		_, _ = bad.Fprintln(w, s.Err)
	}
	_, _ = fmt.Fprintf(w, "%-11s %d\n", "sessions", s.Sessions)
	_, _ = fmt.Fprintf(w, "%-11s %dm\n", "total", s.TotalMinutes)
	_, _ = fmt.Fprintf(w, "%-11s %dm\n", "average", s.AverageMinutes)
	_, _ = fmt.Fprintf(w, "%-11s %dm\n", "today", todayMinutes)
	_, _ = fmt.Fprintf(w, "%-11s %s\n", "focused", good.Sprint(s.Focused))
	_, _ = fmt.Fprintf(w, "%-11s %s\n", "distracted", bad.Sprint(s.Distracted))

	_, _ = heading.Fprintln(w, "\nDaily mood")
	if len(s.Moods) == 0 {
		_, _ = muted.Fprintln(w, "no moods recorded")
		return
	}
	for _, d := range s.Moods {
		bar := strings.Repeat("#", int(d.Score*20+0.5))
		_, _ = fmt.Fprintf(w, "%s  %-20s  %-10s %s\n",
			d.Day.Local().Format("Mon 02"), scoreColor(d.Score).Sprint(bar), d.Label, muted.Sprintf("(%d)", d.Entries))
	}
}

func scoreColor(score float64) *color.Color {
	switch {
	case score > 0.7:
		return good
	case score >= 0.35:
		return fair
	default:
		return bad
	}
}
