package alerting

import (
	"fmt"
	"math"
	"sort"

	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
)

// Colors are hints for the consumer, not render instructions.
const (
	ColorGood    = "green"
	ColorBad     = "red"
	ColorWarning = "red"
)

// Priorities sort ascending for display. History-derived alerts come first,
// tag-derived ones occupy the 10-12 band by severity.
const (
	PriorityWinRate = 1
	PriorityStreak  = 2

	priorityTagLow    = 10
	priorityTagMedium = 11
	priorityTagHigh   = 12
)

const (
	winRateFavorable   = 0.55
	winRateUnfavorable = 0.45
	minStreakLength    = 3
)

const tagTimestampLayout = "2006-01-02 15:04"

// Alert is ephemeral and recomputed on every enrichment pass.
type Alert struct {
	Label    string
	Detail   string
	Priority int
	Color    string
}

// Derive builds the display-ready alert list for one participant from their
// durable tags and the resolved outcomes of their recent ranked games,
// most recent first.
func Derive(tags []tag.Tag, results []bool) []Alert {
	alerts := FromHistory(results)
	alerts = append(alerts, FromTags(tags)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Priority < alerts[j].Priority
	})

	return alerts
}

// FromTags emits one alert per tag. The label is the first three characters
// of the tag kind, which is unique across the known kinds.
func FromTags(tags []tag.Tag) []Alert {
	out := make([]Alert, 0, len(tags))
	for _, t := range tags {
		out = append(out, Alert{
			Label:    tagLabel(t.Kind),
			Detail:   fmt.Sprintf("%s: %s", t.CreatedAt.Format(tagTimestampLayout), t.Note),
			Priority: severityPriority(t.Severity),
			Color:    ColorWarning,
		})
	}

	return out
}

// FromHistory derives the win-rate and streak alerts from resolved outcomes,
// most recent first. Unresolved games must already be filtered out; an empty
// slice produces no alerts.
func FromHistory(results []bool) []Alert {
	if len(results) == 0 {
		return nil
	}

	out := make([]Alert, 0, 2)

	wins := 0
	for _, won := range results {
		if won {
			wins++
		}
	}
	ratio := float64(wins) / float64(len(results))

	switch {
	case ratio > winRateFavorable:
		out = append(out, winRateAlert(ratio, len(results), ColorGood))
	case ratio < winRateUnfavorable:
		out = append(out, winRateAlert(ratio, len(results), ColorBad))
	}

	streak := 1
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			break
		}
		streak++
	}
	if streak >= minStreakLength {
		kind := "losses"
		color := ColorBad
		if results[0] {
			kind = "wins"
			color = ColorGood
		}
		out = append(out, Alert{
			Label:    "STR",
			Detail:   fmt.Sprintf("%d ranked games streak of %s", streak, kind),
			Priority: PriorityStreak,
			Color:    color,
		})
	}

	return out
}

func winRateAlert(ratio float64, games int, color string) Alert {
	return Alert{
		Label:    "WR",
		Detail:   fmt.Sprintf("%d%% WR from last %d ranked games", int(math.Round(ratio*100)), games),
		Priority: PriorityWinRate,
		Color:    color,
	}
}

func tagLabel(kind tag.Kind) string {
	if len(kind) < 3 {
		return string(kind)
	}
	return string(kind)[:3]
}

func severityPriority(s tag.Severity) int {
	switch s {
	case tag.SeverityHigh:
		return priorityTagHigh
	case tag.SeverityMedium:
		return priorityTagMedium
	default:
		return priorityTagLow
	}
}
