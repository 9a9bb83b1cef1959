package tag

import (
	"strings"
	"time"
)

type Kind string

const (
	KindInter          Kind = "INTER"
	KindFlamer         Kind = "FLAMER"
	KindTilter         Kind = "TILTER"
	KindUnderperformer Kind = "UNDERPERFORMER"
	KindOverperformer  Kind = "OVERPERFORMER"
	KindOnetrick       Kind = "ONETRICK"
)

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Tag is a durable annotation on a summoner, kept across matches.
type Tag struct {
	ID         int64
	SummonerID string
	Kind       Kind
	Severity   Severity
	Note       string
	CreatedAt  time.Time
}

func ParseKind(v string) (Kind, bool) {
	switch Kind(strings.ToUpper(strings.TrimSpace(v))) {
	case KindInter:
		return KindInter, true
	case KindFlamer:
		return KindFlamer, true
	case KindTilter:
		return KindTilter, true
	case KindUnderperformer:
		return KindUnderperformer, true
	case KindOverperformer:
		return KindOverperformer, true
	case KindOnetrick:
		return KindOnetrick, true
	default:
		return "", false
	}
}

func ParseSeverity(v string) (Severity, bool) {
	switch Severity(strings.ToUpper(strings.TrimSpace(v))) {
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityLow:
		return SeverityLow, true
	default:
		return "", false
	}
}
