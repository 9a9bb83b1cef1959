package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/alerting"
	"github.com/Hatchie-47/LoLPanion/internal/domain/match"
	"github.com/Hatchie-47/LoLPanion/internal/domain/positioning"
	"github.com/Hatchie-47/LoLPanion/internal/domain/summoner"
	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
)

type TrackerState string

const (
	StateIdle                  TrackerState = "IDLE"
	StateLive                  TrackerState = "LIVE"
	StateEndedAwaitingDetail   TrackerState = "ENDED_AWAITING_DETAIL"
	StateEndedAwaitingTimeline TrackerState = "ENDED_AWAITING_TIMELINE"
	StateComplete              TrackerState = "COMPLETE"
)

type TrackerConfig struct {
	HomeSummonerID string
	RankedQueueIDs []int64
	LiveInterval   time.Duration
	IdleInterval   time.Duration
}

// TrackedMatch is a read-only snapshot of the current match for consumers.
type TrackedMatch struct {
	State     TrackerState
	Match     match.Match
	Positions positioning.Assignment
}

// trackedMatch carries the per-match working state, including the explicit
// per-summoner history cache. Replacing the struct resets everything.
type trackedMatch struct {
	m              match.Match
	positions      positioning.Assignment
	profileDone    map[string]bool
	historyDone    map[string]bool
	histories      map[string][]match.HistoryEntry
	startPersisted bool
	saved          bool
}

func newTrackedMatch(m match.Match) *trackedMatch {
	return &trackedMatch{
		m:           m,
		profileDone: make(map[string]bool, len(m.Participants)),
		historyDone: make(map[string]bool, len(m.Participants)),
		histories:   make(map[string][]match.HistoryEntry, len(m.Participants)),
	}
}

// TrackerService owns the match lifecycle state machine. It is the only
// mutator of the current match; consumers read snapshots and submit commands.
type TrackerService struct {
	provider MatchProvider
	enricher *EnrichmentService
	notifier *Notifier
	logger   *logging.Logger

	liveInterval time.Duration
	idleInterval time.Duration

	// pollMu makes Poll single-flight: an overlapping invocation is
	// skipped, never queued.
	pollMu sync.Mutex

	mu             sync.RWMutex
	homeSummonerID string
	rankedQueues   map[int64]struct{}
	generation     uint64
	state          TrackerState
	current        *trackedMatch
}

func NewTrackerService(
	provider MatchProvider,
	enricher *EnrichmentService,
	notifier *Notifier,
	cfg TrackerConfig,
	logger *logging.Logger,
) *TrackerService {
	if logger == nil {
		logger = logging.Default()
	}
	if notifier == nil {
		notifier = NewNotifier()
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 10 * time.Second
	}
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = 60 * time.Second
	}

	queues := make(map[int64]struct{}, len(cfg.RankedQueueIDs))
	for _, id := range cfg.RankedQueueIDs {
		queues[id] = struct{}{}
	}

	return &TrackerService{
		provider:       provider,
		enricher:       enricher,
		notifier:       notifier,
		logger:         logger,
		liveInterval:   cfg.LiveInterval,
		idleInterval:   cfg.IdleInterval,
		homeSummonerID: cfg.HomeSummonerID,
		rankedQueues:   queues,
		state:          StateIdle,
	}
}

func (t *TrackerService) State() TrackerState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Snapshot returns a copy of the tracked match, or false while idle.
func (t *TrackerService) Snapshot() (TrackedMatch, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.current == nil {
		return TrackedMatch{State: t.state}, false
	}

	m := t.current.m
	m.Participants = append([]match.Participant(nil), t.current.m.Participants...)

	positions := make(positioning.Assignment, len(t.current.positions))
	for slot, idx := range t.current.positions {
		positions[slot] = idx
	}

	return TrackedMatch{State: t.state, Match: m, Positions: positions}, true
}

// SuggestedInterval reports how soon the caller should poll again: short
// while a match is live, longer otherwise.
func (t *TrackerService) SuggestedInterval() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.state == StateLive {
		return t.liveInterval
	}
	return t.idleInterval
}

// HomeSummonerID returns the account currently being tracked.
func (t *TrackerService) HomeSummonerID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.homeSummonerID
}

// SetHomeByRiotID resolves a riot id against the provider, persists the
// resolved summoner and switches tracking to it.
func (t *TrackerService) SetHomeByRiotID(ctx context.Context, gameName, tagLine string) (summoner.Summoner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrackerService.SetHomeByRiotID")
	defer span.End()

	resolved, err := t.provider.ResolveRiotID(ctx, gameName, tagLine)
	if err != nil {
		return summoner.Summoner{}, err
	}
	if resolved.ID == "" {
		return summoner.Summoner{}, fmt.Errorf("%w: no summoner behind riot id %s#%s", ErrNotFound, gameName, tagLine)
	}
	if err := t.enricher.SaveSummoner(ctx, resolved); err != nil {
		return summoner.Summoner{}, err
	}

	t.SetHomeSummoner(resolved.ID)
	t.logger.InfoContext(ctx, "home summoner changed",
		"summoner_id", resolved.ID, "riot_id", gameName+"#"+tagLine)
	return resolved, nil
}

// SetHomeSummoner switches the tracked account. Any in-flight cycle's
// results for the previous match are discarded rather than merged.
func (t *TrackerService) SetHomeSummoner(summonerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if summonerID == t.homeSummonerID {
		return
	}

	t.homeSummonerID = summonerID
	t.generation++
	t.state = StateIdle
	t.current = nil
}

// Poll is the single driver entry point. It returns the suggested delay
// until the next invocation.
func (t *TrackerService) Poll(ctx context.Context) time.Duration {
	if !t.pollMu.TryLock() {
		// A previous cycle is still running; skip, never queue.
		return t.SuggestedInterval()
	}
	defer t.pollMu.Unlock()

	ctx, span := startUsecaseSpan(ctx, "usecase.TrackerService.Poll")
	defer span.End()

	t.mu.RLock()
	gen := t.generation
	home := t.homeSummonerID
	state := t.state
	currentID := ""
	if t.current != nil {
		currentID = t.current.m.ID
	}
	t.mu.RUnlock()

	active, err := t.provider.ActiveMatch(ctx, home)
	switch {
	case err == nil && t.isRanked(active.QueueID):
		if active.ID == currentID {
			if state == StateLive {
				t.refreshLiveMatch(ctx, gen, active)
			} else {
				// Stale spectator data after the match already ended;
				// keep working through the post-game states.
				t.advanceEnded(ctx, gen, state, currentID)
			}
			break
		}
		t.startTracking(ctx, gen, active)

	case err == nil:
		// Non-ranked game: ignored entirely, never evicts the tracked
		// match. Post-game fetches still progress.
		t.advanceEnded(ctx, gen, state, currentID)

	case errors.Is(err, ErrNotFound):
		if state == StateLive {
			t.mu.Lock()
			if t.generation == gen && t.state == StateLive {
				t.state = StateEndedAwaitingDetail
				state = StateEndedAwaitingDetail
			}
			t.mu.Unlock()
		}
		t.advanceEnded(ctx, gen, state, currentID)

	default:
		t.logger.WarnContext(ctx, "active match query failed, retrying next cycle", "error", err)
	}

	return t.SuggestedInterval()
}

func (t *TrackerService) isRanked(queueID int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rankedQueues[queueID]
	return ok
}

// startTracking discards any prior match, enriches the fresh roster and
// announces the new match. All fan-out results are observed before the
// transition becomes visible.
func (t *TrackerService) startTracking(ctx context.Context, gen uint64, active match.Match) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrackerService.startTracking")
	defer span.End()

	tm := newTrackedMatch(active)

	updates := t.enricher.EnrichParticipants(ctx, tm.m.Participants, nil, nil)
	for _, u := range updates {
		t.applyUpdate(tm, u)
	}
	tm.positions = positioning.Assign(tm.m.Participants)

	if err := t.enricher.SaveMatch(ctx, tm.m); err != nil {
		t.logger.WarnContext(ctx, "live match save failed, will retry", "match_id", tm.m.ID, "error", err)
	} else {
		tm.saved = true
		tm.startPersisted = tm.m.StartTime != nil
	}

	t.mu.Lock()
	if t.generation != gen {
		t.mu.Unlock()
		return
	}
	t.current = tm
	t.state = StateLive
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "tracking new match", "match_id", tm.m.ID, "queue_id", tm.m.QueueID)
	t.notifier.Publish(Event{
		Kind:           EventNewMatchFound,
		MatchID:        tm.m.ID,
		ParticipantIDs: tm.m.ParticipantIDs(),
	})
}

// refreshLiveMatch handles a poll that found the same match still running:
// start-time write-through plus retries of whatever enrichment failed on
// earlier cycles.
func (t *TrackerService) refreshLiveMatch(ctx context.Context, gen uint64, active match.Match) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrackerService.refreshLiveMatch")
	defer span.End()

	t.mu.RLock()
	tm := t.current
	if tm == nil || tm.m.ID != active.ID {
		t.mu.RUnlock()
		return
	}
	participants := append([]match.Participant(nil), tm.m.Participants...)
	startAt := tm.m.StartTime
	needStartPersist := !tm.startPersisted
	needSave := !tm.saved
	profileDone := copyFlags(tm.profileDone)
	historyDone := copyFlags(tm.historyDone)
	t.mu.RUnlock()

	if startAt == nil && active.StartTime != nil {
		t.mu.Lock()
		if t.generation == gen && t.current == tm {
			start := *active.StartTime
			tm.m.StartTime = &start
		}
		t.mu.Unlock()
		startAt = active.StartTime
		needStartPersist = true
	}
	if needStartPersist && startAt != nil {
		if err := t.enricher.PersistStartTime(ctx, active.ID, *startAt); err != nil {
			t.logger.WarnContext(ctx, "start time write-through failed, will retry",
				"match_id", active.ID, "error", err)
		} else {
			t.mu.Lock()
			if t.generation == gen && t.current == tm {
				tm.startPersisted = true
			}
			t.mu.Unlock()
		}
	}

	updates := t.enricher.EnrichParticipants(ctx, participants,
		func(p match.Participant) bool { return !profileDone[p.SummonerID] },
		func(p match.Participant) bool { return !historyDone[p.SummonerID] },
	)

	if needSave {
		if err := t.enricher.SaveMatch(ctx, tm.m); err != nil {
			t.logger.WarnContext(ctx, "live match save failed, will retry", "match_id", tm.m.ID, "error", err)
		} else {
			needSave = false
		}
	}

	t.mu.Lock()
	if t.generation != gen || t.current != tm {
		t.mu.Unlock()
		return
	}
	updated := make([]string, 0, len(updates))
	for _, u := range updates {
		if t.applyUpdate(tm, u) {
			updated = append(updated, u.SummonerID)
		}
	}
	if !needSave {
		tm.saved = true
	}
	t.mu.Unlock()

	if len(updated) > 0 {
		t.notifier.Publish(Event{
			Kind:           EventParticipantsUpdated,
			MatchID:        tm.m.ID,
			ParticipantIDs: updated,
		})
	}
}

// advanceEnded drives the post-game states. Detail must succeed before the
// timeline is ever requested; both retry forever on the poll cadence. A
// complete match whose final save failed keeps retrying the save too.
func (t *TrackerService) advanceEnded(ctx context.Context, gen uint64, state TrackerState, matchID string) {
	switch state {
	case StateEndedAwaitingDetail:
		t.fetchEndedDetail(ctx, gen, matchID)
	case StateEndedAwaitingTimeline:
		t.fetchEndedTimeline(ctx, gen, matchID)
	case StateComplete:
		t.retryCompleteSave(ctx, gen, matchID)
	}
}

func (t *TrackerService) fetchEndedDetail(ctx context.Context, gen uint64, matchID string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrackerService.fetchEndedDetail")
	defer span.End()

	detail, err := t.enricher.MatchDetail(ctx, matchID)
	if err != nil {
		// Not-found is the expected path until post-game processing
		// completes upstream.
		if errors.Is(err, ErrNotFound) {
			t.logger.DebugContext(ctx, "match detail not available yet", "match_id", matchID)
		} else {
			t.logger.WarnContext(ctx, "match detail fetch failed", "match_id", matchID, "error", err)
		}
		return
	}

	t.mu.RLock()
	tm := t.current
	if tm == nil || tm.m.ID != matchID {
		t.mu.RUnlock()
		return
	}
	historyDone := copyFlags(tm.historyDone)
	t.mu.RUnlock()

	updates := t.enricher.EnrichParticipants(ctx, detail.Participants,
		nil,
		func(p match.Participant) bool { return !historyDone[p.SummonerID] },
	)

	saved := true
	if err := t.enricher.SaveMatch(ctx, detail); err != nil {
		t.logger.WarnContext(ctx, "finished match save failed, will retry", "match_id", matchID, "error", err)
		saved = false
	}

	t.mu.Lock()
	if t.generation != gen || t.current != tm {
		t.mu.Unlock()
		return
	}
	rosterGrew := t.mergeDetail(tm, detail)
	for _, u := range updates {
		t.applyUpdate(tm, u)
	}
	tm.positions = positioning.Assign(tm.m.Participants)
	tm.saved = saved
	tm.startPersisted = saved
	t.state = StateEndedAwaitingTimeline
	ids := tm.m.ParticipantIDs()
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "match ended, detail recorded", "match_id", matchID)
	if rosterGrew {
		t.notifier.Publish(Event{
			Kind:           EventParticipantsUpdated,
			MatchID:        matchID,
			ParticipantIDs: ids,
			NewParticipant: true,
		})
	}
	t.notifier.Publish(Event{
		Kind:           EventMatchEnded,
		MatchID:        matchID,
		ParticipantIDs: ids,
	})
}

func (t *TrackerService) fetchEndedTimeline(ctx context.Context, gen uint64, matchID string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrackerService.fetchEndedTimeline")
	defer span.End()

	timeline, err := t.enricher.MatchTimeline(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			t.logger.DebugContext(ctx, "timeline not available yet", "match_id", matchID)
		} else {
			t.logger.WarnContext(ctx, "timeline fetch failed", "match_id", matchID, "error", err)
		}
		return
	}

	t.mu.Lock()
	if t.generation != gen || t.current == nil || t.current.m.ID != matchID {
		t.mu.Unlock()
		return
	}
	tm := t.current
	tm.m.Timeline = timeline
	// The attached timeline is not in storage yet; the save below, or a
	// retry on a later poll, flips the flag back.
	tm.saved = false
	m := tm.m
	t.state = StateComplete
	t.mu.Unlock()

	if err := t.enricher.SaveMatch(ctx, m); err != nil {
		t.logger.WarnContext(ctx, "finished match save failed, will retry", "match_id", matchID, "error", err)
	} else {
		t.mu.Lock()
		if t.generation == gen && t.current == tm {
			tm.saved = true
		}
		t.mu.Unlock()
	}

	t.logger.InfoContext(ctx, "match tracking complete", "match_id", matchID)
}

// retryCompleteSave re-runs the final save while the complete match is still
// marked unsaved, so a storage hiccup never loses the timeline.
func (t *TrackerService) retryCompleteSave(ctx context.Context, gen uint64, matchID string) {
	t.mu.RLock()
	tm := t.current
	if tm == nil || tm.m.ID != matchID || tm.saved {
		t.mu.RUnlock()
		return
	}
	m := tm.m
	t.mu.RUnlock()

	ctx, span := startUsecaseSpan(ctx, "usecase.TrackerService.retryCompleteSave")
	defer span.End()

	if err := t.enricher.SaveMatch(ctx, m); err != nil {
		t.logger.WarnContext(ctx, "finished match save failed, will retry", "match_id", matchID, "error", err)
		return
	}
	t.mu.Lock()
	if t.generation == gen && t.current == tm {
		tm.saved = true
	}
	t.mu.Unlock()
}

// mergeDetail replaces the roster with the authoritative post-game records,
// carrying over what enrichment already produced. Reports whether the
// participant set grew.
func (t *TrackerService) mergeDetail(tm *trackedMatch, detail match.Match) bool {
	known := make(map[string]match.Participant, len(tm.m.Participants))
	for _, p := range tm.m.Participants {
		known[p.SummonerID] = p
	}

	grew := false
	for i := range detail.Participants {
		p := &detail.Participants[i]
		prior, ok := known[p.SummonerID]
		if !ok {
			grew = true
			continue
		}
		p.Tags = prior.Tags
		p.MasteryPoints = prior.MasteryPoints
		p.HasHistory = prior.HasHistory
		p.Alerts = prior.Alerts
	}

	if tm.m.Timeline != nil {
		detail.Timeline = tm.m.Timeline
	}
	tm.m = detail
	return grew
}

// applyUpdate folds one participant's enrichment result into the tracked
// match and rederives alerts. Must run with t.mu held.
func (t *TrackerService) applyUpdate(tm *trackedMatch, u ParticipantUpdate) bool {
	p := tm.m.ParticipantBySummoner(u.SummonerID)
	if p == nil {
		return false
	}

	changed := false
	if u.ProfileOK && !tm.profileDone[u.SummonerID] {
		tm.profileDone[u.SummonerID] = true
		p.Tags = u.Tags
		if u.Mastery != nil {
			p.MasteryPoints = u.Mastery
		}
		if u.Profile != nil && p.Name == "" {
			p.Name = u.Profile.Name
		}
		changed = true
	}
	if u.HistoryOK && !tm.historyDone[u.SummonerID] {
		tm.historyDone[u.SummonerID] = true
		tm.histories[u.SummonerID] = u.History
		p.HasHistory = len(u.History) > 0
		changed = true
	}

	if changed {
		p.Alerts = alerting.Derive(p.Tags, match.Results(tm.histories[u.SummonerID]))
	}
	return changed
}

// UpdateParticipantTags replaces one participant's tag list and rederives
// only that participant's alerts. Used by the tag-add command path.
func (t *TrackerService) UpdateParticipantTags(summonerID string, tags []tag.Tag) bool {
	t.mu.Lock()
	tm := t.current
	if tm == nil {
		t.mu.Unlock()
		return false
	}
	p := tm.m.ParticipantBySummoner(summonerID)
	if p == nil {
		t.mu.Unlock()
		return false
	}
	p.Tags = tags
	p.Alerts = alerting.Derive(tags, match.Results(tm.histories[summonerID]))
	matchID := tm.m.ID
	t.mu.Unlock()

	t.notifier.Publish(Event{
		Kind:           EventParticipantsUpdated,
		MatchID:        matchID,
		ParticipantIDs: []string{summonerID},
	})
	return true
}

func copyFlags(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
