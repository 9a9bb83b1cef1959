package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
)

// TagService handles the tag-add command path: persist the tag, then ask the
// tracker for a scoped alert re-derivation of that one participant.
type TagService struct {
	tagRepo tag.Repository
	tracker *TrackerService
	logger  *logging.Logger
	now     func() time.Time
}

func NewTagService(tagRepo tag.Repository, tracker *TrackerService, logger *logging.Logger) *TagService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TagService{
		tagRepo: tagRepo,
		tracker: tracker,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *TagService) ListBySummoner(ctx context.Context, summonerID string) ([]tag.Tag, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TagService.ListBySummoner")
	defer span.End()

	summonerID = strings.TrimSpace(summonerID)
	if summonerID == "" {
		return nil, fmt.Errorf("%w: summoner id is required", ErrInvalidInput)
	}

	tags, err := s.tagRepo.ListBySummoner(ctx, summonerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

func (s *TagService) Add(ctx context.Context, summonerID, kind, severity, note string) (tag.Tag, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TagService.Add")
	defer span.End()

	summonerID = strings.TrimSpace(summonerID)
	if summonerID == "" {
		return tag.Tag{}, fmt.Errorf("%w: summoner id is required", ErrInvalidInput)
	}
	parsedKind, ok := tag.ParseKind(kind)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: unknown tag kind %q", ErrInvalidInput, kind)
	}
	parsedSeverity, ok := tag.ParseSeverity(severity)
	if !ok {
		return tag.Tag{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, severity)
	}

	record := tag.Tag{
		SummonerID: summonerID,
		Kind:       parsedKind,
		Severity:   parsedSeverity,
		Note:       strings.TrimSpace(note),
		CreatedAt:  s.now().UTC(),
	}

	id, err := s.tagRepo.Insert(ctx, record)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	record.ID = id

	if s.tracker != nil {
		tags, err := s.tagRepo.ListBySummoner(ctx, summonerID)
		if err != nil {
			s.logger.WarnContext(ctx, "tag reload after insert failed", "summoner_id", summonerID, "error", err)
		} else if !s.tracker.UpdateParticipantTags(summonerID, tags) {
			s.logger.DebugContext(ctx, "tagged summoner not in current match", "summoner_id", summonerID)
		}
	}

	return record, nil
}
