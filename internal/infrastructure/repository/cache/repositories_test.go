package cache

import (
	"testing"
	"time"

	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	"github.com/Hatchie-47/LoLPanion/internal/infrastructure/repository/memory"
	basecache "github.com/Hatchie-47/LoLPanion/internal/platform/cache"
)

func TestTagRepository_InsertInvalidatesList(t *testing.T) {
	repo := NewTagRepository(memory.NewTagRepository(), basecache.NewStore(time.Minute))

	tags, err := repo.ListBySummoner(t.Context(), "sum-1")
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %d", len(tags))
	}

	if _, err := repo.Insert(t.Context(), tag.Tag{SummonerID: "sum-1", Kind: tag.KindInter, Severity: tag.SeverityHigh}); err != nil {
		t.Fatalf("insert tag: %v", err)
	}

	tags, err = repo.ListBySummoner(t.Context(), "sum-1")
	if err != nil {
		t.Fatalf("list tags after insert: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected the cached empty list invalidated, got %d tags", len(tags))
	}
}
