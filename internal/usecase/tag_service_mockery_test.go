package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Hatchie-47/LoLPanion/internal/domain/tag"
	tagmock "github.com/Hatchie-47/LoLPanion/internal/mocks/domain/tag"
	"github.com/Hatchie-47/LoLPanion/internal/platform/logging"
)

func TestTagService_Add_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	tagRepo := tagmock.NewRepository(t)
	service := NewTagService(tagRepo, nil, logging.NewNop())

	now := time.Date(2026, 5, 20, 21, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	tagRepo.
		On("Insert", mock.Anything, tag.Tag{
			SummonerID: "sum-1",
			Kind:       tag.KindFlamer,
			Severity:   tag.SeverityMedium,
			Note:       "keyboard warrior",
			CreatedAt:  now,
		}).
		Return(int64(7), nil).
		Once()

	created, err := service.Add(context.Background(), "sum-1", "flamer", "medium", "  keyboard warrior  ")
	if err != nil {
		t.Fatalf("add tag: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("expected the repository id on the returned tag, got %d", created.ID)
	}
	if created.Kind != tag.KindFlamer || created.Severity != tag.SeverityMedium {
		t.Fatalf("expected normalized kind and severity, got %+v", created)
	}
}

func TestTagService_Add_UnknownKindUsingMockery(t *testing.T) {
	t.Parallel()

	tagRepo := tagmock.NewRepository(t)
	service := NewTagService(tagRepo, nil, logging.NewNop())

	_, err := service.Add(context.Background(), "sum-1", "GRIEFER", "HIGH", "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTagService_Add_InsertFailureUsingMockery(t *testing.T) {
	t.Parallel()

	tagRepo := tagmock.NewRepository(t)
	service := NewTagService(tagRepo, nil, logging.NewNop())

	tagRepo.
		On("Insert", mock.Anything, mock.AnythingOfType("tag.Tag")).
		Return(int64(0), errors.New("connection reset")).
		Once()

	_, err := service.Add(context.Background(), "sum-1", "INTER", "HIGH", "note")
	if err == nil {
		t.Fatal("expected the insert failure surfaced")
	}
}

func TestTagService_ListBySummoner_UsingMockery(t *testing.T) {
	t.Parallel()

	tagRepo := tagmock.NewRepository(t)
	service := NewTagService(tagRepo, nil, logging.NewNop())

	expected := []tag.Tag{
		{ID: 1, SummonerID: "sum-1", Kind: tag.KindTilter, Severity: tag.SeverityLow},
	}
	tagRepo.
		On("ListBySummoner", mock.Anything, "sum-1").
		Return(expected, nil).
		Once()

	got, err := service.ListBySummoner(context.Background(), "sum-1")
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(got) != 1 || got[0].ID != expected[0].ID {
		t.Fatalf("unexpected tags: %+v", got)
	}

	if _, err := service.ListBySummoner(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a blank id, got %v", err)
	}
}
