package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/myaicademy/curriculum-ops/internal/types"
)

func TestFetchAllSimulated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	watcher := h.watcher()

	updates, err := watcher.FetchAll(ctx, true)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(updates) != 5 {
		t.Fatalf("new updates = %d, want 5", len(updates))
	}
	for _, u := range updates {
		if u.ID == uuid.Nil {
			t.Error("update stored without id")
		}
		if u.SourceURL == "" {
			t.Error("update stored without source url")
		}
		if u.FetchedAt.IsZero() {
			t.Error("update stored without fetched_at")
		}
		if u.Processed {
			t.Errorf("update %q stored as processed", u.Title)
		}
	}

	// Refetching the same feed yields nothing new.
	again, err := watcher.FetchAll(ctx, true)
	if err != nil {
		t.Fatalf("second FetchAll: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second fetch new updates = %d, want 0", len(again))
	}

	unprocessed, err := watcher.Unprocessed(ctx)
	if err != nil {
		t.Fatalf("Unprocessed: %v", err)
	}
	if len(unprocessed) != 5 {
		t.Errorf("unprocessed = %d, want 5", len(unprocessed))
	}
}

func TestIngestRequiresSourceURL(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.watcher().Ingest(context.Background(), &types.Update{Provider: "Claude", Title: "no url"})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestIngestLinksProvider(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	provider := &types.Provider{ID: uuid.New(), Name: "Claude", Category: "llm"}
	if _, err := h.providers.Create(ctx, nil, provider); err != nil {
		t.Fatalf("seed provider: %v", err)
	}

	stored, created, err := h.watcher().Ingest(ctx, &types.Update{
		Provider:  "Claude",
		Title:     "Claude update",
		SourceURL: "https://example.com/watch-link",
		FetchedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !created {
		t.Fatal("expected new row")
	}
	if stored.ProviderID == nil || *stored.ProviderID != provider.ID {
		t.Errorf("provider_id = %v, want %s", stored.ProviderID, provider.ID)
	}
}

func TestIngestUnknownProviderKeepsNilLink(t *testing.T) {
	h := newHarness(t)

	stored, created, err := h.watcher().Ingest(context.Background(), &types.Update{
		Provider:  "BrandNewTool",
		Title:     "launch",
		SourceURL: "https://example.com/watch-unknown",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !created {
		t.Fatal("expected new row")
	}
	if stored.ProviderID != nil {
		t.Errorf("provider_id = %v, want nil for unknown provider", stored.ProviderID)
	}
}
