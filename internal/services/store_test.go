package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"date-night-planner/internal/models"
)

// memoryStore is an in-process CollectionStore for tests
type memoryStore struct {
	collections map[string][]byte
	writeErr    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{collections: make(map[string][]byte)}
}

func (m *memoryStore) GetCollection(_ context.Context, key string) ([]byte, error) {
	data, exists := m.collections[key]
	if !exists {
		return nil, ErrCollectionNotFound
	}
	return data, nil
}

func (m *memoryStore) PutCollection(_ context.Context, key string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.collections[key] = data
	return nil
}

func testItinerary(title string) models.DateItinerary {
	return models.DateItinerary{
		Title: title,
		Activities: []models.Activity{
			{Title: "Dinner", Time: "7:00 PM", Location: "Downtown", Cost: "$50"},
		},
		TotalCost: "$50",
	}
}

func TestPlannerStore_SaveAssignsIDAndSavedAt(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	saved, err := store.SaveDate(ctx, testItinerary("First Date"))
	if err != nil {
		t.Fatalf("Expected save to succeed, got error: %v", err)
	}

	if saved.ID == "" {
		t.Error("Expected an assigned id")
	}
	if saved.SavedAt == nil {
		t.Error("Expected an assigned savedAt timestamp")
	}

	dates := store.ListSavedDates(ctx)
	if len(dates) != 1 {
		t.Fatalf("Expected 1 saved date, got %d", len(dates))
	}
	if dates[0].ID != saved.ID {
		t.Errorf("Expected listed id %s, got %s", saved.ID, dates[0].ID)
	}
}

func TestPlannerStore_SavePreservesExistingSavedAt(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	saved, err := store.SaveDate(ctx, testItinerary("First Date"))
	if err != nil {
		t.Fatalf("Expected save to succeed, got error: %v", err)
	}

	originalSavedAt := *saved.SavedAt

	saved.Title = "Renamed Date"
	resaved, err := store.SaveDate(ctx, saved)
	if err != nil {
		t.Fatalf("Expected resave to succeed, got error: %v", err)
	}

	if !resaved.SavedAt.Equal(originalSavedAt) {
		t.Errorf("Expected savedAt to stay %v, got %v", originalSavedAt, resaved.SavedAt)
	}
}

func TestPlannerStore_UpsertIsIdempotentAndKeepsPosition(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	first, _ := store.SaveDate(ctx, testItinerary("First"))
	second, _ := store.SaveDate(ctx, testItinerary("Second"))

	// Newest-first ordering: second sits in front of first
	dates := store.ListSavedDates(ctx)
	if dates[0].ID != second.ID || dates[1].ID != first.ID {
		t.Fatal("Expected newest-first ordering after inserts")
	}

	// Re-saving the older record updates it in place
	first.Title = "First (edited)"
	if _, err := store.SaveDate(ctx, first); err != nil {
		t.Fatalf("Expected upsert to succeed, got error: %v", err)
	}

	dates = store.ListSavedDates(ctx)
	if len(dates) != 2 {
		t.Fatalf("Expected list length unchanged at 2, got %d", len(dates))
	}
	if dates[1].ID != first.ID || dates[1].Title != "First (edited)" {
		t.Errorf("Expected edited record to keep position 1, got %s at %q", dates[1].ID, dates[1].Title)
	}
}

func TestPlannerStore_SaveWithUnknownIDInsertsAtFront(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	store.SaveDate(ctx, testItinerary("Existing"))

	imported := testItinerary("Imported")
	imported.ID = "imported-id"

	if _, err := store.SaveDate(ctx, imported); err != nil {
		t.Fatalf("Expected save to succeed, got error: %v", err)
	}

	dates := store.ListSavedDates(ctx)
	if len(dates) != 2 {
		t.Fatalf("Expected 2 saved dates, got %d", len(dates))
	}
	if dates[0].ID != "imported-id" {
		t.Errorf("Expected unmatched id at the front, got %s", dates[0].ID)
	}
}

func TestPlannerStore_WriteErrorPropagates(t *testing.T) {
	backend := newMemoryStore()
	backend.writeErr = errors.New("bucket unavailable")
	store := NewPlannerStore(backend)

	if _, err := store.SaveDate(context.Background(), testItinerary("Doomed")); err == nil {
		t.Error("Expected save to surface the write error")
	}
}

func TestPlannerStore_CorruptedCollectionsReadAsEmpty(t *testing.T) {
	backend := newMemoryStore()
	backend.collections[SavedDatesKey] = []byte("{not valid json")
	backend.collections[SearchHistoryKey] = []byte("also broken")

	store := NewPlannerStore(backend)
	ctx := context.Background()

	if dates := store.ListSavedDates(ctx); len(dates) != 0 {
		t.Errorf("Expected empty saved dates from corrupted store, got %d", len(dates))
	}
	if searches := store.ListSearchHistory(ctx); len(searches) != 0 {
		t.Errorf("Expected empty search history from corrupted store, got %d", len(searches))
	}
}

func TestPlannerStore_HistoryEviction(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	for i := 0; i < models.MaxHistoryItems+1; i++ {
		location := fmt.Sprintf("City %d", i)
		if err := store.RecordSearch(ctx, location, "2026-09-05", "evening", "", ""); err != nil {
			t.Fatalf("Expected record to succeed, got error: %v", err)
		}
	}

	searches := store.ListSearchHistory(ctx)
	if len(searches) != models.MaxHistoryItems {
		t.Fatalf("Expected %d entries after eviction, got %d", models.MaxHistoryItems, len(searches))
	}

	// Newest first; the very first entry has been evicted from the tail
	if searches[0].Location != fmt.Sprintf("City %d", models.MaxHistoryItems) {
		t.Errorf("Expected newest entry first, got %q", searches[0].Location)
	}
	for _, entry := range searches {
		if entry.Location == "City 0" {
			t.Error("Expected oldest entry to be evicted")
		}
	}
}

func TestPlannerStore_DeleteClearsHistoryReferences(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	saved, err := store.SaveDate(ctx, testItinerary("Anniversary"))
	if err != nil {
		t.Fatalf("Expected save to succeed, got error: %v", err)
	}

	store.RecordSearch(ctx, "Seattle", "2026-09-05", "evening", saved.ID, saved.Title)
	store.RecordSearch(ctx, "Portland", "2026-09-12", "morning", saved.ID, saved.Title)
	store.RecordSearch(ctx, "Boise", "2026-09-19", "afternoon", "other-id", "Other Plan")

	if err := store.DeleteSavedDate(ctx, saved.ID); err != nil {
		t.Fatalf("Expected delete to succeed, got error: %v", err)
	}

	if dates := store.ListSavedDates(ctx); len(dates) != 0 {
		t.Errorf("Expected no saved dates after delete, got %d", len(dates))
	}

	searches := store.ListSearchHistory(ctx)
	if len(searches) != 3 {
		t.Fatalf("Expected all 3 history entries to survive, got %d", len(searches))
	}

	for _, entry := range searches {
		switch entry.Location {
		case "Seattle", "Portland":
			if entry.DateItineraryID != "" || entry.DateTitle != "" {
				t.Errorf("Expected cleared references for %s, got id=%q title=%q",
					entry.Location, entry.DateItineraryID, entry.DateTitle)
			}
			if entry.Date == "" || entry.TimeOfDay == "" {
				t.Errorf("Expected %s entry to keep its own fields", entry.Location)
			}
		case "Boise":
			if entry.DateItineraryID != "other-id" || entry.DateTitle != "Other Plan" {
				t.Error("Expected unrelated entry to be untouched")
			}
		}
	}
}

func TestPlannerStore_DeleteAndClearHistory(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	store.RecordSearch(ctx, "Seattle", "2026-09-05", "evening", "", "")
	store.RecordSearch(ctx, "Portland", "2026-09-12", "morning", "", "")

	searches := store.ListSearchHistory(ctx)
	if len(searches) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(searches))
	}

	if err := store.DeleteSearchHistoryItem(ctx, searches[0].ID); err != nil {
		t.Fatalf("Expected delete to succeed, got error: %v", err)
	}
	if remaining := store.ListSearchHistory(ctx); len(remaining) != 1 || remaining[0].Location != "Seattle" {
		t.Error("Expected only the Seattle entry to remain")
	}

	if err := store.ClearSearchHistory(ctx); err != nil {
		t.Fatalf("Expected clear to succeed, got error: %v", err)
	}
	if remaining := store.ListSearchHistory(ctx); len(remaining) != 0 {
		t.Errorf("Expected empty history after clear, got %d", len(remaining))
	}
}

func TestPlannerStore_GetSavedDate(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	saved, _ := store.SaveDate(ctx, testItinerary("Anniversary"))

	found, exists := store.GetSavedDate(ctx, saved.ID)
	if !exists {
		t.Fatal("Expected to find saved date by id")
	}
	if found.Title != "Anniversary" {
		t.Errorf("Expected title 'Anniversary', got %q", found.Title)
	}

	if _, exists := store.GetSavedDate(ctx, "missing"); exists {
		t.Error("Expected lookup of unknown id to fail")
	}
}

func TestPlannerStore_HistoryTimestamps(t *testing.T) {
	store := NewPlannerStore(newMemoryStore())
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	store.RecordSearch(ctx, "Seattle", "2026-09-05", "evening", "", "")

	searches := store.ListSearchHistory(ctx)
	if len(searches) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(searches))
	}

	if searches[0].ID == "" {
		t.Error("Expected an assigned entry id")
	}
	if searches[0].SearchedAt.Before(before) {
		t.Errorf("Expected searchedAt to be set at record time, got %v", searches[0].SearchedAt)
	}
}
