package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"date-night-planner/internal/models"
)

// ErrCollectionNotFound is returned by CollectionStore implementations when a
// collection has never been written. The planner store treats it the same as
// a corrupted collection: the caller sees an empty list.
var ErrCollectionNotFound = errors.New("collection not found")

// CollectionStore is the key-value backend under the planner store. Each
// collection is one serialized JSON document under one key; writes always
// replace the whole document.
type CollectionStore interface {
	GetCollection(ctx context.Context, key string) ([]byte, error)
	PutCollection(ctx context.Context, key string, data []byte) error
}

// Collection keys in the backing store
const (
	SavedDatesKey    = "saved_dates.json"
	SearchHistoryKey = "search_history.json"
)

// CollectionSchemaVersion is written into every persisted document so a
// future format change can be detected instead of silently misread
const CollectionSchemaVersion = "1.0.0"

// savedDatesDocument is the persisted envelope for the saved itineraries
// collection
type savedDatesDocument struct {
	Version   string                 `json:"version"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Dates     []models.DateItinerary `json:"dates"`
}

// searchHistoryDocument is the persisted envelope for the search history
// collection
type searchHistoryDocument struct {
	Version   string                      `json:"version"`
	UpdatedAt time.Time                   `json:"updatedAt"`
	Searches  []models.SearchHistoryEntry `json:"searches"`
}

// PlannerStore owns the two planner collections: saved date itineraries and
// the bounded search history. Every mutation is one whole-collection
// read-modify-write; callers are expected to serialize mutations per
// collection (single-writer discipline).
type PlannerStore struct {
	backend CollectionStore
}

// NewPlannerStore creates a planner store on top of a collection backend
func NewPlannerStore(backend CollectionStore) *PlannerStore {
	return &PlannerStore{backend: backend}
}

// ListSavedDates returns all saved itineraries, most recently saved first.
// A missing or unreadable collection yields an empty list, never an error.
func (ps *PlannerStore) ListSavedDates(ctx context.Context) []models.DateItinerary {
	return ps.loadSavedDates(ctx)
}

// GetSavedDate returns the saved itinerary with the given id
func (ps *PlannerStore) GetSavedDate(ctx context.Context, id string) (*models.DateItinerary, bool) {
	for _, date := range ps.loadSavedDates(ctx) {
		if date.ID == id {
			return &date, true
		}
	}
	return nil, false
}

// SaveDate upserts an itinerary. A record without an id gets a new id and the
// current time as SavedAt and is inserted at the front. A record whose id
// matches an existing one replaces it in place, keeping its position. An
// unmatched id is inserted at the front as-is.
func (ps *PlannerStore) SaveDate(ctx context.Context, itinerary models.DateItinerary) (models.DateItinerary, error) {
	dates := ps.loadSavedDates(ctx)

	if itinerary.ID == "" {
		itinerary.ID = models.NewRecordID()
	}
	if itinerary.SavedAt == nil {
		now := time.Now()
		itinerary.SavedAt = &now
	}

	replaced := false
	for i, existing := range dates {
		if existing.ID == itinerary.ID {
			dates[i] = itinerary
			replaced = true
			break
		}
	}
	if !replaced {
		dates = append([]models.DateItinerary{itinerary}, dates...)
	}

	if err := ps.writeSavedDates(ctx, dates); err != nil {
		return models.DateItinerary{}, err
	}

	return itinerary, nil
}

// DeleteSavedDate removes an itinerary by id and decouples any search history
// entries that still reference it. Deleting an unknown id is a no-op for the
// saved dates collection but still rewrites it.
func (ps *PlannerStore) DeleteSavedDate(ctx context.Context, id string) error {
	dates := ps.loadSavedDates(ctx)

	remaining := make([]models.DateItinerary, 0, len(dates))
	for _, date := range dates {
		if date.ID != id {
			remaining = append(remaining, date)
		}
	}

	if err := ps.writeSavedDates(ctx, remaining); err != nil {
		return err
	}

	return ps.clearItineraryReferences(ctx, id)
}

// clearItineraryReferences drops the back-reference fields from every history
// entry pointing at the deleted itinerary. The entries themselves survive; no
// live entry may reference a nonexistent itinerary id.
func (ps *PlannerStore) clearItineraryReferences(ctx context.Context, itineraryID string) error {
	searches := ps.loadSearchHistory(ctx)

	changed := false
	for i, entry := range searches {
		if entry.DateItineraryID == itineraryID {
			searches[i].DateItineraryID = ""
			searches[i].DateTitle = ""
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return ps.writeSearchHistory(ctx, searches)
}

// RecordSearch prepends a new history entry and evicts the oldest entries
// beyond the cap. itineraryID and title are optional and link the entry to
// the itinerary the search produced.
func (ps *PlannerStore) RecordSearch(ctx context.Context, location, date, timeOfDay, itineraryID, title string) error {
	searches := ps.loadSearchHistory(ctx)

	entry := models.SearchHistoryEntry{
		ID:              models.NewRecordID(),
		Location:        location,
		Date:            date,
		TimeOfDay:       timeOfDay,
		SearchedAt:      time.Now(),
		DateItineraryID: itineraryID,
		DateTitle:       title,
	}

	searches = append([]models.SearchHistoryEntry{entry}, searches...)
	if len(searches) > models.MaxHistoryItems {
		searches = searches[:models.MaxHistoryItems]
	}

	return ps.writeSearchHistory(ctx, searches)
}

// ListSearchHistory returns the search history, newest first
func (ps *PlannerStore) ListSearchHistory(ctx context.Context) []models.SearchHistoryEntry {
	return ps.loadSearchHistory(ctx)
}

// DeleteSearchHistoryItem removes a single history entry by id
func (ps *PlannerStore) DeleteSearchHistoryItem(ctx context.Context, id string) error {
	searches := ps.loadSearchHistory(ctx)

	remaining := make([]models.SearchHistoryEntry, 0, len(searches))
	for _, entry := range searches {
		if entry.ID != id {
			remaining = append(remaining, entry)
		}
	}

	return ps.writeSearchHistory(ctx, remaining)
}

// ClearSearchHistory empties the search history collection
func (ps *PlannerStore) ClearSearchHistory(ctx context.Context) error {
	return ps.writeSearchHistory(ctx, []models.SearchHistoryEntry{})
}

func (ps *PlannerStore) loadSavedDates(ctx context.Context) []models.DateItinerary {
	data, err := ps.backend.GetCollection(ctx, SavedDatesKey)
	if err != nil {
		if !errors.Is(err, ErrCollectionNotFound) {
			log.Printf("Failed to read saved dates collection, substituting empty: %v", err)
		}
		return []models.DateItinerary{}
	}

	var doc savedDatesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("Corrupted saved dates collection, substituting empty: %v", err)
		return []models.DateItinerary{}
	}

	return doc.Dates
}

func (ps *PlannerStore) writeSavedDates(ctx context.Context, dates []models.DateItinerary) error {
	doc := savedDatesDocument{
		Version:   CollectionSchemaVersion,
		UpdatedAt: time.Now(),
		Dates:     dates,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal saved dates collection: %w", err)
	}

	if err := ps.backend.PutCollection(ctx, SavedDatesKey, data); err != nil {
		return fmt.Errorf("failed to write saved dates collection: %w", err)
	}

	return nil
}

func (ps *PlannerStore) loadSearchHistory(ctx context.Context) []models.SearchHistoryEntry {
	data, err := ps.backend.GetCollection(ctx, SearchHistoryKey)
	if err != nil {
		if !errors.Is(err, ErrCollectionNotFound) {
			log.Printf("Failed to read search history collection, substituting empty: %v", err)
		}
		return []models.SearchHistoryEntry{}
	}

	var doc searchHistoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("Corrupted search history collection, substituting empty: %v", err)
		return []models.SearchHistoryEntry{}
	}

	return doc.Searches
}

func (ps *PlannerStore) writeSearchHistory(ctx context.Context, searches []models.SearchHistoryEntry) error {
	doc := searchHistoryDocument{
		Version:   CollectionSchemaVersion,
		UpdatedAt: time.Now(),
		Searches:  searches,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal search history collection: %w", err)
	}

	if err := ps.backend.PutCollection(ctx, SearchHistoryKey, data); err != nil {
		return fmt.Errorf("failed to write search history collection: %w", err)
	}

	return nil
}
