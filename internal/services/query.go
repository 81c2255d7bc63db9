package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"date-night-planner/internal/models"
)

// SortOption selects the ordering of query results
type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortOldest    SortOption = "oldest"
	SortPriceHigh SortOption = "price-high"
	SortPriceLow  SortOption = "price-low"
)

// SavedDateFilters describes one query over the saved itineraries. Zero-value
// fields are no-ops: empty search matches everything, a nil price bound is
// unbounded, and TimeOfDay "all" (or empty) disables the facet.
type SavedDateFilters struct {
	Search    string
	TimeOfDay string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    SortOption
}

// The grouped alternative comes first so "1,299.50" matches as one token
// under Go's leftmost-first alternation.
var (
	priceTokenPattern   = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:[.,]\d+)?`)
	displayPricePattern = regexp.MustCompile(`[$£€¥]?\s?\d+(?:[,.]\d+)?`)
)

// QueryService filters and sorts saved itineraries for display. It only
// reads; the input collection is never mutated.
type QueryService struct {
	settings models.Settings
}

// NewQueryService creates a query service with the given display settings
func NewQueryService(settings models.Settings) *QueryService {
	return &QueryService{settings: settings}
}

// Query applies the filters in fixed order (free-text, time-of-day facet,
// price range, sort) and returns a new slice. Filters compose as a logical
// AND; sorts are stable with respect to input order on ties.
func (qs *QueryService) Query(dates []models.DateItinerary, filters SavedDateFilters) []models.DateItinerary {
	results := make([]models.DateItinerary, len(dates))
	copy(results, dates)

	if filters.Search != "" {
		filtered := results[:0]
		for _, date := range results {
			if matchesSearch(date, filters.Search) {
				filtered = append(filtered, date)
			}
		}
		results = filtered
	}

	if filters.TimeOfDay != "" && filters.TimeOfDay != models.TimeOfDayAll {
		filtered := results[:0]
		for _, date := range results {
			if date.Inputs != nil && date.Inputs.TimeOfDay == filters.TimeOfDay {
				filtered = append(filtered, date)
			}
		}
		results = filtered
	}

	if filters.MinPrice != nil || filters.MaxPrice != nil {
		filtered := results[:0]
		for _, date := range results {
			price := qs.ExtractNumericPrice(date.TotalCost)
			if filters.MinPrice != nil && price < *filters.MinPrice {
				continue
			}
			if filters.MaxPrice != nil && price > *filters.MaxPrice {
				continue
			}
			filtered = append(filtered, date)
		}
		results = filtered
	}

	switch filters.SortBy {
	case SortNewest:
		sort.SliceStable(results, func(i, j int) bool {
			return savedAtOrZero(results[i]).After(savedAtOrZero(results[j]))
		})
	case SortOldest:
		sort.SliceStable(results, func(i, j int) bool {
			return savedAtOrZero(results[i]).Before(savedAtOrZero(results[j]))
		})
	case SortPriceHigh:
		sort.SliceStable(results, func(i, j int) bool {
			return qs.ExtractNumericPrice(results[i].TotalCost) > qs.ExtractNumericPrice(results[j].TotalCost)
		})
	case SortPriceLow:
		sort.SliceStable(results, func(i, j int) bool {
			return qs.ExtractNumericPrice(results[i].TotalCost) < qs.ExtractNumericPrice(results[j].TotalCost)
		})
	}

	return results
}

// SearchSavedDates is the free-text-only query used by the quick search box
func (qs *QueryService) SearchSavedDates(dates []models.DateItinerary, query string) []models.DateItinerary {
	return qs.Query(dates, SavedDateFilters{Search: query})
}

// ExtractNumericPrice pulls the first numeric token out of a cost string
// after stripping currency symbols. Thousands separators are dropped,
// a lone comma or dot acts as the decimal separator, and a string without
// any numeric token yields 0. For a range like "$50-$150" the first token
// wins; that matches the stored display strings, ambiguous as it is.
func (qs *QueryService) ExtractNumericPrice(cost string) float64 {
	for _, symbol := range qs.currencySymbols() {
		cost = strings.ReplaceAll(cost, symbol, "")
	}

	token := priceTokenPattern.FindString(cost)
	if token == "" {
		return 0
	}

	if strings.Contains(token, ",") && strings.Contains(token, ".") {
		token = strings.ReplaceAll(token, ",", "")
	} else {
		token = strings.ReplaceAll(token, ",", ".")
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}

	return value
}

// FormatPrice normalizes a cost string for display: the first symbol-prefixed
// numeric token with inner whitespace removed, or the original string when no
// token is found.
func (qs *QueryService) FormatPrice(cost string) string {
	match := displayPricePattern.FindString(cost)
	if match == "" {
		return cost
	}
	return strings.Join(strings.Fields(match), "")
}

func (qs *QueryService) currencySymbols() []string {
	symbols := models.KnownCurrencySymbols()
	configured := qs.settings.CurrencySymbol()

	for _, symbol := range symbols {
		if symbol == configured {
			return symbols
		}
	}

	return append(symbols, configured)
}

func matchesSearch(date models.DateItinerary, query string) bool {
	query = strings.ToLower(query)

	if strings.Contains(strings.ToLower(date.Title), query) {
		return true
	}

	for _, activity := range date.Activities {
		if strings.Contains(strings.ToLower(activity.Title), query) ||
			strings.Contains(strings.ToLower(activity.Location), query) {
			return true
		}
	}

	return date.Inputs != nil && strings.Contains(strings.ToLower(date.Inputs.Location), query)
}

func savedAtOrZero(date models.DateItinerary) time.Time {
	if date.SavedAt == nil {
		return time.Time{}
	}
	return *date.SavedAt
}
