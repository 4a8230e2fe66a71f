// Package search looks up current travel information for the pipeline.
package search

import (
	"context"
	"strings"

	"github.com/iksnae/tourmate/internal"
)

// Result is one search hit
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Searcher finds travel information for a query
type Searcher interface {
	SearchTravel(ctx context.Context, query string, category internal.Category, location string) ([]Result, error)
}

var categoryTerms = map[internal.Category]string{
	internal.CategoryFood:           "best restaurants local food",
	internal.CategoryAccommodation:  "hotels accommodation reviews",
	internal.CategoryAttractions:    "top attractions things to do",
	internal.CategoryWeather:        "weather forecast",
	internal.CategoryTransportation: "transportation how to get around",
	internal.CategoryBudget:         "travel cost budget prices",
	internal.CategorySafety:         "travel safety tips",
	internal.CategoryItinerary:      "travel itinerary",
}

// TravelQuery enriches a raw query with the location and category terms
func TravelQuery(query string, category internal.Category, location string) string {
	parts := []string{strings.TrimSpace(query)}
	if location != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(location)) {
		parts = append(parts, location)
	}
	if terms, ok := categoryTerms[category]; ok {
		parts = append(parts, terms)
	}
	return strings.Join(parts, " ")
}
