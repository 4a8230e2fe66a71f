package internal

// Category is the travel topic a query was classified into
type Category string

const (
	CategoryFood           Category = "food"
	CategoryAccommodation  Category = "accommodation"
	CategoryAttractions    Category = "attractions"
	CategoryWeather        Category = "weather"
	CategoryTransportation Category = "transportation"
	CategoryBudget         Category = "budget"
	CategorySafety         Category = "safety"
	CategoryItinerary      Category = "itinerary"
	CategoryGeneral        Category = "general"
)

// Categories lists every category the analyzer may return
var Categories = []Category{
	CategoryFood,
	CategoryAccommodation,
	CategoryAttractions,
	CategoryWeather,
	CategoryTransportation,
	CategoryBudget,
	CategorySafety,
	CategoryItinerary,
	CategoryGeneral,
}

// ParseCategory maps free text to a known category, falling back to general
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryGeneral
}

// NeedsSearch reports whether answers for this category depend on fresh data
func (c Category) NeedsSearch() bool {
	switch c {
	case CategoryFood, CategoryAccommodation, CategoryAttractions, CategoryWeather,
		CategoryTransportation, CategoryBudget, CategorySafety, CategoryItinerary:
		return true
	}
	return false
}

// LocationDependent reports whether a useful answer requires a location
func (c Category) LocationDependent() bool {
	switch c {
	case CategoryFood, CategoryAccommodation, CategoryAttractions, CategoryBudget:
		return true
	}
	return false
}
