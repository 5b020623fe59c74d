package model

import "strings"

// Category is the hospitality business category under analysis.
type Category string

const (
	CategoryCafe       Category = "cafe"
	CategoryRestaurant Category = "restaurant"
	CategoryHotel      Category = "hotel"
	CategoryHostel     Category = "hostel"
)

// allCategories lists the closed set of valid categories.
var allCategories = []Category{
	CategoryCafe,
	CategoryRestaurant,
	CategoryHotel,
	CategoryHostel,
}

// ParseCategory normalizes and validates a category string. Returns false
// for anything outside the closed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allCategories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// PlaceType maps the category to the places-index type vocabulary.
// Unknown categories fall back to the generic establishment type.
func (c Category) PlaceType() string {
	switch c {
	case CategoryRestaurant:
		return "restaurant"
	case CategoryCafe:
		return "cafe"
	case CategoryHotel, CategoryHostel:
		return "lodging"
	default:
		return "establishment"
	}
}
