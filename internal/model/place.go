package model

// Coordinate is a WGS84 latitude/longitude pair. Immutable once produced
// by geocoding.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a point of interest returned by the places index. Fields are
// populated at the API boundary and never mutated locally.
type Place struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Vicinity         string   `json:"vicinity,omitempty"`
	Location         Coordinate `json:"location"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	Types            []string `json:"types,omitempty"`
}

// AlternativeCandidate is a Place with a derived location score and the
// human-readable signals behind it. Created during the scoring pass,
// ranked, truncated, then read-only.
type AlternativeCandidate struct {
	Place          Place    `json:"place"`
	Score          int      `json:"score"`
	Reasons        []string `json:"reasons,omitempty"`
	DistanceMeters float64  `json:"distance_m"`
}

// CompetitorProfile is a Place enriched with contact details and derived
// business heuristics.
type CompetitorProfile struct {
	Place              Place  `json:"place"`
	Website            string `json:"website,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Footfall           int    `json:"footfall"`
	AveragePriceForTwo *int   `json:"average_price_for_2,omitempty"`
	Revenue            *int64 `json:"revenue,omitempty"`
}
