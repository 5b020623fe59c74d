package alternatives

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights parameterizes the candidate scoring function. The zero value is
// not usable; start from DefaultWeights.
type Weights struct {
	Base            int     `yaml:"base"`
	RatingMidpoint  float64 `yaml:"rating_midpoint"`
	RatingSlope     float64 `yaml:"rating_slope"`
	PopularityCap   float64 `yaml:"popularity_cap"`
	PopularityScale float64 `yaml:"popularity_scale"`
	PricePivot      int     `yaml:"price_pivot"`
	PriceStep       int     `yaml:"price_step"`
	CategoryBonus   int     `yaml:"category_bonus"`
}

// DefaultWeights returns the stock scoring parameters.
func DefaultWeights() Weights {
	return Weights{
		Base:            50,
		RatingMidpoint:  2.5,
		RatingSlope:     10,
		PopularityCap:   15,
		PopularityScale: 100,
		PricePivot:      3,
		PriceStep:       5,
		CategoryBonus:   10,
	}
}

// LoadWeights reads scoring weights from a YAML file. Unset fields keep
// their defaults.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()

	data, err := os.ReadFile(path)
	if err != nil {
		return w, eris.Wrapf(err, "alternatives: read weights %s", path)
	}

	// The YAML has a top-level "scoring" key.
	var wrapper struct {
		Scoring map[string]float64 `yaml:"scoring"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return w, eris.Wrap(err, "alternatives: parse weights")
	}

	for key, val := range wrapper.Scoring {
		switch key {
		case "base":
			w.Base = int(val)
		case "rating_midpoint":
			w.RatingMidpoint = val
		case "rating_slope":
			w.RatingSlope = val
		case "popularity_cap":
			w.PopularityCap = val
		case "popularity_scale":
			w.PopularityScale = val
		case "price_pivot":
			w.PricePivot = int(val)
		case "price_step":
			w.PriceStep = int(val)
		case "category_bonus":
			w.CategoryBonus = int(val)
		default:
			return w, eris.Errorf("alternatives: unknown weight %q", key)
		}
	}

	return w, nil
}
