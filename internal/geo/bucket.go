package geo

import (
	"fmt"
	"math"

	"github.com/Veraticus/bnb-insights/internal/common"
)

// DistanceBand is one closed-open distance range [Min, Max) in kilometers.
type DistanceBand struct {
	Label string
	Min   float64
	Max   float64 // +Inf for the last band
}

// Contains reports whether km falls in the band.
func (b DistanceBand) Contains(km float64) bool {
	return km >= b.Min && km < b.Max
}

// DistanceBands buckets distances from the reference point.
type DistanceBands struct {
	bands []DistanceBand
}

// DefaultDistanceBounds are the upper bounds of all but the last band.
var DefaultDistanceBounds = []float64{2, 5, 10, 20}

// NewDistanceBands builds bands from strictly increasing positive upper bounds.
// The last band is open-ended.
func NewDistanceBands(bounds []float64) (*DistanceBands, error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("%w: distance bands need at least one bound", common.ErrInvalidConfig)
	}

	bands := make([]DistanceBand, 0, len(bounds)+1)
	lower := 0.0
	for _, upper := range bounds {
		if upper <= lower {
			return nil, fmt.Errorf("%w: distance bounds must be strictly increasing and positive: %v", common.ErrInvalidConfig, bounds)
		}
		bands = append(bands, DistanceBand{
			Label: fmt.Sprintf("%s-%s km", trimFloat(lower), trimFloat(upper)),
			Min:   lower,
			Max:   upper,
		})
		lower = upper
	}
	bands = append(bands, DistanceBand{
		Label: fmt.Sprintf("%s+ km", trimFloat(lower)),
		Min:   lower,
		Max:   inf,
	})

	return &DistanceBands{bands: bands}, nil
}

// Label returns the label of the band containing km. Negative distances
// fall into the first band.
func (d *DistanceBands) Label(km float64) string {
	for _, b := range d.bands {
		if km < b.Max {
			return b.Label
		}
	}
	return d.bands[len(d.bands)-1].Label
}

// Labels returns band labels nearest first.
func (d *DistanceBands) Labels() []string {
	labels := make([]string, len(d.bands))
	for i, b := range d.bands {
		labels[i] = b.Label
	}
	return labels
}

// Bands returns a copy of the configured bands.
func (d *DistanceBands) Bands() []DistanceBand {
	return append([]DistanceBand(nil), d.bands...)
}

func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}

var inf = math.Inf(1)
