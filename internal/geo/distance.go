// Package geo computes great-circle distances between listing coordinates.
package geo

import (
	"fmt"
	"math"

	"github.com/Veraticus/bnb-insights/internal/common"
)

// EarthRadiusKm is the mean spherical earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// TimesSquare is the default reference point for listing distances.
var TimesSquare = Point{Lat: 40.7580, Lon: -73.9855}

// Validate checks that the point lies within the valid coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", common.ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", common.ErrInvalidCoordinate, p.Lon)
	}
	return nil
}

// Haversine returns the great-circle distance in kilometers between a and b.
// Both points are assumed valid.
func Haversine(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	// Rounding can push h a hair above 1 for antipodal points.
	h = math.Min(1, h)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// DistanceFrom returns the distance in kilometers from ref to (lat, lon).
func DistanceFrom(ref Point, lat, lon float64) (float64, error) {
	p := Point{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := ref.Validate(); err != nil {
		return 0, fmt.Errorf("reference point: %w", err)
	}
	return Haversine(ref, p), nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
