package query

import (
	"sort"
	"time"

	"github.com/Veraticus/bnb-insights/internal/model"
)

// Overview holds the headline metrics of a selection.
type Overview struct {
	Total            int     `json:"total"`
	MeanPrice        float64 `json:"mean_price"`
	MeanReviews      float64 `json:"mean_reviews"`
	MeanAvailability float64 `json:"mean_availability"`
	MeanDistanceKm   float64 `json:"mean_distance_km"`
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
}

// NewOverview computes the key metrics. All fields are zero for an empty input.
func NewOverview(listings []model.Listing) Overview {
	o := Overview{Total: len(listings)}
	if len(listings) == 0 {
		return o
	}

	prices := make([]float64, len(listings))
	reviews := make([]float64, len(listings))
	availability := make([]float64, len(listings))
	distances := make([]float64, len(listings))
	o.MinPrice, o.MaxPrice = listings[0].Price, listings[0].Price
	for i := range listings {
		l := &listings[i]
		prices[i] = l.Price
		reviews[i] = float64(l.NumberOfReviews)
		availability[i] = float64(l.Availability365)
		distances[i] = l.Features.DistanceKm
		o.MinPrice = min(o.MinPrice, l.Price)
		o.MaxPrice = max(o.MaxPrice, l.Price)
	}

	o.MeanPrice = mean(prices)
	o.MeanReviews = mean(reviews)
	o.MeanAvailability = mean(availability)
	o.MeanDistanceKm = mean(distances)
	return o
}

// MonthCount is the number of last reviews falling in one calendar month.
type MonthCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// ReviewTimeline counts last-review dates per month, oldest first. Listings
// that were never reviewed are skipped.
func ReviewTimeline(listings []model.Listing) []MonthCount {
	counts := make(map[time.Time]int)
	for i := range listings {
		l := &listings[i]
		if !l.HasReview() {
			continue
		}
		m := time.Date(l.LastReview.Year(), l.LastReview.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[m]++
	}

	out := make([]MonthCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, MonthCount{Month: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// Distinct returns the sorted distinct boroughs and room types of listings.
func Distinct(listings []model.Listing) (boroughs, roomTypes []string) {
	seenB := make(map[string]struct{})
	seenR := make(map[string]struct{})
	for i := range listings {
		l := &listings[i]
		if _, ok := seenB[l.Borough]; !ok && l.Borough != "" {
			seenB[l.Borough] = struct{}{}
			boroughs = append(boroughs, l.Borough)
		}
		if _, ok := seenR[string(l.RoomType)]; !ok && l.RoomType != "" {
			seenR[string(l.RoomType)] = struct{}{}
			roomTypes = append(roomTypes, string(l.RoomType))
		}
	}
	sort.Strings(boroughs)
	sort.Strings(roomTypes)
	return boroughs, roomTypes
}
