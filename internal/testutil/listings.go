// Package testutil provides listing fixtures and test stores shared by the
// package tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Veraticus/bnb-insights/internal/model"
)

// Reference coordinates used across tests.
const (
	TimesSquareLat = 40.7580
	TimesSquareLon = -73.9855
	// Lower Manhattan, about 5.31 km from Times Square.
	LowerManhattanLat = 40.7128
	LowerManhattanLon = -74.0060
	// Crown Heights, Brooklyn, about 9.53 km from Times Square.
	BrooklynLat = 40.6782
	BrooklynLon = -73.9442
)

// ListingBuilder builds a model.Listing with sensible defaults.
//
// Example:
//
//	l := testutil.NewListing(1).
//		InBorough("Brooklyn").
//		WithPrice(120).
//		ReviewedOn("2019-06-01").
//		Build()
type ListingBuilder struct {
	l model.Listing
}

// NewListing returns a builder for an entire home in Manhattan near Times
// Square, priced at 100, from a single-listing host, never reviewed.
func NewListing(id int64) *ListingBuilder {
	return &ListingBuilder{l: model.Listing{
		ID:                id,
		Name:              "Listing " + strconv.FormatInt(id, 10),
		HostID:            id * 10,
		HostName:          "Host " + strconv.FormatInt(id, 10),
		Borough:           "Manhattan",
		Neighbourhood:     "Midtown",
		Latitude:          TimesSquareLat,
		Longitude:         TimesSquareLon,
		RoomType:          model.RoomEntireHome,
		Price:             100,
		MinimumNights:     1,
		HostListingsCount: 1,
		Availability365:   180,
	}}
}

// InBorough sets the borough.
func (b *ListingBuilder) InBorough(borough string) *ListingBuilder {
	b.l.Borough = borough
	return b
}

// At sets the coordinates.
func (b *ListingBuilder) At(lat, lon float64) *ListingBuilder {
	b.l.Latitude, b.l.Longitude = lat, lon
	return b
}

// WithRoomType sets the room type.
func (b *ListingBuilder) WithRoomType(rt model.RoomType) *ListingBuilder {
	b.l.RoomType = rt
	return b
}

// WithPrice sets the nightly price.
func (b *ListingBuilder) WithPrice(price float64) *ListingBuilder {
	b.l.Price = price
	return b
}

// WithHostListings sets the host's total listing count.
func (b *ListingBuilder) WithHostListings(n int) *ListingBuilder {
	b.l.HostListingsCount = n
	return b
}

// WithMinimumNights sets minimum_nights.
func (b *ListingBuilder) WithMinimumNights(n int) *ListingBuilder {
	b.l.MinimumNights = n
	return b
}

// WithAvailability sets availability_365.
func (b *ListingBuilder) WithAvailability(days int) *ListingBuilder {
	b.l.Availability365 = days
	return b
}

// WithHostName sets the host name; "" leaves it blank.
func (b *ListingBuilder) WithHostName(name string) *ListingBuilder {
	b.l.HostName = name
	return b
}

// WithName sets the listing name; "" leaves it blank.
func (b *ListingBuilder) WithName(name string) *ListingBuilder {
	b.l.Name = name
	return b
}

// ReviewedOn sets the last review date (YYYY-MM-DD), the review count to at
// least one and reviews per month to 1.
func (b *ListingBuilder) ReviewedOn(date string) *ListingBuilder {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	b.l.LastReview = &d
	if b.l.NumberOfReviews == 0 {
		b.l.NumberOfReviews = 1
	}
	rpm := 1.0
	b.l.ReviewsPerMonth = &rpm
	return b
}

// WithReviews sets the review count.
func (b *ListingBuilder) WithReviews(n int) *ListingBuilder {
	b.l.NumberOfReviews = n
	return b
}

// WithFeatures sets precomputed features.
func (b *ListingBuilder) WithFeatures(f model.Features) *ListingBuilder {
	f.Derived = true
	b.l.Features = f
	return b
}

// WithDistance sets the derived distance and its bucket label.
func (b *ListingBuilder) WithDistance(km float64, bucket string) *ListingBuilder {
	b.l.Features.DistanceKm = km
	b.l.Features.DistanceBucket = bucket
	b.l.Features.Derived = true
	return b
}

// Build returns the listing.
func (b *ListingBuilder) Build() model.Listing {
	return b.l
}

// header mirrors the published listings file.
var header = []string{
	"id", "name", "host_id", "host_name", "neighbourhood_group", "neighbourhood",
	"latitude", "longitude", "room_type", "price", "minimum_nights",
	"number_of_reviews", "last_review", "reviews_per_month",
	"calculated_host_listings_count", "availability_365",
}

// Record renders a listing as a source row.
func Record(l model.Listing) []string {
	lastReview, rpm := "", ""
	if l.LastReview != nil {
		lastReview = l.LastReview.Format("2006-01-02")
	}
	if l.ReviewsPerMonth != nil {
		rpm = strconv.FormatFloat(*l.ReviewsPerMonth, 'f', -1, 64)
	}
	return []string{
		strconv.FormatInt(l.ID, 10),
		l.Name,
		strconv.FormatInt(l.HostID, 10),
		l.HostName,
		l.Borough,
		l.Neighbourhood,
		strconv.FormatFloat(l.Latitude, 'f', -1, 64),
		strconv.FormatFloat(l.Longitude, 'f', -1, 64),
		string(l.RoomType),
		strconv.FormatFloat(l.Price, 'f', -1, 64),
		strconv.Itoa(l.MinimumNights),
		strconv.Itoa(l.NumberOfReviews),
		lastReview,
		rpm,
		strconv.Itoa(l.HostListingsCount),
		strconv.Itoa(l.Availability365),
	}
}

// Header returns a copy of the source header.
func Header() []string {
	return append([]string(nil), header...)
}

// WriteListingsCSV writes listings plus any raw extra rows to a CSV file in a
// temporary directory and returns its path.
func WriteListingsCSV(t *testing.T, listings []model.Listing, raw ...[]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "listings.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{header}
	for _, l := range listings {
		rows = append(rows, Record(l))
	}
	rows = append(rows, raw...)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// PriceLadder returns n Manhattan listings priced 1..n.
func PriceLadder(n int) []model.Listing {
	out := make([]model.Listing, n)
	for i := range out {
		out[i] = NewListing(int64(i + 1)).WithPrice(float64(i + 1)).Build()
	}
	return out
}
