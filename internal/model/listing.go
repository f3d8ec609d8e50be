// Package model defines the listing records flowing through the pipeline.
package model

import "time"

// NoData is the sentinel written into text fields the source left blank.
const NoData = "No Data"

// RoomType is the listing's room category as published in the source file.
type RoomType string

const (
	// RoomEntireHome is a whole apartment or house.
	RoomEntireHome RoomType = "Entire home/apt"
	// RoomPrivate is a private room in a shared home.
	RoomPrivate RoomType = "Private room"
	// RoomShared is a shared room.
	RoomShared RoomType = "Shared room"
	// RoomHotel is a hotel room.
	RoomHotel RoomType = "Hotel room"
)

// Listing is one row of the source table plus its derived features.
type Listing struct {
	LastReview        *time.Time // nil means the listing was never reviewed
	ReviewsPerMonth   *float64
	Name              string
	HostName          string
	Borough           string // neighbourhood_group in the source
	Neighbourhood     string
	RoomType          RoomType
	Features          Features
	ID                int64
	HostID            int64
	Latitude          float64
	Longitude         float64
	Price             float64
	MinimumNights     int
	NumberOfReviews   int
	HostListingsCount int
	Availability365   int
}

// HasReview reports whether the listing has a last-review date.
func (l *Listing) HasReview() bool {
	return l.LastReview != nil && !l.LastReview.IsZero()
}
