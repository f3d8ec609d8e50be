package model

// HostType buckets a host by the number of listings they operate.
type HostType string

const (
	HostSingle      HostType = "Single"
	HostSmallScale  HostType = "Small Scale"
	HostMediumScale HostType = "Medium Scale"
	HostLargeScale  HostType = "Large Scale"
	HostCommercial  HostType = "Commercial"
)

// HostTypes lists host types from smallest to largest.
var HostTypes = []HostType{HostSingle, HostSmallScale, HostMediumScale, HostLargeScale, HostCommercial}

// Rank returns the position of the host type in HostTypes, or -1.
func (h HostType) Rank() int {
	for i, t := range HostTypes {
		if t == h {
			return i
		}
	}
	return -1
}

// ActivityStatus buckets a listing by how recently it was reviewed.
type ActivityStatus string

const (
	ActivityVeryActive       ActivityStatus = "Very Active"
	ActivityActive           ActivityStatus = "Active"
	ActivityModeratelyActive ActivityStatus = "Moderately Active"
	ActivityLessActive       ActivityStatus = "Less Active"
	ActivityInactive         ActivityStatus = "Inactive"
)

// ActivityStatuses lists statuses from most to least active.
var ActivityStatuses = []ActivityStatus{
	ActivityVeryActive,
	ActivityActive,
	ActivityModeratelyActive,
	ActivityLessActive,
	ActivityInactive,
}

// Rank returns the position of the status in ActivityStatuses, or -1.
// A higher rank is less active.
func (a ActivityStatus) Rank() int {
	for i, s := range ActivityStatuses {
		if s == a {
			return i
		}
	}
	return -1
}

// Season is the meteorological season of a listing's last review.
type Season string

const (
	// SeasonNone marks listings without a last review. It never appears in
	// seasonal aggregates.
	SeasonNone   Season = ""
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// Seasons lists the seasons in calendar order starting with winter.
var Seasons = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// String renders SeasonNone as "(none)".
func (s Season) String() string {
	if s == SeasonNone {
		return "(none)"
	}
	return string(s)
}

// Features are the derived columns of a listing. They are recomputed from
// the base columns on every load and never stored.
type Features struct {
	DaysSinceReview *int
	HostType        HostType
	ActivityStatus  ActivityStatus
	Season          Season
	DistanceBucket  string
	DistanceKm      float64
	Derived         bool
}
