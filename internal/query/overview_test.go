package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/testutil"
)

func TestNewOverview(t *testing.T) {
	listings := []model.Listing{
		testutil.NewListing(1).WithPrice(100).WithReviews(10).WithAvailability(365).WithDistance(2, "2-5 km").Build(),
		testutil.NewListing(2).WithPrice(300).WithReviews(0).WithAvailability(0).WithDistance(4, "2-5 km").Build(),
	}

	o := NewOverview(listings)
	assert.Equal(t, 2, o.Total)
	assert.InDelta(t, 200.0, o.MeanPrice, 1e-9)
	assert.InDelta(t, 5.0, o.MeanReviews, 1e-9)
	assert.InDelta(t, 182.5, o.MeanAvailability, 1e-9)
	assert.InDelta(t, 3.0, o.MeanDistanceKm, 1e-9)
	assert.InDelta(t, 100.0, o.MinPrice, 1e-9)
	assert.InDelta(t, 300.0, o.MaxPrice, 1e-9)
}

func TestNewOverview_Empty(t *testing.T) {
	assert.Equal(t, Overview{}, NewOverview(nil))
}

func TestReviewTimeline(t *testing.T) {
	listings := []model.Listing{
		testutil.NewListing(1).ReviewedOn("2019-06-03").Build(),
		testutil.NewListing(2).ReviewedOn("2019-06-28").Build(),
		testutil.NewListing(3).ReviewedOn("2018-12-31").Build(),
		testutil.NewListing(4).Build(),
	}

	got := ReviewTimeline(listings)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2018, time.December, 1, 0, 0, 0, 0, time.UTC), got[0].Month)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC), got[1].Month)
	assert.Equal(t, 2, got[1].Count)

	assert.Empty(t, ReviewTimeline(nil))
}

func TestDistinct(t *testing.T) {
	boroughs, rooms := Distinct(fixture())
	assert.Equal(t, []string{"Brooklyn", "Manhattan", "Queens"}, boroughs)
	assert.Equal(t, []string{"Entire home/apt", "Private room", "Shared room"}, rooms)
}
