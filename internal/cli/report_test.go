package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/query"
	"github.com/Veraticus/bnb-insights/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func selection() []model.Listing {
	return []model.Listing{
		testutil.NewListing(1).InBorough("Manhattan").WithPrice(200).WithDistance(1, "0-2 km").Build(),
		testutil.NewListing(2).InBorough("Manhattan").WithPrice(100).WithDistance(3, "2-5 km").Build(),
		testutil.NewListing(3).InBorough("Brooklyn").WithPrice(80).WithDistance(7, "5-10 km").
			WithRoomType(model.RoomPrivate).Build(),
	}
}

func TestWriteReport(t *testing.T) {
	listings := selection()
	summary, err := query.Summarize(listings, query.ByBorough)
	require.NoError(t, err)
	insight, err := query.Insights(listings, query.Guests)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = WriteReport(&buf, Report{
		Filter:   query.FilterSpec{Boroughs: []string{"Manhattan", "Brooklyn"}},
		Overview: query.NewOverview(listings),
		Summary:  summary,
		Insight:  &insight,
		Run: &model.Run{
			Source:        "AB_NYC_2019.csv",
			RowsRead:      5,
			MalformedRows: 1,
			PriceOutliers: 1,
			PriceCeiling:  799,
			RowsOut:       3,
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Key Metrics")
	assert.Contains(t, out, "$126.67")
	assert.Contains(t, out, "Manhattan")
	assert.Contains(t, out, "$150.00")
	assert.Contains(t, out, "For Guests")
	assert.Contains(t, out, "Most Affordable Area")
	assert.Contains(t, out, "Brooklyn ($80.00)")
	assert.Contains(t, out, "Data Quality")
	assert.Contains(t, out, "above $799.00")
	assert.Contains(t, out, "borough=Manhattan,Brooklyn")
	assert.NotContains(t, out, EmptySelectionMessage)
}

func TestWriteReport_EmptySelection(t *testing.T) {
	summary, err := query.Summarize(nil, query.ByBorough)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = WriteReport(&buf, Report{
		Filter:   query.FilterSpec{PriceMin: ptr(5000.0)},
		Overview: query.NewOverview(nil),
		Summary:  summary,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, EmptySelectionMessage)
	assert.NotContains(t, out, "Key Metrics")
}

func TestRenderSummary_Excluded(t *testing.T) {
	listings := []model.Listing{
		testutil.NewListing(1).ReviewedOn("2019-07-01").
			WithFeatures(model.Features{Season: model.SeasonSummer}).Build(),
		testutil.NewListing(2).Build(),
	}
	s, err := query.Summarize(listings, query.BySeason)
	require.NoError(t, err)

	out := RenderSummary(s)
	assert.Contains(t, out, "Summer")
	assert.Contains(t, out, "1 listings have no season")
}

func TestDescribeFilter(t *testing.T) {
	tests := []struct {
		name string
		want string
		spec query.FilterSpec
	}{
		{name: "empty", want: "none"},
		{
			name: "price range",
			spec: query.FilterSpec{PriceMin: ptr(50.0), PriceMax: ptr(1500.0)},
			want: "price $50.00-$1,500.00",
		},
		{name: "min only", spec: query.FilterSpec{PriceMin: ptr(50.0)}, want: "price >= $50.00"},
		{name: "max only", spec: query.FilterSpec{PriceMax: ptr(80.0)}, want: "price <= $80.00"},
		{
			name: "all",
			spec: query.FilterSpec{
				Boroughs:   []string{"Queens"},
				RoomTypes:  []string{"Private room"},
				MinReviews: ptr(10),
			},
			want: "borough=Queens  room_type=Private room  reviews >= 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeFilter(tt.spec))
		})
	}
}

func TestRenderInsight_Empty(t *testing.T) {
	in, err := query.Insights(nil, query.Investors)
	require.NoError(t, err)

	out := RenderInsight(in)
	assert.Contains(t, out, "For Investors")
	assert.Contains(t, out, EmptySelectionMessage)
}

func TestRenderFeatures(t *testing.T) {
	days := 12
	out := RenderFeatures(model.Features{
		DaysSinceReview: &days,
		HostType:        model.HostSingle,
		ActivityStatus:  model.ActivityVeryActive,
		Season:          model.SeasonSummer,
		DistanceKm:      5.3123,
		DistanceBucket:  "5-10 km",
	})
	assert.Contains(t, out, "Single")
	assert.Contains(t, out, "Very Active")
	assert.Contains(t, out, "12 days")
	assert.Contains(t, out, "5.31 km")
	assert.Contains(t, out, "5-10 km")

	out = RenderFeatures(model.Features{ActivityStatus: model.ActivityInactive})
	assert.Contains(t, out, "never reviewed")
	assert.Contains(t, out, "(none)")
}

func TestRenderHistory(t *testing.T) {
	assert.Contains(t, RenderHistory(nil), "No runs recorded yet.")

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := RenderHistory([]model.Run{{
		ID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
		Source:     "AB_NYC_2019.csv",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		RowsRead:   48895,
		RowsOut:    48300,
	}})
	assert.Contains(t, out, "0f8fad5b")
	assert.NotContains(t, out, "469f")
	assert.Contains(t, out, "48,895")
	assert.Contains(t, out, "595")
	assert.Contains(t, out, "1.5s")
}

func TestRenderRun_CountsDroppedAndClamped(t *testing.T) {
	out := RenderRun(model.Run{
		Source:           "AB_NYC_2019.csv",
		RowsRead:         10,
		InvalidCounts:    2,
		ReviewsAfterAsOf: 3,
		RowsOut:          8,
	})
	assert.Contains(t, out, "Invalid counts:")
	assert.Contains(t, out, "Reviewed after as-of:")
	assert.Contains(t, out, "Listings kept:")
}
