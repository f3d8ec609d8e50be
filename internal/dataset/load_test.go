package dataset

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/testutil"
)

const sampleCSV = `id,name,host_id,host_name,neighbourhood_group,neighbourhood,latitude,longitude,room_type,price,minimum_nights,number_of_reviews,last_review,reviews_per_month,calculated_host_listings_count,availability_365
2539,Clean & quiet apt home by the park,2787,John,Brooklyn,Kensington,40.64749,-73.97237,Private room,149,1,9,2018-10-19,0.21,6,365
2595,Skylit Midtown Castle,2845,Jennifer,Manhattan,Midtown,40.75362,-73.98377,Entire home/apt,225,1,45,2019-05-21,0.38,2,355
3647,THE VILLAGE OF HARLEM....NEW YORK !,4632,Elisabeth,Manhattan,Harlem,40.80902,-73.9419,Private room,150,3,0,,,1,365
`

func TestLoad(t *testing.T) {
	table, report, err := Load(context.Background(), strings.NewReader(sampleCSV), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 3, report.Loaded)
	assert.Zero(t, report.Malformed)
	require.Equal(t, 3, table.Len())

	first := table.Listings[0]
	assert.Equal(t, int64(2539), first.ID)
	assert.Equal(t, "John", first.HostName)
	assert.Equal(t, "Brooklyn", first.Borough)
	assert.Equal(t, model.RoomPrivate, first.RoomType)
	assert.InDelta(t, 149.0, first.Price, 1e-9)
	assert.InDelta(t, 40.64749, first.Latitude, 1e-9)
	assert.Equal(t, 6, first.HostListingsCount)
	assert.Equal(t, 365, first.Availability365)
	require.NotNil(t, first.LastReview)
	assert.Equal(t, time.Date(2018, time.October, 19, 0, 0, 0, 0, time.UTC), *first.LastReview)
	require.NotNil(t, first.ReviewsPerMonth)
	assert.InDelta(t, 0.21, *first.ReviewsPerMonth, 1e-9)

	never := table.Listings[2]
	assert.Nil(t, never.LastReview)
	assert.Nil(t, never.ReviewsPerMonth)
	assert.False(t, never.HasReview())
}

func TestLoad_ColumnOrderIsFree(t *testing.T) {
	csv := "price,latitude,longitude,id,name,host_id,host_name,neighbourhood_group,neighbourhood,room_type,minimum_nights,number_of_reviews,last_review,reviews_per_month,calculated_host_listings_count,availability_365\n" +
		"80,40.7,-73.9,7,Cozy,70,Ann,Queens,Astoria,Shared room,2,1,2019-01-01,1,1,10\n"

	table, _, err := Load(context.Background(), strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, int64(7), table.Listings[0].ID)
	assert.InDelta(t, 80.0, table.Listings[0].Price, 1e-9)
	assert.Equal(t, "Queens", table.Listings[0].Borough)
}

func TestLoad_MalformedRowsAreSkipped(t *testing.T) {
	header := strings.Join(testutil.Header(), ",")
	rows := []string{
		"1,ok,10,A,Manhattan,Midtown,40.75,-73.98,Entire home/apt,100,1,0,,,1,0",
		"2,bad price,20,B,Manhattan,Midtown,40.75,-73.98,Entire home/apt,free,1,0,,,1,0",
		"3,bad lat,30,C,Manhattan,Midtown,north,-73.98,Entire home/apt,100,1,0,,,1,0",
		"4,short row,40,D",
		"x,bad id,50,E,Manhattan,Midtown,40.75,-73.98,Entire home/apt,100,1,0,,,1,0",
		"6,bad count,60,F,Manhattan,Midtown,40.75,-73.98,Entire home/apt,100,one,0,,,1,0",
		"7,ok,70,G,Brooklyn,Bushwick,40.70,-73.92,Private room,60,1,0,,,1,0",
	}
	csv := header + "\n" + strings.Join(rows, "\n") + "\n"

	table, report, err := Load(context.Background(), strings.NewReader(csv), LoadOptions{MaxSamples: 3})
	require.NoError(t, err)

	assert.Equal(t, 7, report.Rows)
	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, 5, report.Malformed)
	assert.Len(t, report.Samples, 3)
	assert.Equal(t, report.Rows, report.Loaded+report.Malformed)

	for _, s := range report.Samples {
		assert.ErrorIs(t, s, common.ErrMalformedRow)
		var rowErr *common.RowError
		require.ErrorAs(t, s, &rowErr)
		assert.Greater(t, rowErr.Line, 1)
	}

	require.Equal(t, 2, table.Len())
	assert.Equal(t, int64(1), table.Listings[0].ID)
	assert.Equal(t, int64(7), table.Listings[1].ID)
}

func TestLoad_EmptyCoordinatesLoadAsNaN(t *testing.T) {
	csv := strings.Join(testutil.Header(), ",") + "\n" +
		"1,n,10,A,Manhattan,Midtown,,,Entire home/apt,100,1,0,,,1,0\n"

	table, report, err := Load(context.Background(), strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)
	assert.Zero(t, report.Malformed)
	require.Equal(t, 1, table.Len())
	assert.True(t, math.IsNaN(table.Listings[0].Latitude))
	assert.True(t, math.IsNaN(table.Listings[0].Longitude))
}

func TestLoad_DateLayouts(t *testing.T) {
	tests := []struct {
		raw     string
		want    *time.Time
		coerced bool
	}{
		{raw: "", want: nil},
		{raw: "2019-07-08", want: ptrDate(2019, time.July, 8)},
		{raw: "08/07/2019", want: ptrDate(2019, time.July, 8)},
		{raw: "8/7/2019", want: ptrDate(2019, time.July, 8)},
		{raw: "08-07-2019", want: ptrDate(2019, time.July, 8)},
		{raw: "last summer", want: nil, coerced: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, coerced := parseDate(tt.raw)
			assert.Equal(t, tt.coerced, coerced)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v", got)
		})
	}
}

func TestLoad_CoercedDatesAreCounted(t *testing.T) {
	csv := strings.Join(testutil.Header(), ",") + "\n" +
		"1,n,10,A,Manhattan,Midtown,40.75,-73.98,Entire home/apt,100,1,3,someday,0.5,1,0\n"

	table, report, err := Load(context.Background(), strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.CoercedDates)
	require.Equal(t, 1, table.Len())
	assert.Nil(t, table.Listings[0].LastReview)
}

func TestLoad_MissingColumn(t *testing.T) {
	csv := "id,name,price\n1,a,100\n"

	_, _, err := Load(context.Background(), strings.NewReader(csv), LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)
	assert.Contains(t, err.Error(), "latitude")
}

func TestLoad_EmptySource(t *testing.T) {
	_, _, err := Load(context.Background(), strings.NewReader(""), LoadOptions{})
	assert.ErrorIs(t, err, common.ErrSourceUnreadable)
}

func TestLoad_HeaderWithBOM(t *testing.T) {
	csv := "\ufeff" + sampleCSV

	table, _, err := Load(context.Background(), strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestLoad_Progress(t *testing.T) {
	var ticks []int
	_, _, err := Load(context.Background(), strings.NewReader(sampleCSV), LoadOptions{
		Progress: func(rows int) { ticks = append(ticks, rows) },
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ticks)
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Load(ctx, strings.NewReader(sampleCSV), LoadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	listings := []model.Listing{
		testutil.NewListing(1).ReviewedOn("2019-06-01").Build(),
		testutil.NewListing(2).InBorough("Queens").WithPrice(55).Build(),
	}
	path := testutil.WriteListingsCSV(t, listings)

	table, report, err := LoadFile(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, path, table.Source)
	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, "Queens", table.Listings[1].Borough)
	assert.InDelta(t, 55.0, table.Listings[1].Price, 1e-9)
}

func TestLoadFile_Missing(t *testing.T) {
	_, _, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSourceUnreadable)
}

func TestTable_LatestReview(t *testing.T) {
	table := &Table{Listings: []model.Listing{
		testutil.NewListing(1).ReviewedOn("2019-06-01").Build(),
		testutil.NewListing(2).Build(),
		testutil.NewListing(3).ReviewedOn("2019-07-08").Build(),
	}}

	latest, ok := table.LatestReview()
	require.True(t, ok)
	assert.Equal(t, time.Date(2019, time.July, 8, 0, 0, 0, 0, time.UTC), latest)

	_, ok = (&Table{}).LatestReview()
	assert.False(t, ok)
}

func TestTable_Clone(t *testing.T) {
	table := &Table{Listings: testutil.PriceLadder(3), PriceCeiling: 2.5}

	clone := table.Clone()
	clone.Listings[0].Price = 999

	assert.InDelta(t, 1.0, table.Listings[0].Price, 1e-9)
	assert.InDelta(t, 2.5, clone.PriceCeiling, 1e-9)
}

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
