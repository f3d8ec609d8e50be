package clean

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/dataset"
	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/testutil"
)

func newCleaner(t *testing.T, opts Options) *Cleaner {
	t.Helper()
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadPercentile(t *testing.T) {
	for _, p := range []float64{0, -0.5, 1.01, math.NaN()} {
		_, err := New(Options{PricePercentile: p})
		assert.ErrorIs(t, err, common.ErrInvalidConfig, "percentile %v", p)
	}

	_, err := New(Options{PricePercentile: 1})
	assert.NoError(t, err)
}

func TestCleaner_DropsInvalidCoordinates(t *testing.T) {
	table := &dataset.Table{Listings: []model.Listing{
		testutil.NewListing(1).Build(),
		testutil.NewListing(2).At(math.NaN(), -73.98).Build(),
		testutil.NewListing(3).At(91, -73.98).Build(),
		testutil.NewListing(4).At(40.75, -181).Build(),
		testutil.NewListing(5).At(0, 0).Build(),
	}}

	out, report, err := newCleaner(t, Options{PricePercentile: 1, DropZeroPrice: true}).Clean(table)
	require.NoError(t, err)

	assert.Equal(t, 5, report.RowsIn)
	assert.Equal(t, 4, report.InvalidCoordinates)
	assert.Equal(t, 1, report.RowsOut)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, int64(1), out.Listings[0].ID)
}

func TestCleaner_PriceRules(t *testing.T) {
	table := &dataset.Table{Listings: []model.Listing{
		testutil.NewListing(1).WithPrice(0).Build(),
		testutil.NewListing(2).WithPrice(-5).Build(),
		testutil.NewListing(3).WithPrice(80).Build(),
	}}

	t.Run("drop zero price", func(t *testing.T) {
		out, report, err := newCleaner(t, Options{PricePercentile: 1, DropZeroPrice: true}).Clean(table)
		require.NoError(t, err)
		assert.Equal(t, 2, report.InvalidPrices)
		assert.Equal(t, 1, out.Len())
	})

	t.Run("keep zero price", func(t *testing.T) {
		out, report, err := newCleaner(t, Options{PricePercentile: 1}).Clean(table)
		require.NoError(t, err)
		assert.Equal(t, 1, report.InvalidPrices)
		assert.Equal(t, 2, out.Len())
	})
}

func TestCleaner_PriceOutliers(t *testing.T) {
	table := &dataset.Table{Listings: testutil.PriceLadder(100)}

	out, report, err := newCleaner(t, DefaultOptions()).Clean(table)
	require.NoError(t, err)

	assert.Equal(t, 1, report.PriceOutliers)
	assert.Equal(t, 99, report.RowsOut)
	assert.GreaterOrEqual(t, out.PriceCeiling, 99.0)
	assert.Less(t, out.PriceCeiling, 100.0)
	assert.Equal(t, out.PriceCeiling, report.PriceCeiling)
	for _, l := range out.Listings {
		assert.LessOrEqual(t, l.Price, out.PriceCeiling)
	}
}

func TestCleaner_FillsSentinels(t *testing.T) {
	table := &dataset.Table{Listings: []model.Listing{
		testutil.NewListing(1).WithHostName("").WithName("").Build(),
		testutil.NewListing(2).ReviewedOn("2019-05-01").Build(),
	}}

	out, report, err := newCleaner(t, DefaultOptions()).Clean(table)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	blank := out.Listings[0]
	assert.Equal(t, model.NoData, blank.HostName)
	assert.Equal(t, model.NoData, blank.Name)
	require.NotNil(t, blank.ReviewsPerMonth)
	assert.Zero(t, *blank.ReviewsPerMonth)
	assert.Nil(t, blank.LastReview, "never reviewed stays null")

	assert.Equal(t, 1, report.FilledHostNames)
	assert.Equal(t, 1, report.FilledNames)
	assert.Equal(t, 1, report.FilledReviewsPerMonth)
}

func TestCleaner_DoesNotModifyInput(t *testing.T) {
	table := &dataset.Table{Listings: []model.Listing{
		testutil.NewListing(1).WithHostName("").Build(),
	}}

	_, _, err := newCleaner(t, DefaultOptions()).Clean(table)
	require.NoError(t, err)
	assert.Empty(t, table.Listings[0].HostName)
	assert.Zero(t, table.PriceCeiling)
}

func TestCleaner_Idempotent(t *testing.T) {
	listings := testutil.PriceLadder(200)
	listings = append(listings,
		testutil.NewListing(1001).At(math.NaN(), math.NaN()).Build(),
		testutil.NewListing(1002).WithPrice(0).WithHostName("").Build(),
		testutil.NewListing(1003).WithPrice(50).WithHostName("").ReviewedOn("2019-03-02").Build(),
		testutil.NewListing(1004).WithPrice(10000).Build(),
	)
	c := newCleaner(t, DefaultOptions())

	once, first, err := c.Clean(&dataset.Table{Listings: listings})
	require.NoError(t, err)
	twice, second, err := c.Clean(once)
	require.NoError(t, err)

	assert.Positive(t, first.Dropped())
	assert.Zero(t, second.Dropped())
	assert.Zero(t, second.FilledHostNames)
	assert.Equal(t, once.PriceCeiling, twice.PriceCeiling)
	assert.Equal(t, once.Listings, twice.Listings)
}

func TestCleaner_Empty(t *testing.T) {
	out, report, err := newCleaner(t, DefaultOptions()).Clean(&dataset.Table{})
	require.NoError(t, err)
	assert.Zero(t, out.Len())
	assert.Zero(t, report.PriceCeiling)
}

func TestCleaner_DropsInvalidCounts(t *testing.T) {
	tests := []struct {
		name    string
		listing model.Listing
		keep    bool
	}{
		{name: "negative host listings", listing: testutil.NewListing(2).WithHostListings(-1).Build()},
		{name: "negative reviews", listing: testutil.NewListing(2).WithReviews(-5).Build()},
		{name: "negative minimum nights", listing: testutil.NewListing(2).WithMinimumNights(-3).Build()},
		{name: "negative availability", listing: testutil.NewListing(2).WithAvailability(-1).Build()},
		{name: "availability above a year", listing: testutil.NewListing(2).WithAvailability(999).Build()},
		{name: "zero host listings", listing: testutil.NewListing(2).WithHostListings(0).Build(), keep: true},
		{name: "available all year", listing: testutil.NewListing(2).WithAvailability(365).Build(), keep: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &dataset.Table{Listings: []model.Listing{
				testutil.NewListing(1).Build(),
				tt.listing,
			}}

			out, report, err := newCleaner(t, Options{PricePercentile: 1, DropZeroPrice: true}).Clean(table)
			require.NoError(t, err)

			if tt.keep {
				assert.Zero(t, report.InvalidCounts)
				assert.Equal(t, 2, out.Len())
				return
			}
			assert.Equal(t, 1, report.InvalidCounts)
			assert.Equal(t, 1, report.Dropped())
			require.Equal(t, 1, out.Len())
			assert.Equal(t, int64(1), out.Listings[0].ID)
		})
	}
}

func TestValidateCounts(t *testing.T) {
	assert.NoError(t, validateCounts(&model.Listing{Availability365: 365}))

	err := validateCounts(&model.Listing{Availability365: 366})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCleaner_CeilingCountsFreeListings(t *testing.T) {
	var listings []model.Listing
	for i, price := range []float64{0, 0, 0, 0, 100, 200, 300, 400} {
		listings = append(listings, testutil.NewListing(int64(i+1)).WithPrice(price).Build())
	}

	out, report, err := newCleaner(t, Options{PricePercentile: 0.75, DropZeroPrice: true}).Clean(&dataset.Table{Listings: listings})
	require.NoError(t, err)

	assert.InDelta(t, 200.0, report.PriceCeiling, 1e-9)
	assert.Equal(t, 2, report.PriceOutliers)
	assert.Equal(t, 4, report.InvalidPrices)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, 100.0, out.Listings[0].Price)
	assert.Equal(t, 200.0, out.Listings[1].Price)
}

func TestCleaner_ReloadedTableRecomputesCeiling(t *testing.T) {
	c := newCleaner(t, DefaultOptions())

	once, first, err := c.Clean(&dataset.Table{Listings: testutil.PriceLadder(100)})
	require.NoError(t, err)
	assert.Equal(t, 1, first.PriceOutliers)

	// A table read back from an exported file has no ceiling.
	reloaded := once.Clone()
	reloaded.PriceCeiling = 0

	_, second, err := c.Clean(reloaded)
	require.NoError(t, err)
	assert.Equal(t, 1, second.PriceOutliers)
	assert.Less(t, second.PriceCeiling, first.PriceCeiling)
}
