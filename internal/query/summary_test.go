package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/testutil"
)

func enriched() []model.Listing {
	return []model.Listing{
		testutil.NewListing(1).InBorough("Manhattan").WithPrice(200).
			WithFeatures(model.Features{DistanceKm: 1, DistanceBucket: "0-2 km", HostType: model.HostSingle, ActivityStatus: model.ActivityVeryActive, Season: model.SeasonSummer}).Build(),
		testutil.NewListing(2).InBorough("Manhattan").WithPrice(100).
			WithFeatures(model.Features{DistanceKm: 3, DistanceBucket: "2-5 km", HostType: model.HostCommercial, ActivityStatus: model.ActivityInactive}).Build(),
		testutil.NewListing(3).InBorough("Brooklyn").WithPrice(80).WithRoomType(model.RoomPrivate).
			WithFeatures(model.Features{DistanceKm: 12, DistanceBucket: "10-20 km", HostType: model.HostSingle, ActivityStatus: model.ActivityActive, Season: model.SeasonWinter}).Build(),
		testutil.NewListing(4).InBorough("Queens").WithPrice(60).WithRoomType(model.RoomPrivate).
			WithFeatures(model.Features{DistanceKm: 8, DistanceBucket: "5-10 km", HostType: model.HostSmallScale, ActivityStatus: model.ActivityActive, Season: model.SeasonSummer}).Build(),
	}
}

func TestSummarize_ByBorough(t *testing.T) {
	s, err := Summarize(enriched(), ByBorough)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Total)
	assert.False(t, s.Empty())
	assert.InDelta(t, 110.0, s.MeanPrice, 1e-9)
	assert.InDelta(t, 6.0, s.MeanDistanceKm, 1e-9)

	require.Len(t, s.Groups, 3)
	assert.Equal(t, "Manhattan", s.Groups[0].Key, "largest group first")

	m, ok := s.Group("Manhattan")
	require.True(t, ok)
	assert.Equal(t, 2, m.Count)
	assert.InDelta(t, 150.0, m.MeanPrice, 1e-9)
	assert.InDelta(t, 2.0, m.MeanDistanceKm, 1e-9)
}

func TestSummarize_OrderedDimensions(t *testing.T) {
	tests := []struct {
		dim  Dimension
		want []string
	}{
		{dim: ByDistanceBucket, want: []string{"0-2 km", "2-5 km", "5-10 km", "10-20 km"}},
		{dim: ByHostType, want: []string{"Single", "Small Scale", "Commercial"}},
		{dim: ByActivityStatus, want: []string{"Very Active", "Active", "Inactive"}},
		{dim: ByRoomType, want: []string{"Entire home/apt", "Private room"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dim), func(t *testing.T) {
			s, err := Summarize(enriched(), tt.dim)
			require.NoError(t, err)
			keys := make([]string, len(s.Groups))
			for i, g := range s.Groups {
				keys[i] = g.Key
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestSummarize_SeasonExcludesUnreviewed(t *testing.T) {
	s, err := Summarize(enriched(), BySeason)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Excluded)
	require.Len(t, s.Groups, 2)
	assert.Equal(t, "Winter", s.Groups[0].Key)
	assert.Equal(t, "Summer", s.Groups[1].Key)
	_, ok := s.Group("")
	assert.False(t, ok)
}

func TestSummarize_EmptyResult(t *testing.T) {
	filtered := Apply(enriched(), FilterSpec{PriceMin: ptr(1e6)})
	require.Empty(t, filtered)

	for _, dim := range Dimensions {
		s, err := Summarize(filtered, dim)
		require.NoError(t, err)
		assert.True(t, s.Empty())
		assert.Zero(t, s.Total)
		assert.NotNil(t, s.Groups)
		assert.Empty(t, s.Groups)
		assert.False(t, math.IsNaN(s.MeanPrice))
		assert.False(t, math.IsNaN(s.MeanDistanceKm))
		assert.Zero(t, s.MeanPrice)
	}
}

func TestSummarize_UnknownDimension(t *testing.T) {
	_, err := Summarize(enriched(), Dimension("zip"))
	assert.ErrorIs(t, err, common.ErrUnknownDimension)
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension(" Room_Type ")
	require.NoError(t, err)
	assert.Equal(t, ByRoomType, d)
	assert.Equal(t, "Room Type", d.Title())

	_, err = ParseDimension("price")
	assert.ErrorIs(t, err, common.ErrUnknownDimension)
}
