package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
)

func month(m time.Month) *time.Month { return &m }

func TestSeasonOf(t *testing.T) {
	tests := []struct {
		month *time.Month
		want  model.Season
	}{
		{month: nil, want: model.SeasonNone},
		{month: month(time.January), want: model.SeasonWinter},
		{month: month(time.February), want: model.SeasonWinter},
		{month: month(time.March), want: model.SeasonSpring},
		{month: month(time.April), want: model.SeasonSpring},
		{month: month(time.May), want: model.SeasonSpring},
		{month: month(time.June), want: model.SeasonSummer},
		{month: month(time.July), want: model.SeasonSummer},
		{month: month(time.August), want: model.SeasonSummer},
		{month: month(time.September), want: model.SeasonFall},
		{month: month(time.October), want: model.SeasonFall},
		{month: month(time.November), want: model.SeasonFall},
		{month: month(time.December), want: model.SeasonWinter},
	}

	for _, tt := range tests {
		got, err := SeasonOf(tt.month)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "month %v", tt.month)
	}
}

func TestSeasonOf_OutOfRange(t *testing.T) {
	for _, m := range []time.Month{0, 13} {
		_, err := SeasonOf(&m)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	}
}

func TestSeasonOfDate(t *testing.T) {
	assert.Equal(t, model.SeasonNone, SeasonOfDate(nil))
	assert.Equal(t, model.SeasonNone, SeasonOfDate(&time.Time{}))

	d := time.Date(2019, time.July, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, model.SeasonSummer, SeasonOfDate(&d))
	assert.Equal(t, "(none)", model.SeasonNone.String())
}
