package classify

import (
	"fmt"
	"time"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
)

// SeasonOf maps a calendar month to its meteorological season. A nil month
// yields model.SeasonNone.
func SeasonOf(month *time.Month) (model.Season, error) {
	if month == nil {
		return model.SeasonNone, nil
	}

	switch *month {
	case time.December, time.January, time.February:
		return model.SeasonWinter, nil
	case time.March, time.April, time.May:
		return model.SeasonSpring, nil
	case time.June, time.July, time.August:
		return model.SeasonSummer, nil
	case time.September, time.October, time.November:
		return model.SeasonFall, nil
	default:
		return model.SeasonNone, fmt.Errorf("%w: month %d", common.ErrInvalidInput, int(*month))
	}
}

// SeasonOfDate is SeasonOf for an optional date.
func SeasonOfDate(date *time.Time) model.Season {
	if date == nil || date.IsZero() {
		return model.SeasonNone
	}
	m := date.Month()
	s, _ := SeasonOf(&m) // a time.Time month is always in range
	return s
}
