package dataset

import (
	"fmt"
	"strings"

	"github.com/Veraticus/bnb-insights/internal/common"
)

// Source column names.
const (
	ColID                = "id"
	ColName              = "name"
	ColHostID            = "host_id"
	ColHostName          = "host_name"
	ColBorough           = "neighbourhood_group"
	ColNeighbourhood     = "neighbourhood"
	ColLatitude          = "latitude"
	ColLongitude         = "longitude"
	ColRoomType          = "room_type"
	ColPrice             = "price"
	ColMinimumNights     = "minimum_nights"
	ColNumberOfReviews   = "number_of_reviews"
	ColLastReview        = "last_review"
	ColReviewsPerMonth   = "reviews_per_month"
	ColHostListingsCount = "calculated_host_listings_count"
	ColAvailability365   = "availability_365"
)

// Columns lists the base columns in the order of the published file.
var Columns = []string{
	ColID, ColName, ColHostID, ColHostName, ColBorough, ColNeighbourhood,
	ColLatitude, ColLongitude, ColRoomType, ColPrice, ColMinimumNights,
	ColNumberOfReviews, ColLastReview, ColReviewsPerMonth,
	ColHostListingsCount, ColAvailability365,
}

// header maps column names to field positions.
type header map[string]int

func parseHeader(fields []string) (header, error) {
	h := make(header, len(fields))
	for i, f := range fields {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(f, "\ufeff")))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return h, nil
}

func (h header) get(record []string, col string) string {
	return strings.TrimSpace(record[h[col]])
}
