package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
)

// Dimension names a grouping key.
type Dimension string

// Supported grouping dimensions.
const (
	ByBorough        Dimension = "borough"
	ByRoomType       Dimension = "room_type"
	ByDistanceBucket Dimension = "distance_bucket"
	ByHostType       Dimension = "host_type"
	ByActivityStatus Dimension = "activity_status"
	BySeason         Dimension = "season"
)

// Dimensions lists the supported dimensions in display order.
var Dimensions = []Dimension{ByBorough, ByRoomType, ByDistanceBucket, ByHostType, ByActivityStatus, BySeason}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownDimension, s)
}

// Title returns a display heading for the dimension.
func (d Dimension) Title() string {
	switch d {
	case ByBorough:
		return "Borough"
	case ByRoomType:
		return "Room Type"
	case ByDistanceBucket:
		return "Distance"
	case ByHostType:
		return "Host Type"
	case ByActivityStatus:
		return "Activity"
	case BySeason:
		return "Season"
	default:
		return string(d)
	}
}

// key returns the group key of l, or "" when the row has none.
func (d Dimension) key(l *model.Listing) string {
	switch d {
	case ByBorough:
		return l.Borough
	case ByRoomType:
		return string(l.RoomType)
	case ByDistanceBucket:
		return l.Features.DistanceBucket
	case ByHostType:
		return string(l.Features.HostType)
	case ByActivityStatus:
		return string(l.Features.ActivityStatus)
	case BySeason:
		return string(l.Features.Season)
	default:
		return ""
	}
}

// Group holds the statistics of one group.
type Group struct {
	Key            string  `json:"key"`
	Count          int     `json:"count"`
	MeanPrice      float64 `json:"mean_price"`
	MeanDistanceKm float64 `json:"mean_distance_km"`
}

// Summary is a grouped aggregate. Rows without a key for the dimension, such
// as never-reviewed listings under BySeason, are counted in Excluded and
// contribute to no group or total.
type Summary struct {
	Dimension      Dimension `json:"dimension"`
	Groups         []Group   `json:"groups"`
	Total          int       `json:"total"`
	Excluded       int       `json:"excluded"`
	MeanPrice      float64   `json:"mean_price"`
	MeanDistanceKm float64   `json:"mean_distance_km"`
}

// Empty reports whether no row was summarized.
func (s Summary) Empty() bool {
	return s.Total == 0
}

// Group returns the group for key.
func (s Summary) Group(key string) (Group, bool) {
	for _, g := range s.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Summarize groups listings by dim. An empty input yields a summary with no
// groups and zero means.
func Summarize(listings []model.Listing, dim Dimension) (Summary, error) {
	if _, err := ParseDimension(string(dim)); err != nil {
		return Summary{}, err
	}

	type acc struct {
		prices, distances []float64
	}
	groups := make(map[string]*acc)
	var all acc
	summary := Summary{Dimension: dim, Groups: []Group{}}

	for i := range listings {
		l := &listings[i]
		k := dim.key(l)
		if k == "" {
			summary.Excluded++
			continue
		}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.prices = append(a.prices, l.Price)
		a.distances = append(a.distances, l.Features.DistanceKm)
		all.prices = append(all.prices, l.Price)
		all.distances = append(all.distances, l.Features.DistanceKm)
	}

	for k, a := range groups {
		summary.Groups = append(summary.Groups, Group{
			Key:            k,
			Count:          len(a.prices),
			MeanPrice:      mean(a.prices),
			MeanDistanceKm: mean(a.distances),
		})
	}
	sortGroups(dim, summary.Groups)

	summary.Total = len(all.prices)
	summary.MeanPrice = mean(all.prices)
	summary.MeanDistanceKm = mean(all.distances)
	return summary, nil
}

// mean is stat.Mean with zero for an empty sample.
func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// sortGroups orders categorical dimensions by their natural order, distance
// buckets by their lower bound, and free-text dimensions by descending count.
func sortGroups(dim Dimension, groups []Group) {
	var rank func(key string) float64
	switch dim {
	case ByHostType:
		rank = func(k string) float64 { return float64(model.HostType(k).Rank()) }
	case ByActivityStatus:
		rank = func(k string) float64 { return float64(model.ActivityStatus(k).Rank()) }
	case BySeason:
		rank = func(k string) float64 { return float64(seasonRank(model.Season(k))) }
	case ByDistanceBucket:
		rank = bucketLowerBound
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if rank != nil {
			if ra, rb := rank(a.Key), rank(b.Key); ra != rb {
				return ra < rb
			}
		} else if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Key < b.Key
	})
}

func seasonRank(s model.Season) int {
	for i, known := range model.Seasons {
		if known == s {
			return i
		}
	}
	return len(model.Seasons)
}

// bucketLowerBound parses the leading number of a label such as "5-10 km".
func bucketLowerBound(label string) float64 {
	end := strings.IndexAny(label, "-+ ")
	if end < 0 {
		end = len(label)
	}
	v, err := strconv.ParseFloat(label[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
