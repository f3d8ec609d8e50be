package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
)

// Stakeholder is an audience for tailored insights.
type Stakeholder string

// Supported stakeholders.
const (
	Hosts        Stakeholder = "hosts"
	Guests       Stakeholder = "guests"
	Investors    Stakeholder = "investors"
	Policymakers Stakeholder = "policymakers"
)

// Stakeholders lists the audiences in display order.
var Stakeholders = []Stakeholder{Hosts, Guests, Investors, Policymakers}

// HighAvailabilityDays is the availability above which a listing counts as
// available most of the year.
const HighAvailabilityDays = 300

// ParseStakeholder validates a stakeholder name.
func ParseStakeholder(s string) (Stakeholder, error) {
	st := Stakeholder(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Stakeholders {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown stakeholder %q", common.ErrInvalidInput, s)
}

// Title returns the display name.
func (s Stakeholder) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Unit describes how a metric value is rendered.
type Unit int

// Metric units.
const (
	UnitNumber Unit = iota
	UnitCurrency
	UnitDays
	UnitPercent
	UnitScore
)

// Metric is one labelled figure. Subject, when set, names what the figure
// refers to, such as a borough.
type Metric struct {
	Label   string  `json:"label"`
	Subject string  `json:"subject,omitempty"`
	Value   float64 `json:"value"`
	Unit    Unit    `json:"unit"`
}

// Ranking scores one group.
type Ranking struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// Insight is the stakeholder-specific view of a selection.
type Insight struct {
	Stakeholder Stakeholder `json:"stakeholder"`
	Metrics     []Metric    `json:"metrics"`
	Rankings    []Ranking   `json:"rankings,omitempty"`
	Tips        []string    `json:"tips"`
	Empty       bool        `json:"empty"`
}

var tips = map[Stakeholder][]string{
	Hosts: {
		"Compare your pricing with neighborhood averages",
		"Encourage guest reviews to improve visibility",
		"Balance availability for optimal income",
		"Consider seasonal pricing adjustments",
	},
	Guests: {
		"Compare prices across different neighborhoods",
		"Look for hosts with consistent positive reviews",
		"Book early during peak seasons",
		"Consider outer boroughs for better value",
	},
	Investors: {
		"Focus on high-demand, high-price areas",
		"Consider entire home properties for better ROI",
		"Diversify across multiple neighborhoods",
		"Monitor occupancy rates and seasonal trends",
	},
	Policymakers: {
		"Monitor housing market impact",
		"Track tourism distribution patterns",
		"Identify commercial vs. personal rentals",
		"Ensure compliance with local regulations",
	},
}

// Insights computes the figures for one stakeholder. An empty selection
// yields an Insight with Empty set and no metrics.
func Insights(listings []model.Listing, who Stakeholder) (Insight, error) {
	if _, err := ParseStakeholder(string(who)); err != nil {
		return Insight{}, err
	}

	in := Insight{Stakeholder: who, Tips: tips[who], Metrics: []Metric{}}
	if len(listings) == 0 {
		in.Empty = true
		return in, nil
	}

	switch who {
	case Hosts:
		o := NewOverview(listings)
		in.Metrics = append(in.Metrics,
			Metric{Label: "Market Price", Value: o.MeanPrice, Unit: UnitCurrency},
			Metric{Label: "Expected Reviews", Value: o.MeanReviews, Unit: UnitNumber},
			Metric{Label: "Typical Availability", Value: o.MeanAvailability, Unit: UnitDays},
		)

	case Guests:
		s, err := Summarize(listings, ByBorough)
		if err != nil {
			return Insight{}, err
		}
		if len(s.Groups) == 0 {
			in.Empty = true
			return in, nil
		}
		for _, g := range s.Groups {
			in.Rankings = append(in.Rankings, Ranking{Key: g.Key, Score: g.MeanPrice})
		}
		sortRankings(in.Rankings, true)
		cheapest := in.Rankings[0]
		in.Metrics = append(in.Metrics,
			Metric{Label: "Most Affordable Area", Subject: cheapest.Key, Value: cheapest.Score, Unit: UnitCurrency},
			Metric{Label: "Average Price", Value: cheapest.Score, Unit: UnitCurrency},
		)

	case Investors:
		in.Rankings = ROIByBorough(listings)
		best := in.Rankings[0]
		in.Metrics = append(in.Metrics,
			Metric{Label: "Best ROI Area", Subject: best.Key, Value: best.Score, Unit: UnitScore},
			Metric{Label: "ROI Score", Value: best.Score, Unit: UnitScore},
		)

	case Policymakers:
		var entire, high int
		for i := range listings {
			if listings[i].RoomType == model.RoomEntireHome {
				entire++
			}
			if listings[i].Availability365 > HighAvailabilityDays {
				high++
			}
		}
		n := float64(len(listings))
		in.Metrics = append(in.Metrics,
			Metric{Label: "% Entire Homes", Value: 100 * float64(entire) / n, Unit: UnitPercent},
			Metric{Label: "% High Availability", Value: 100 * float64(high) / n, Unit: UnitPercent},
		)
	}

	return in, nil
}

// ROIByBorough scores each borough by mean price times the mean share of the
// year it is available, best first.
func ROIByBorough(listings []model.Listing) []Ranking {
	type acc struct {
		prices, availability []float64
	}
	byBorough := make(map[string]*acc)
	for i := range listings {
		l := &listings[i]
		a, ok := byBorough[l.Borough]
		if !ok {
			a = &acc{}
			byBorough[l.Borough] = a
		}
		a.prices = append(a.prices, l.Price)
		a.availability = append(a.availability, float64(l.Availability365))
	}

	out := make([]Ranking, 0, len(byBorough))
	for borough, a := range byBorough {
		out = append(out, Ranking{
			Key:   borough,
			Score: mean(a.prices) * mean(a.availability) / 365,
		})
	}
	sortRankings(out, false)
	return out
}

func sortRankings(r []Ranking, ascending bool) {
	sort.Slice(r, func(i, j int) bool {
		if r[i].Score != r[j].Score {
			if ascending {
				return r[i].Score < r[j].Score
			}
			return r[i].Score > r[j].Score
		}
		return r[i].Key < r[j].Key
	})
}
