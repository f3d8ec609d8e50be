package classify

import (
	"fmt"

	"github.com/Veraticus/bnb-insights/internal/model"
)

// Default host-type bounds, by total listings per host:
//
//	Single        0-1 (a count of 0 still implies one listing)
//	Small Scale   2-3
//	Medium Scale  4-10
//	Large Scale   11-50
//	Commercial    51+
const (
	HostSmallScaleFrom  = 2
	HostMediumScaleFrom = 4
	HostLargeScaleFrom  = 11
	HostCommercialFrom  = 51
)

var defaultHostBounds = []Bound[model.HostType]{
	{Category: model.HostSingle, Below: HostSmallScaleFrom},
	{Category: model.HostSmallScale, Below: HostMediumScaleFrom},
	{Category: model.HostMediumScale, Below: HostLargeScaleFrom},
	{Category: model.HostLargeScale, Below: HostCommercialFrom},
}

// HostClassifier maps a host's listing count to a HostType.
type HostClassifier struct {
	table *Table[model.HostType]
}

// NewHostClassifier returns a classifier with the default bounds.
func NewHostClassifier() *HostClassifier {
	t, err := NewTable(defaultHostBounds, model.HostCommercial)
	if err != nil {
		panic(err) // defaults are constant
	}
	return &HostClassifier{table: t}
}

// NewHostClassifierWithBounds overrides the four lower bounds of Small Scale,
// Medium Scale, Large Scale and Commercial.
func NewHostClassifierWithBounds(uppers []int) (*HostClassifier, error) {
	bounds, err := withUppers(defaultHostBounds, uppers)
	if err != nil {
		return nil, fmt.Errorf("host type bounds: %w", err)
	}
	t, err := NewTable(bounds, model.HostCommercial)
	if err != nil {
		return nil, fmt.Errorf("host type bounds: %w", err)
	}
	return &HostClassifier{table: t}, nil
}

// Classify returns the host type for a listing count. Negative counts are
// rejected with common.ErrInvalidInput.
func (c *HostClassifier) Classify(listings int) (model.HostType, error) {
	h, err := c.table.Lookup(listings)
	if err != nil {
		return "", fmt.Errorf("host listing count: %w", err)
	}
	return h, nil
}
