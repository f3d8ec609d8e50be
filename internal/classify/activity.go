package classify

import (
	"fmt"

	"github.com/Veraticus/bnb-insights/internal/model"
)

// Default activity bounds, in days since the last review:
//
//	Very Active        0-29
//	Active             30-89
//	Moderately Active  90-179
//	Less Active        180-364
//	Inactive           365+ or never reviewed
const (
	ActiveFromDays           = 30
	ModeratelyActiveFromDays = 90
	LessActiveFromDays       = 180
	InactiveFromDays         = 365
)

var defaultActivityBounds = []Bound[model.ActivityStatus]{
	{Category: model.ActivityVeryActive, Below: ActiveFromDays},
	{Category: model.ActivityActive, Below: ModeratelyActiveFromDays},
	{Category: model.ActivityModeratelyActive, Below: LessActiveFromDays},
	{Category: model.ActivityLessActive, Below: InactiveFromDays},
}

// ActivityClassifier maps days since last review to an ActivityStatus.
type ActivityClassifier struct {
	table *Table[model.ActivityStatus]
}

// NewActivityClassifier returns a classifier with the default bounds.
func NewActivityClassifier() *ActivityClassifier {
	t, err := NewTable(defaultActivityBounds, model.ActivityInactive)
	if err != nil {
		panic(err) // defaults are constant
	}
	return &ActivityClassifier{table: t}
}

// NewActivityClassifierWithBounds overrides the four day bounds.
func NewActivityClassifierWithBounds(uppers []int) (*ActivityClassifier, error) {
	bounds, err := withUppers(defaultActivityBounds, uppers)
	if err != nil {
		return nil, fmt.Errorf("activity bounds: %w", err)
	}
	t, err := NewTable(bounds, model.ActivityInactive)
	if err != nil {
		return nil, fmt.Errorf("activity bounds: %w", err)
	}
	return &ActivityClassifier{table: t}, nil
}

// Classify returns the status for a day gap. A nil gap means the listing was
// never reviewed and is always Inactive.
func (c *ActivityClassifier) Classify(daysSinceReview *int) (model.ActivityStatus, error) {
	if daysSinceReview == nil {
		return model.ActivityInactive, nil
	}
	s, err := c.table.Lookup(*daysSinceReview)
	if err != nil {
		return "", fmt.Errorf("days since review: %w", err)
	}
	return s, nil
}
