// Package query filters the enriched listings table and aggregates it into
// grouped summaries, key metrics and stakeholder insights.
package query

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
)

// FilterSpec selects listings. Unset options do not filter; set options are
// combined with AND. Price bounds are inclusive.
type FilterSpec struct {
	PriceMin   *float64 `json:"price_min,omitempty" validate:"omitempty,gte=0"`
	PriceMax   *float64 `json:"price_max,omitempty" validate:"omitempty,gte=0"`
	MinReviews *int     `json:"min_reviews,omitempty" validate:"omitempty,gte=0"`
	Boroughs   []string `json:"borough,omitempty" validate:"omitempty,dive,required"`
	RoomTypes  []string `json:"room_type,omitempty" validate:"omitempty,dive,required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validatePriceRange, FilterSpec{})

	return v
}

func validatePriceRange(sl validator.StructLevel) {
	spec, ok := sl.Current().Interface().(FilterSpec)
	if !ok {
		return
	}
	if spec.PriceMin != nil && math.IsNaN(*spec.PriceMin) {
		sl.ReportError(spec.PriceMin, "price_min", "PriceMin", "number", "")
	}
	if spec.PriceMax != nil && math.IsNaN(*spec.PriceMax) {
		sl.ReportError(spec.PriceMax, "price_max", "PriceMax", "number", "")
	}
	if spec.PriceMin != nil && spec.PriceMax != nil && *spec.PriceMin > *spec.PriceMax {
		sl.ReportError(spec.PriceMin, "price_min", "PriceMin", "ltefield", "price_max")
	}
}

// Validate checks option values. Errors wrap common.ErrInvalidFilter.
func (s FilterSpec) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrInvalidFilter, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidFilter, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	case "required":
		return fmt.Sprintf("%s values must not be empty", fe.Namespace())
	case "number":
		return fmt.Sprintf("%s must be a number", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// IsEmpty reports whether no option is set.
func (s FilterSpec) IsEmpty() bool {
	return s.PriceMin == nil && s.PriceMax == nil && s.MinReviews == nil &&
		len(s.Boroughs) == 0 && len(s.RoomTypes) == 0
}

// Matches reports whether l satisfies every set option. Borough and room
// type comparisons ignore case.
func (s FilterSpec) Matches(l *model.Listing) bool {
	if len(s.Boroughs) > 0 && !containsFold(s.Boroughs, l.Borough) {
		return false
	}
	if len(s.RoomTypes) > 0 && !containsFold(s.RoomTypes, string(l.RoomType)) {
		return false
	}
	if s.PriceMin != nil && l.Price < *s.PriceMin {
		return false
	}
	if s.PriceMax != nil && l.Price > *s.PriceMax {
		return false
	}
	if s.MinReviews != nil && l.NumberOfReviews < *s.MinReviews {
		return false
	}
	return true
}

// Apply returns the listings matching spec. An empty spec returns listings
// unchanged.
func Apply(listings []model.Listing, spec FilterSpec) []model.Listing {
	if spec.IsEmpty() {
		return listings
	}
	out := make([]model.Listing, 0, len(listings))
	for i := range listings {
		if spec.Matches(&listings[i]) {
			out = append(out, listings[i])
		}
	}
	return out
}

// ValidateAndApply validates spec before applying it.
func ValidateAndApply(listings []model.Listing, spec FilterSpec) ([]model.Listing, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return Apply(listings, spec), nil
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
