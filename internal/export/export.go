// Package export writes a filtered selection to CSV, XLSX or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/query"
)

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", common.ErrInvalidInput, s)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Document is what gets exported. Summary is optional.
type Document struct {
	Summary  *query.Summary
	Listings []model.Listing
	// SummaryOnly makes CSV output carry the summary groups instead of the
	// listings. XLSX and JSON always carry both.
	SummaryOnly bool
}

// Row is the flat export shape of a listing.
type Row struct {
	LastReview      string  `dataframe:"last_review" json:"last_review"`
	DaysSinceReview string  `dataframe:"days_since_review" json:"days_since_review"`
	Name            string  `dataframe:"name" json:"name"`
	HostName        string  `dataframe:"host_name" json:"host_name"`
	Borough         string  `dataframe:"neighbourhood_group" json:"neighbourhood_group"`
	Neighbourhood   string  `dataframe:"neighbourhood" json:"neighbourhood"`
	RoomType        string  `dataframe:"room_type" json:"room_type"`
	HostType        string  `dataframe:"host_type" json:"host_type"`
	ActivityStatus  string  `dataframe:"activity_status" json:"activity_status"`
	Season          string  `dataframe:"season" json:"season"`
	DistanceBucket  string  `dataframe:"distance_bucket" json:"distance_bucket"`
	ID              int     `dataframe:"id" json:"id"`
	HostID          int     `dataframe:"host_id" json:"host_id"`
	Latitude        float64 `dataframe:"latitude" json:"latitude"`
	Longitude       float64 `dataframe:"longitude" json:"longitude"`
	Price           float64 `dataframe:"price" json:"price"`
	MinimumNights   int     `dataframe:"minimum_nights" json:"minimum_nights"`
	NumberOfReviews int     `dataframe:"number_of_reviews" json:"number_of_reviews"`
	ReviewsPerMonth float64 `dataframe:"reviews_per_month" json:"reviews_per_month"`
	HostListings    int     `dataframe:"calculated_host_listings_count" json:"calculated_host_listings_count"`
	Availability365 int     `dataframe:"availability_365" json:"availability_365"`
	DistanceKm      float64 `dataframe:"distance_km" json:"distance_km"`
}

// ListingColumns are the export column names in output order.
var ListingColumns = []string{
	"id", "name", "host_id", "host_name", "neighbourhood_group", "neighbourhood",
	"latitude", "longitude", "room_type", "price", "minimum_nights",
	"number_of_reviews", "last_review", "reviews_per_month",
	"calculated_host_listings_count", "availability_365",
	"days_since_review", "host_type", "activity_status", "season",
	"distance_km", "distance_bucket",
}

// SummaryColumns are the summary export column names.
var SummaryColumns = []string{"group", "count", "mean_price", "mean_distance_km"}

// NewRow flattens a listing. Missing optional values become empty strings
// or zero.
func NewRow(l *model.Listing) Row {
	r := Row{
		ID:              int(l.ID),
		Name:            l.Name,
		HostID:          int(l.HostID),
		HostName:        l.HostName,
		Borough:         l.Borough,
		Neighbourhood:   l.Neighbourhood,
		Latitude:        l.Latitude,
		Longitude:       l.Longitude,
		RoomType:        string(l.RoomType),
		Price:           l.Price,
		MinimumNights:   l.MinimumNights,
		NumberOfReviews: l.NumberOfReviews,
		HostListings:    l.HostListingsCount,
		Availability365: l.Availability365,
		HostType:        string(l.Features.HostType),
		ActivityStatus:  string(l.Features.ActivityStatus),
		Season:          string(l.Features.Season),
		DistanceKm:      round(l.Features.DistanceKm, 3),
		DistanceBucket:  l.Features.DistanceBucket,
	}
	if l.HasReview() {
		r.LastReview = l.LastReview.Format("2006-01-02")
	}
	if l.ReviewsPerMonth != nil {
		r.ReviewsPerMonth = *l.ReviewsPerMonth
	}
	if l.Features.DaysSinceReview != nil {
		r.DaysSinceReview = strconv.Itoa(*l.Features.DaysSinceReview)
	}
	return r
}

// Rows flattens listings.
func Rows(listings []model.Listing) []Row {
	rows := make([]Row, len(listings))
	for i := range listings {
		rows[i] = NewRow(&listings[i])
	}
	return rows
}

// SummaryRow is the flat export shape of a summary group.
type SummaryRow struct {
	Group          string  `dataframe:"group"`
	Count          int     `dataframe:"count"`
	MeanPrice      float64 `dataframe:"mean_price"`
	MeanDistanceKm float64 `dataframe:"mean_distance_km"`
}

func summaryRows(s query.Summary) []SummaryRow {
	rows := make([]SummaryRow, len(s.Groups))
	for i, g := range s.Groups {
		rows[i] = SummaryRow{
			Group:          g.Key,
			Count:          g.Count,
			MeanPrice:      round(g.MeanPrice, 2),
			MeanDistanceKm: round(g.MeanDistanceKm, 3),
		}
	}
	return rows
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatCSV:
		if doc.SummaryOnly {
			if doc.Summary == nil {
				return fmt.Errorf("%w: summary export needs a summary", common.ErrInvalidInput)
			}
			return WriteSummaryCSV(w, *doc.Summary)
		}
		return WriteListingsCSV(w, doc.Listings)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	case FormatJSON:
		return WriteJSON(w, doc)
	default:
		return fmt.Errorf("%w: unknown export format %q", common.ErrInvalidInput, f)
	}
}

// WriteFile creates path and writes doc to it in format f.
func WriteFile(path string, f Format, doc Document) (err error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return err
	}

	out, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return Write(out, f, doc)
}

// WriteListingsCSV writes one row per listing with a header line. An empty
// selection produces the header only.
func WriteListingsCSV(w io.Writer, listings []model.Listing) error {
	if len(listings) == 0 {
		return writeHeader(w, ListingColumns)
	}
	df := dataframe.LoadStructs(Rows(listings)).Select(ListingColumns)
	return writeFrame(w, df)
}

// WriteSummaryCSV writes one row per summary group.
func WriteSummaryCSV(w io.Writer, s query.Summary) error {
	if len(s.Groups) == 0 {
		return writeHeader(w, SummaryColumns)
	}
	return writeFrame(w, dataframe.LoadStructs(summaryRows(s)))
}

func writeFrame(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("failed to build export frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeHeader(w io.Writer, columns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

type jsonDocument struct {
	Summary  *query.Summary `json:"summary,omitempty"`
	Listings []Row          `json:"listings"`
}

// WriteJSON writes the listings and optional summary as one JSON object.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonDocument{Listings: Rows(doc.Listings), Summary: doc.Summary}); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
