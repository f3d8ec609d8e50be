package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/bnb-insights/internal/query"
)

// Sheet names in XLSX exports.
const (
	ListingsSheet = "Listings"
	SummarySheet  = "Summary"
)

// WriteXLSX writes a workbook with a listings sheet and, when doc carries a
// summary, a summary sheet.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ListingsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSheetHeader(f, ListingsSheet, ListingColumns, header); err != nil {
		return err
	}
	for i, r := range Rows(doc.Listings) {
		if err := setRow(f, ListingsSheet, i+2, listingCells(r)); err != nil {
			return err
		}
	}

	if doc.Summary != nil {
		if _, err := f.NewSheet(SummarySheet); err != nil {
			return fmt.Errorf("failed to add summary sheet: %w", err)
		}
		if err := writeSummarySheet(f, *doc.Summary, header); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s query.Summary, header int) error {
	columns := append([]string{s.Dimension.Title()}, SummaryColumns[1:]...)
	if err := writeSheetHeader(f, SummarySheet, columns, header); err != nil {
		return err
	}

	rows := summaryRows(s)
	for i, r := range rows {
		if err := setRow(f, SummarySheet, i+2, []any{r.Group, r.Count, r.MeanPrice, r.MeanDistanceKm}); err != nil {
			return err
		}
	}
	return setRow(f, SummarySheet, len(rows)+2, []any{"All", s.Total, round(s.MeanPrice, 2), round(s.MeanDistanceKm, 3)})
}

func writeSheetHeader(f *excelize.File, sheet string, columns []string, style int) error {
	cells := make([]any, len(columns))
	for i, c := range columns {
		cells[i] = c
	}
	if err := setRow(f, sheet, 1, cells); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return fmt.Errorf("failed to address header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func listingCells(r Row) []any {
	return []any{
		r.ID, r.Name, r.HostID, r.HostName, r.Borough, r.Neighbourhood,
		r.Latitude, r.Longitude, r.RoomType, r.Price, r.MinimumNights,
		r.NumberOfReviews, r.LastReview, r.ReviewsPerMonth,
		r.HostListings, r.Availability365,
		r.DaysSinceReview, r.HostType, r.ActivityStatus, r.Season,
		r.DistanceKm, r.DistanceBucket,
	}
}
