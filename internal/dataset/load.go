package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/model"
)

// DefaultMaxSamples is the number of malformed-row diagnostics kept when
// LoadOptions.MaxSamples is zero.
const DefaultMaxSamples = 10

// Accepted last_review layouts. Slash and dash dates are day first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// LoadOptions tunes a load.
type LoadOptions struct {
	// Progress, if set, is called once per data row read.
	Progress func(rows int)
	// Encoding names the source character set; empty means UTF-8.
	Encoding   string
	MaxSamples int
}

// LoadReport accounts for every data row in the source file.
type LoadReport struct {
	// Samples holds up to MaxSamples *common.RowError diagnostics.
	Samples      []error
	Rows         int
	Loaded       int
	Malformed    int
	CoercedDates int
}

func (r *LoadReport) malformed(err error, limit int) {
	r.Malformed++
	if len(r.Samples) < limit {
		r.Samples = append(r.Samples, err)
	}
}

// LoadFile opens path and loads it with Load.
func LoadFile(ctx context.Context, path string, opts LoadOptions) (*Table, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("%w: %w", common.ErrSourceUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	t, report, err := Load(ctx, f, opts)
	if err != nil {
		return nil, report, err
	}
	t.Source = path
	return t, report, nil
}

// Load reads a comma-separated listings file. Rows that cannot be parsed are
// skipped and counted; only an unreadable source or a missing header column
// fails the load.
func Load(ctx context.Context, r io.Reader, opts LoadOptions) (*Table, LoadReport, error) {
	var report LoadReport
	limit := opts.MaxSamples
	if limit <= 0 {
		limit = DefaultMaxSamples
	}

	decoded, err := Decode(r, opts.Encoding)
	if err != nil {
		return nil, report, err
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, report, fmt.Errorf("%w: empty file", common.ErrSourceUnreadable)
	}
	if err != nil {
		return nil, report, fmt.Errorf("%w: reading header: %w", common.ErrSourceUnreadable, err)
	}
	h, err := parseHeader(first)
	if err != nil {
		return nil, report, err
	}
	width := len(first)

	t := &Table{}
	for {
		if report.Rows%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, report, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			report.Rows++
			report.malformed(&common.RowError{Line: parseErr.StartLine, Err: fmt.Errorf("%w: %w", common.ErrMalformedRow, parseErr.Err)}, limit)
			progress(opts, report.Rows)
			continue
		}
		if err != nil {
			return nil, report, fmt.Errorf("%w: %w", common.ErrSourceUnreadable, err)
		}

		report.Rows++
		line, _ := cr.FieldPos(0)

		if len(record) != width {
			report.malformed(&common.RowError{
				Line: line,
				Err:  fmt.Errorf("%w: %d fields, header has %d", common.ErrMalformedRow, len(record), width),
			}, limit)
			progress(opts, report.Rows)
			continue
		}

		listing, coerced, err := parseRow(h, record)
		if err != nil {
			report.malformed(&common.RowError{Line: line, Err: err}, limit)
			progress(opts, report.Rows)
			continue
		}
		if coerced {
			report.CoercedDates++
		}

		t.Listings = append(t.Listings, listing)
		report.Loaded++
		progress(opts, report.Rows)
	}

	return t, report, nil
}

func progress(opts LoadOptions, rows int) {
	if opts.Progress != nil {
		opts.Progress(rows)
	}
}

// parseRow converts one record. coerced reports an unparseable last_review
// that was loaded as null.
func parseRow(h header, record []string) (l model.Listing, coerced bool, err error) {
	p := rowParser{h: h, record: record}

	l.ID = p.int64(ColID, true)
	l.Name = p.text(ColName)
	l.HostID = p.int64(ColHostID, false)
	l.HostName = p.text(ColHostName)
	l.Borough = p.text(ColBorough)
	l.Neighbourhood = p.text(ColNeighbourhood)
	l.Latitude = p.coordinate(ColLatitude)
	l.Longitude = p.coordinate(ColLongitude)
	l.RoomType = model.RoomType(p.text(ColRoomType))
	l.Price = p.price()
	l.MinimumNights = p.int(ColMinimumNights)
	l.NumberOfReviews = p.int(ColNumberOfReviews)
	l.ReviewsPerMonth = p.optionalFloat(ColReviewsPerMonth)
	l.HostListingsCount = p.int(ColHostListingsCount)
	l.Availability365 = p.int(ColAvailability365)
	if p.err != nil {
		return model.Listing{}, false, p.err
	}

	l.LastReview, coerced = parseDate(p.text(ColLastReview))
	return l, coerced, nil
}

// rowParser keeps the first field error of a row.
type rowParser struct {
	err    error
	h      header
	record []string
}

func (p *rowParser) text(col string) string {
	return p.h.get(p.record, col)
}

func (p *rowParser) fail(col, raw string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s %q", common.ErrMalformedRow, col, raw)
	}
}

func (p *rowParser) int64(col string, required bool) int64 {
	raw := p.text(col)
	if raw == "" && !required {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(col, raw)
	}
	return v
}

func (p *rowParser) int(col string) int {
	raw := p.text(col)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Some exports write integer columns as floats ("3.0").
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != math.Trunc(f) {
			p.fail(col, raw)
			return 0
		}
		return int(f)
	}
	return v
}

// coordinate loads an empty field as NaN so cleaning can drop it.
func (p *rowParser) coordinate(col string) float64 {
	raw := p.text(col)
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(col, raw)
	}
	return v
}

func (p *rowParser) price() float64 {
	raw := p.text(ColPrice)
	cleaned := strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(ColPrice, raw)
	}
	return v
}

func (p *rowParser) optionalFloat(col string) *float64 {
	raw := p.text(col)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(col, raw)
		return nil
	}
	return &v
}

func parseDate(raw string) (date *time.Time, coerced bool) {
	if raw == "" {
		return nil, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return &d, false
		}
	}
	return nil, true
}
