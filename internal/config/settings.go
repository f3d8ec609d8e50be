package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/bnb-insights/internal/clean"
	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/dataset"
	"github.com/Veraticus/bnb-insights/internal/geo"
)

// Settings is the validated application configuration.
type Settings struct {
	AsOf           *time.Time
	Source         string
	Encoding       string
	HostBounds     []int
	ActivityBounds []int
	DistanceBounds []float64
	Logging        common.LogOptions
	History        HistorySettings
	Dashboard      DashboardSettings
	Clean          clean.Options
	Reference      geo.Point
}

// HistorySettings controls the run audit database.
type HistorySettings struct {
	Path    string
	Keep    int
	Enabled bool
}

// DashboardSettings holds the initial dashboard filter and control steps.
type DashboardSettings struct {
	PriceMin   float64
	PriceMax   float64
	PriceStep  float64
	ReviewStep int
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "AB_NYC_2019.csv")
	v.SetDefault("data.encoding", "")

	v.SetDefault("clean.price_percentile", clean.DefaultPricePercentile)
	v.SetDefault("clean.drop_zero_price", true)

	v.SetDefault("features.reference.lat", geo.TimesSquare.Lat)
	v.SetDefault("features.reference.lon", geo.TimesSquare.Lon)
	v.SetDefault("features.as_of", "")
	v.SetDefault("features.host_bounds", []string{})
	v.SetDefault("features.activity_bounds", []string{})
	v.SetDefault("features.distance_bounds", []string{})

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", filepath.Join(DataDir(), "history.db"))
	v.SetDefault("history.keep", 100)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)

	v.SetDefault("dashboard.price_min", 0)
	v.SetDefault("dashboard.price_max", 500)
	v.SetDefault("dashboard.price_step", 25)
	v.SetDefault("dashboard.review_step", 5)
}

// Load reads and validates the settings from v. Defaults must already be
// registered with SetDefaults.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Source:   ExpandPath(v.GetString("data.path")),
		Encoding: v.GetString("data.encoding"),
		Clean: clean.Options{
			PricePercentile: v.GetFloat64("clean.price_percentile"),
			DropZeroPrice:   v.GetBool("clean.drop_zero_price"),
		},
		Reference: geo.Point{
			Lat: v.GetFloat64("features.reference.lat"),
			Lon: v.GetFloat64("features.reference.lon"),
		},
		History: HistorySettings{
			Enabled: v.GetBool("history.enabled"),
			Path:    ExpandPath(v.GetString("history.path")),
			Keep:    v.GetInt("history.keep"),
		},
		Logging: common.LogOptions{
			Level:      v.GetString("logging.level"),
			Format:     v.GetString("logging.format"),
			File:       ExpandPath(v.GetString("logging.file")),
			MaxSizeMB:  v.GetInt("logging.max_size_mb"),
			MaxBackups: v.GetInt("logging.max_backups"),
		},
		Dashboard: DashboardSettings{
			PriceMin:   v.GetFloat64("dashboard.price_min"),
			PriceMax:   v.GetFloat64("dashboard.price_max"),
			PriceStep:  v.GetFloat64("dashboard.price_step"),
			ReviewStep: v.GetInt("dashboard.review_step"),
		},
	}

	var err error
	if s.AsOf, err = parseAsOf(v.GetString("features.as_of")); err != nil {
		return nil, err
	}
	if s.HostBounds, err = intList(v, "features.host_bounds"); err != nil {
		return nil, err
	}
	if s.ActivityBounds, err = intList(v, "features.activity_bounds"); err != nil {
		return nil, err
	}
	if s.DistanceBounds, err = floatList(v, "features.distance_bounds"); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks value ranges. Threshold lists are checked when the
// classifiers are built.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Source) == "" {
		return fmt.Errorf("%w: data.path", common.ErrMissingConfig)
	}
	if _, err := dataset.Decode(strings.NewReader(""), s.Encoding); err != nil {
		return fmt.Errorf("data.encoding: %w", err)
	}
	if _, err := clean.New(s.Clean); err != nil {
		return err
	}
	if err := s.Reference.Validate(); err != nil {
		return fmt.Errorf("%w: features.reference: %w", common.ErrInvalidConfig, err)
	}
	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		return err
	}
	if s.History.Enabled && strings.TrimSpace(s.History.Path) == "" {
		return fmt.Errorf("%w: history.path", common.ErrMissingConfig)
	}
	if s.History.Keep < 0 {
		return fmt.Errorf("%w: history.keep must not be negative", common.ErrInvalidConfig)
	}
	d := s.Dashboard
	if d.PriceMin < 0 || d.PriceMax < d.PriceMin || math.IsNaN(d.PriceMax) {
		return fmt.Errorf("%w: dashboard price range %v-%v", common.ErrInvalidConfig, d.PriceMin, d.PriceMax)
	}
	if d.PriceStep <= 0 || d.ReviewStep <= 0 {
		return fmt.Errorf("%w: dashboard steps must be positive", common.ErrInvalidConfig)
	}
	return nil
}

func parseAsOf(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: features.as_of %q is not YYYY-MM-DD", common.ErrInvalidConfig, raw)
	}
	return &t, nil
}

// listItems accepts a YAML list or a comma or space separated string, as set
// through the environment.
func listItems(v *viper.Viper, key string) []string {
	var items []string
	for _, s := range v.GetStringSlice(key) {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	}
	return items
}

func intList(v *viper.Viper, key string) ([]int, error) {
	items := listItems(v, key)
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %s item %q is not an integer", common.ErrInvalidConfig, key, item)
		}
		out[i] = n
	}
	return out, nil
}

func floatList(v *viper.Viper, key string) ([]float64, error) {
	items := listItems(v, key)
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s item %q is not a number", common.ErrInvalidConfig, key, item)
		}
		out[i] = f
	}
	return out, nil
}
