package tui

import (
	"github.com/Veraticus/bnb-insights/internal/query"
	"github.com/Veraticus/bnb-insights/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Stakeholder query.Stakeholder
	Dimension   query.Dimension
	Width       int
	Height      int
	PriceMin    float64
	PriceMax    float64
	PriceStep   float64
	ReviewStep  int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Stakeholder: query.Hosts,
		Dimension:   query.ByBorough,
		Width:       120,
		Height:      40,
		PriceMin:    0,
		PriceMax:    500,
		PriceStep:   25,
		ReviewStep:  5,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithPriceRange sets the initial price slider positions.
func WithPriceRange(lo, hi float64) Option {
	return func(c *Config) {
		c.PriceMin = lo
		c.PriceMax = hi
	}
}

// WithSteps sets how far one key press moves the price and review sliders.
func WithSteps(price float64, reviews int) Option {
	return func(c *Config) {
		if price > 0 {
			c.PriceStep = price
		}
		if reviews > 0 {
			c.ReviewStep = reviews
		}
	}
}

// WithStakeholder sets the initially selected stakeholder.
func WithStakeholder(s query.Stakeholder) Option {
	return func(c *Config) {
		c.Stakeholder = s
	}
}

// WithDimension sets the initial grouping.
func WithDimension(d query.Dimension) Option {
	return func(c *Config) {
		c.Dimension = d
	}
}
