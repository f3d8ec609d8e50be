// Package tui implements the interactive listings dashboard.
package tui

import (
	"math"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/query"
	"github.com/Veraticus/bnb-insights/internal/tui/themes"
)

// controlKind identifies one row of the control panel.
type controlKind int

const (
	controlStakeholder controlKind = iota
	controlDimension
	controlPriceMin
	controlPriceMax
	controlMinReviews
	controlBorough
	controlRoomType
)

type control struct {
	value string // borough or room type for toggles
	kind  controlKind
}

// Model holds the dashboard state. Every change to a control recomputes the
// selection from the base table.
type Model struct {
	theme         themes.Theme
	err           error
	boroughs      map[string]bool
	roomTypes     map[string]bool
	help          help.Model
	config        Config
	keymap        KeyMap
	base          []model.Listing
	selection     []model.Listing
	controls      []control
	insight       query.Insight
	summary       query.Summary
	overview      query.Overview
	priceMin      float64
	priceMax      float64
	priceCeiling  float64
	minReviews    int
	reviewCeiling int
	stakeholder   int
	dimension     int
	focus         int
	width         int
	height        int
	quitting      bool
}

// NewModel builds a dashboard over base. Base is never modified.
func NewModel(base []model.Listing, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.PriceStep <= 0 {
		cfg.PriceStep = defaultConfig().PriceStep
	}
	if cfg.ReviewStep <= 0 {
		cfg.ReviewStep = defaultConfig().ReviewStep
	}

	m := Model{
		config:    cfg,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		base:      base,
		boroughs:  make(map[string]bool),
		roomTypes: make(map[string]bool),
		width:     cfg.Width,
		height:    cfg.Height,
	}
	m.help.Width = cfg.Width

	m.controls = []control{
		{kind: controlStakeholder},
		{kind: controlDimension},
		{kind: controlPriceMin},
		{kind: controlPriceMax},
		{kind: controlMinReviews},
	}
	boroughs, roomTypes := query.Distinct(base)
	for _, b := range boroughs {
		m.controls = append(m.controls, control{kind: controlBorough, value: b})
	}
	for _, rt := range roomTypes {
		m.controls = append(m.controls, control{kind: controlRoomType, value: rt})
	}

	var maxPrice float64
	for i := range base {
		maxPrice = max(maxPrice, base[i].Price)
		m.reviewCeiling = max(m.reviewCeiling, base[i].NumberOfReviews)
	}
	m.priceCeiling = max(math.Ceil(maxPrice/cfg.PriceStep)*cfg.PriceStep, cfg.PriceMax)

	m.reset()
	return m
}

// reset restores every filter to its initial position.
func (m *Model) reset() {
	m.priceMin = clamp(m.config.PriceMin, 0, m.priceCeiling)
	m.priceMax = clamp(m.config.PriceMax, m.priceMin, m.priceCeiling)
	m.minReviews = 0
	m.stakeholder = indexOf(query.Stakeholders, m.config.Stakeholder)
	m.dimension = indexOf(query.Dimensions, m.config.Dimension)
	for _, c := range m.controls {
		switch c.kind {
		case controlBorough:
			m.boroughs[c.value] = true
		case controlRoomType:
			m.roomTypes[c.value] = true
		}
	}
	m.recompute()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.Up):
		m.focus = max(m.focus-1, 0)
		return m, nil
	case key.Matches(msg, m.keymap.Down):
		m.focus = min(m.focus+1, len(m.controls)-1)
		return m, nil
	case key.Matches(msg, m.keymap.Decrease):
		m.adjust(-1)
	case key.Matches(msg, m.keymap.Increase):
		m.adjust(1)
	case key.Matches(msg, m.keymap.Toggle):
		m.toggle()
	case key.Matches(msg, m.keymap.NextStakeholder):
		m.stakeholder = cycle(m.stakeholder, 1, len(query.Stakeholders))
	case key.Matches(msg, m.keymap.NextDimension):
		m.dimension = cycle(m.dimension, 1, len(query.Dimensions))
	case key.Matches(msg, m.keymap.Reset):
		m.reset()
		return m, nil
	case key.Matches(msg, m.keymap.SelectAllFocused):
		m.selectAllInGroup()
	default:
		return m, nil
	}

	m.recompute()
	return m, nil
}

// adjust moves the focused control one step in dir.
func (m *Model) adjust(dir int) {
	c := m.controls[m.focus]
	switch c.kind {
	case controlStakeholder:
		m.stakeholder = cycle(m.stakeholder, dir, len(query.Stakeholders))
	case controlDimension:
		m.dimension = cycle(m.dimension, dir, len(query.Dimensions))
	case controlPriceMin:
		m.priceMin = clamp(m.priceMin+float64(dir)*m.config.PriceStep, 0, m.priceMax)
	case controlPriceMax:
		m.priceMax = clamp(m.priceMax+float64(dir)*m.config.PriceStep, m.priceMin, m.priceCeiling)
	case controlMinReviews:
		m.minReviews = min(max(m.minReviews+dir*m.config.ReviewStep, 0), m.reviewCeiling)
	case controlBorough, controlRoomType:
		m.toggle()
	}
}

func (m *Model) toggle() {
	c := m.controls[m.focus]
	switch c.kind {
	case controlBorough:
		m.boroughs[c.value] = !m.boroughs[c.value]
	case controlRoomType:
		m.roomTypes[c.value] = !m.roomTypes[c.value]
	case controlStakeholder:
		m.stakeholder = cycle(m.stakeholder, 1, len(query.Stakeholders))
	case controlDimension:
		m.dimension = cycle(m.dimension, 1, len(query.Dimensions))
	}
}

func (m *Model) selectAllInGroup() {
	switch m.controls[m.focus].kind {
	case controlBorough:
		for k := range m.boroughs {
			m.boroughs[k] = true
		}
	case controlRoomType:
		for k := range m.roomTypes {
			m.roomTypes[k] = true
		}
	}
}

// Filter returns the filter the controls describe. None reports that a
// multi-select has nothing checked, which matches no listing.
func (m Model) Filter() (spec query.FilterSpec, none bool) {
	lo, hi, reviews := m.priceMin, m.priceMax, m.minReviews
	spec = query.FilterSpec{
		PriceMin:   &lo,
		PriceMax:   &hi,
		MinReviews: &reviews,
		Boroughs:   []string{},
		RoomTypes:  []string{},
	}
	for _, c := range m.controls {
		switch {
		case c.kind == controlBorough && m.boroughs[c.value]:
			spec.Boroughs = append(spec.Boroughs, c.value)
		case c.kind == controlRoomType && m.roomTypes[c.value]:
			spec.RoomTypes = append(spec.RoomTypes, c.value)
		}
	}
	return spec, len(spec.Boroughs) == 0 || len(spec.RoomTypes) == 0
}

// recompute derives every figure from the base table and the controls.
func (m *Model) recompute() {
	spec, none := m.Filter()
	m.err = nil
	if none {
		m.selection = nil
	} else {
		m.selection, m.err = query.ValidateAndApply(m.base, spec)
	}

	m.overview = query.NewOverview(m.selection)

	summary, err := query.Summarize(m.selection, m.Dimension())
	if err != nil && m.err == nil {
		m.err = err
	}
	m.summary = summary

	insight, err := query.Insights(m.selection, m.Stakeholder())
	if err != nil && m.err == nil {
		m.err = err
	}
	m.insight = insight
}

// Selection returns the listings matching the current controls.
func (m Model) Selection() []model.Listing {
	return m.selection
}

// Stakeholder returns the selected audience.
func (m Model) Stakeholder() query.Stakeholder {
	return query.Stakeholders[m.stakeholder]
}

// Dimension returns the selected grouping.
func (m Model) Dimension() query.Dimension {
	return query.Dimensions[m.dimension]
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func cycle(i, dir, n int) int {
	return ((i+dir)%n + n) % n
}

func indexOf[T comparable](values []T, v T) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return 0
}
