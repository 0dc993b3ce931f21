package config

import (
	"fmt"
	"log/slog"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/cycle"
	"github.com/roach88/timeslider/internal/format"
	"github.com/roach88/timeslider/internal/scroll"
	"github.com/roach88/timeslider/internal/scrollable"
)

// Build creates the slider described by s, starting at start. Unknown unit
// names and orientations fall back to their defaults with a warning; an
// unknown time zone or locale is an error.
func (s Slider) Build(start calendar.Instant, logger *slog.Logger) (*scrollable.Slider, error) {
	zone, err := format.LoadZone(s.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("slider %s: %w", s.Name, err)
	}
	tag, err := format.ParseLocale(s.Locale)
	if err != nil {
		return nil, fmt.Errorf("slider %s: %w", s.Name, err)
	}

	units := s.Units.Split()
	for _, u := range units {
		if _, ok := calendar.Lookup(u); !ok {
			logger.Warn("unknown unit, using millisecond", "slider", s.Name, "unit", u)
		}
	}
	orientation, ok := scroll.ParseOrientation(s.Orientation)
	if !ok && s.Orientation != "" {
		logger.Warn("unknown orientation, using down", "slider", s.Name, "orientation", s.Orientation)
	}

	before, after := DefaultItemsAround, DefaultItemsAround
	if s.ItemsBefore != nil {
		before = *s.ItemsBefore
	}
	if s.ItemsAfter != nil {
		after = *s.ItemsAfter
	}

	return scrollable.NewSlider(s.Name,
		scrollable.WithLogger(logger),
		scrollable.WithTime(start),
		scrollable.WithCycle(cycle.Build(units, s.UnitNames.Split(), s.Formats.Split())),
		scrollable.WithScroll(scroll.Config{
			Orientation: orientation,
			Speed:       s.ScrollSpeed,
			ItemWidth:   s.ItemWidth,
			ItemHeight:  s.ItemHeight,
			Friction:    s.Friction,
			PPI:         s.PPI,
		}),
		scrollable.WithItems(before, after),
		scrollable.WithZone(zone),
		scrollable.WithLocale(tag),
	), nil
}

// Tree is the set of scrollables built from a File.
type Tree struct {
	Sliders map[string]*scrollable.Slider
	Groups  map[string]*scrollable.Composite
	// Roots are the top-level scrollables in declaration order: every
	// group and slider that is not a member of a group.
	Roots []scrollable.TimeScrollable
}

// Lookup returns the slider or group with the given name.
func (t *Tree) Lookup(name string) (scrollable.TimeScrollable, bool) {
	if s, ok := t.Sliders[name]; ok {
		return s, true
	}
	if g, ok := t.Groups[name]; ok {
		return g, true
	}
	return nil, false
}

// Assemble builds all sliders and groups of f, every slider starting at
// start.
func (f *File) Assemble(start calendar.Instant, logger *slog.Logger) (*Tree, error) {
	if len(f.Sliders) == 0 {
		return nil, ErrNoSliders
	}
	t := &Tree{
		Sliders: make(map[string]*scrollable.Slider, len(f.Sliders)),
		Groups:  make(map[string]*scrollable.Composite, len(f.Groups)),
	}
	var order []string
	for _, sc := range f.Sliders {
		if _, dup := t.Sliders[sc.Name]; dup {
			return nil, fmt.Errorf("duplicate slider name %q", sc.Name)
		}
		s, err := sc.Build(start, logger)
		if err != nil {
			return nil, err
		}
		t.Sliders[sc.Name] = s
		order = append(order, sc.Name)
	}

	member := make(map[string]bool)
	for _, gc := range f.Groups {
		if _, dup := t.Lookup(gc.Name); dup {
			return nil, fmt.Errorf("duplicate name %q", gc.Name)
		}
		zone, err := format.LoadZone(gc.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", gc.Name, err)
		}
		tag, err := format.ParseLocale(gc.Locale)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", gc.Name, err)
		}
		c := scrollable.NewComposite(gc.Name,
			scrollable.WithCompositeLogger(logger),
			scrollable.WithCompositeZone(zone),
			scrollable.WithCompositeLocale(tag),
		)
		for _, m := range gc.Members {
			child, ok := t.Lookup(m)
			if !ok {
				return nil, fmt.Errorf("group %s: unknown member %q", gc.Name, m)
			}
			if member[m] {
				return nil, fmt.Errorf("group %s: %q is already a member of another group", gc.Name, m)
			}
			member[m] = true
			c.Attach(child)
		}
		t.Groups[gc.Name] = c
		order = append(order, gc.Name)
	}

	for _, name := range order {
		if !member[name] {
			root, _ := t.Lookup(name)
			t.Roots = append(t.Roots, root)
		}
	}
	return t, nil
}
