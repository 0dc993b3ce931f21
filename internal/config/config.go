// Package config loads slider definitions from YAML with environment
// overrides and builds scrollables from them.
//
// Precedence, highest first: environment variables prefixed TIMESLIDER_,
// the YAML file, the file's defaults block, compiled defaults. Nested keys
// use a double underscore, e.g. TIMESLIDER_DEFAULTS__SCROLL_SPEED=2.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of recognized environment variables.
const EnvPrefix = "TIMESLIDER_"

// Compiled defaults.
const (
	DefaultOrientation = "down"
	DefaultScrollSpeed = 1.0
	DefaultItemWidth   = 150
	DefaultItemHeight  = 60
	DefaultItemsAround = 2
	DefaultFriction    = 0.015
	DefaultPPI         = 160.0
	DefaultRefreshHz   = 60
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// File is a parsed configuration document.
type File struct {
	LogLevel  string   `yaml:"log_level" koanf:"log_level"`
	LogFormat string   `yaml:"log_format" koanf:"log_format"`
	RefreshHz int      `yaml:"refresh_hz" koanf:"refresh_hz"`
	Defaults  Slider   `yaml:"defaults" koanf:"defaults"`
	Sliders   []Slider `yaml:"sliders,omitempty" koanf:"sliders"`
	Groups    []Group  `yaml:"groups,omitempty" koanf:"groups"`
}

// Slider configures one leaf scrollable.
type Slider struct {
	Name        string     `yaml:"name" koanf:"name"`
	Units       StringList `yaml:"units,omitempty" koanf:"units"`
	UnitNames   StringList `yaml:"unit_names,omitempty" koanf:"unit_names"`
	Formats     StringList `yaml:"formats,omitempty" koanf:"formats"`
	Orientation string     `yaml:"orientation" koanf:"orientation"`
	ScrollSpeed float64    `yaml:"scroll_speed" koanf:"scroll_speed"`
	ItemWidth   int        `yaml:"item_width" koanf:"item_width"`
	ItemHeight  int        `yaml:"item_height" koanf:"item_height"`
	ItemsBefore *int       `yaml:"items_before" koanf:"items_before"`
	ItemsAfter  *int       `yaml:"items_after" koanf:"items_after"`
	TimeZone    string     `yaml:"time_zone" koanf:"time_zone"`
	Locale      string     `yaml:"locale" koanf:"locale"`
	Friction    float64    `yaml:"friction" koanf:"friction"`
	PPI         float64    `yaml:"ppi" koanf:"ppi"`
}

// Group configures a composite. Members name sliders or groups declared
// earlier in the file.
type Group struct {
	Name     string   `yaml:"name" koanf:"name"`
	Members  []string `yaml:"members" koanf:"members"`
	TimeZone string   `yaml:"time_zone" koanf:"time_zone"`
	Locale   string   `yaml:"locale" koanf:"locale"`
}

// StringList accepts either a YAML sequence or a single string whose
// entries are separated by semicolons.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: expected string or list of strings", node.Line)
}

// Split returns the entries with semicolon-separated values expanded and
// blanks removed.
func (l StringList) Split() []string {
	var out []string
	for _, item := range l {
		for _, part := range strings.Split(item, ";") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// ErrNoSliders is returned when a file defines no sliders.
var ErrNoSliders = errors.New("no sliders defined")

// Load reads path, applies environment overrides and normalizes the result.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, applies environment overrides and
// normalizes the result. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	f, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(f); err != nil {
		return nil, err
	}
	f.Normalize()
	return f, nil
}

// Decode is Parse without environment overrides. Configurations stored
// with a recorded run are read back with it.
func Decode(data []byte) (*File, error) {
	f, err := decode(data)
	if err != nil {
		return nil, err
	}
	f.Normalize()
	return f, nil
}

// Marshal renders f as YAML that Decode accepts.
func (f *File) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return f, nil
}

// applyEnv overlays TIMESLIDER_* variables onto f.
func applyEnv(f *File) error {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return fmt.Errorf("load env vars: %w", err)
	}
	if err := k.Unmarshal("", f); err != nil {
		return fmt.Errorf("unmarshal env vars: %w", err)
	}
	return nil
}

// Normalize fills unset values: every slider inherits unset fields from the
// defaults block, which in turn falls back to the compiled defaults.
// Sliders without a name are named slider-<n>.
func (f *File) Normalize() {
	if f.LogLevel == "" {
		f.LogLevel = DefaultLogLevel
	}
	if f.LogFormat == "" {
		f.LogFormat = DefaultLogFormat
	}
	if f.RefreshHz <= 0 {
		f.RefreshHz = DefaultRefreshHz
	}
	f.Defaults = f.Defaults.inherit(compiled())
	for i := range f.Sliders {
		f.Sliders[i] = f.Sliders[i].inherit(f.Defaults)
		if f.Sliders[i].Name == "" {
			f.Sliders[i].Name = fmt.Sprintf("slider-%d", i+1)
		}
	}
}

func compiled() Slider {
	around := DefaultItemsAround
	return Slider{
		Units:       StringList{"second", "minute", "hour"},
		Orientation: DefaultOrientation,
		ScrollSpeed: DefaultScrollSpeed,
		ItemWidth:   DefaultItemWidth,
		ItemHeight:  DefaultItemHeight,
		ItemsBefore: &around,
		ItemsAfter:  &around,
		Friction:    DefaultFriction,
		PPI:         DefaultPPI,
	}
}

// inherit returns s with unset fields taken from base.
func (s Slider) inherit(base Slider) Slider {
	if len(s.Units.Split()) == 0 {
		s.Units = base.Units
	}
	if len(s.UnitNames.Split()) == 0 {
		s.UnitNames = base.UnitNames
	}
	if len(s.Formats.Split()) == 0 {
		s.Formats = base.Formats
	}
	if s.Orientation == "" {
		s.Orientation = base.Orientation
	}
	if s.ScrollSpeed <= 0 {
		s.ScrollSpeed = base.ScrollSpeed
	}
	if s.ItemWidth <= 0 {
		s.ItemWidth = base.ItemWidth
	}
	if s.ItemHeight <= 0 {
		s.ItemHeight = base.ItemHeight
	}
	if s.ItemsBefore == nil {
		s.ItemsBefore = base.ItemsBefore
	}
	if s.ItemsAfter == nil {
		s.ItemsAfter = base.ItemsAfter
	}
	if s.TimeZone == "" {
		s.TimeZone = base.TimeZone
	}
	if s.Locale == "" {
		s.Locale = base.Locale
	}
	if s.Friction <= 0 {
		s.Friction = base.Friction
	}
	if s.PPI <= 0 {
		s.PPI = base.PPI
	}
	return s
}

// Slider returns the slider definition with the given name.
func (f *File) Slider(name string) (Slider, bool) {
	for _, s := range f.Sliders {
		if s.Name == name {
			return s, true
		}
	}
	return Slider{}, false
}
