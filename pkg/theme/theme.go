// Package theme holds the immutable style and vocabulary configuration used
// by the layout, synthesis, and enrichment stages.
//
// All color tables, keyword sets, and lane orderings live here rather than as
// package-level globals in the components that consume them, so alternate
// palettes can be substituted for testing or loaded from a TOML file.
//
// # Usage
//
// Use the built-in defaults:
//
//	th := theme.Default()
//
// Or load a custom theme file:
//
//	th, err := theme.Load("corporate.toml")
package theme

import (
	"fmt"

	"github.com/BurntSushi/toml"

	apperrors "github.com/archgen/archgen/pkg/errors"
)

// Shape kinds a node type can resolve to.
const (
	ShapeRectangle = "rectangle"
	ShapeCylinder  = "cylinder"
	ShapeHexagon   = "hexagon"
)

// LaneColor is the color scheme for one architecture lane.
type LaneColor struct {
	Fill       string `toml:"fill"`       // header/swatch fill
	Stroke     string `toml:"stroke"`     // header/swatch stroke
	Background string `toml:"background"` // translucent lane stripe
}

// TypeStyle maps a node type to its rendering primitive and color pair.
type TypeStyle struct {
	Shape  string `toml:"shape"`
	Fill   string `toml:"fill"`
	Stroke string `toml:"stroke"`
	Dashed bool   `toml:"dashed,omitempty"`
}

// Theme is the full style and vocabulary configuration.
// A Theme is treated as immutable after construction; components receive it
// by pointer but never modify it.
type Theme struct {
	// DefaultLanes is the lane ordering substituted when a plan declares none.
	DefaultLanes []string `toml:"default_lanes"`

	// Lanes maps lane names to their color schemes. Unknown lanes fall back
	// to the External scheme.
	Lanes map[string]LaneColor `toml:"lanes"`

	// External is the fallback scheme for unknown lanes and external nodes.
	External LaneColor `toml:"external"`

	// Types maps node types to shape kind and colors. The "default" entry is
	// the fallback for unknown types.
	Types map[string]TypeStyle `toml:"types"`

	// ContainerKeywords demote nodes whose id or name tokens match into
	// groups during normalization (infrastructure container vocabulary).
	ContainerKeywords []string `toml:"container_keywords"`
}

// LaneColors returns the color scheme for a lane, falling back to the
// External scheme for unknown lane names.
func (t *Theme) LaneColors(lane string) LaneColor {
	if c, ok := t.Lanes[lane]; ok {
		return c
	}
	return t.External
}

// TypeStyle returns the style for a node type, falling back to the "default"
// entry for unknown types.
func (t *Theme) TypeStyle(nodeType string) TypeStyle {
	if s, ok := t.Types[nodeType]; ok {
		return s
	}
	return t.Types["default"]
}

// IsContainerKeyword reports whether a lowercased token belongs to the
// infrastructure container vocabulary.
func (t *Theme) IsContainerKeyword(token string) bool {
	for _, kw := range t.ContainerKeywords {
		if token == kw {
			return true
		}
	}
	return false
}

// Default returns the built-in theme: five architecture lanes with the
// standard palette, the full node-type table, and the container vocabulary.
func Default() *Theme {
	return &Theme{
		DefaultLanes: []string{
			"Experience",
			"Application",
			"Integration",
			"Data",
			"Platform & Security",
		},
		Lanes: map[string]LaneColor{
			"Experience":          {Fill: "#0a6ed1", Stroke: "#0858a8", Background: "#e8f4fd"},
			"Application":         {Fill: "#1a9898", Stroke: "#147a7a", Background: "#e6f5f5"},
			"Integration":         {Fill: "#f39c12", Stroke: "#c77d0e", Background: "#fef5e6"},
			"Data":                {Fill: "#6c5ce7", Stroke: "#5649b9", Background: "#f0eef9"},
			"Platform & Security": {Fill: "#2c3e50", Stroke: "#1a252f", Background: "#ebeff2"},
		},
		External: LaneColor{Fill: "#95a5a6", Stroke: "#7f8c8d", Background: "#f4f6f6"},
		Types: map[string]TypeStyle{
			"app":         {Shape: ShapeRectangle, Fill: "#4A90D9", Stroke: "#3A7AC9"},
			"service":     {Shape: ShapeRectangle, Fill: "#5AAA8D", Stroke: "#4A9A7D"},
			"integration": {Shape: ShapeRectangle, Fill: "#E5A84B", Stroke: "#D59A3B"},
			"process":     {Shape: ShapeRectangle, Fill: "#0A6ED1", Stroke: "#0858A8"},
			"input":       {Shape: ShapeRectangle, Fill: "#1A9898", Stroke: "#147A7A"},
			"output":      {Shape: ShapeRectangle, Fill: "#F39C12", Stroke: "#C77D0E"},
			"model":       {Shape: ShapeRectangle, Fill: "#9B59B6", Stroke: "#8E44AD"},
			"data":        {Shape: ShapeCylinder, Fill: "#7B68C8", Stroke: "#6B58B8"},
			"storage":     {Shape: ShapeCylinder, Fill: "#6C5CE7", Stroke: "#5649B9"},
			"security":    {Shape: ShapeHexagon, Fill: "#5C6B7A", Stroke: "#4C5B6A"},
			"network":     {Shape: ShapeHexagon, Fill: "#46627F", Stroke: "#3A5268"},
			"external":    {Shape: ShapeRectangle, Fill: "#8FA3B0", Stroke: "#7F939F", Dashed: true},
			"default":     {Shape: ShapeRectangle, Fill: "#95A5A6", Stroke: "#7F8C8D"},
		},
		ContainerKeywords: []string{
			"vpc", "subnet", "cluster", "network", "region",
			"zone", "namespace", "environment", "boundary", "perimeter",
		},
	}
}

// Load reads a theme from a TOML file. Fields absent from the file keep
// their default values, so partial themes (e.g. only a palette override)
// are valid.
func Load(path string) (*Theme, error) {
	t := Default()
	if _, err := toml.DecodeFile(path, t); err != nil {
		return nil, fmt.Errorf("load theme %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("load theme %s: %w", path, err)
	}
	return t, nil
}

func (t *Theme) validate() error {
	if len(t.DefaultLanes) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidTheme, "default_lanes must not be empty")
	}
	if _, ok := t.Types["default"]; !ok {
		return apperrors.New(apperrors.ErrCodeInvalidTheme, `types must contain a "default" entry`)
	}
	for name, ts := range t.Types {
		switch ts.Shape {
		case ShapeRectangle, ShapeCylinder, ShapeHexagon:
		default:
			return apperrors.New(apperrors.ErrCodeInvalidTheme, "type %q: unknown shape %q", name, ts.Shape)
		}
		for _, c := range []string{ts.Fill, ts.Stroke} {
			if err := apperrors.ValidateHexColor(c); err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidTheme, err, "type %q", name)
			}
		}
	}
	for name, lc := range t.Lanes {
		for _, c := range []string{lc.Fill, lc.Stroke, lc.Background} {
			if err := apperrors.ValidateHexColor(c); err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidTheme, err, "lane %q", name)
			}
		}
	}
	return nil
}
