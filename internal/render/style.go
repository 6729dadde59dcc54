package render

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Style controls how a frame is painted. Colors are hex strings ("#rrggbb").
type Style struct {
	Background string  `yaml:"background" json:"background"`
	Dynamic    string  `yaml:"dynamic" json:"dynamic"`
	Static     string  `yaml:"static" json:"static"`
	Outline    string  `yaml:"outline" json:"outline"`
	LineWidth  float64 `yaml:"line_width" json:"line_width"`
}

func DefaultStyle() Style {
	return Style{
		Background: "#000000",
		Dynamic:    "#ffffff",
		Static:     "#808080",
		Outline:    "",
		LineWidth:  2,
	}
}

type colors struct {
	background color.Color
	dynamic    color.Color
	static     color.Color
	outline    color.Color
}

// Validate reports the first color that does not parse.
func (s Style) Validate() error {
	_, err := s.colors()
	return err
}

func (s Style) colors() (colors, error) {
	var p colors
	var err error
	if p.background, err = parseColor("background", s.Background); err != nil {
		return p, err
	}
	if p.dynamic, err = parseColor("dynamic", s.Dynamic); err != nil {
		return p, err
	}
	if p.static, err = parseColor("static", s.Static); err != nil {
		return p, err
	}
	if s.Outline != "" {
		if p.outline, err = parseColor("outline", s.Outline); err != nil {
			return p, err
		}
	}
	if s.LineWidth < 0 {
		return p, fmt.Errorf("render: line width must be non-negative, got %v", s.LineWidth)
	}
	return p, nil
}

func parseColor(name, hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("render: %s color %q: %w", name, hex, err)
	}
	return c, nil
}
