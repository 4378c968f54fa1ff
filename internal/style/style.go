// Package style holds marker appearance settings and their JSON
// import/export transport.
package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style describes how replacement markers are rendered.
type Style struct {
	// Color is the foreground (module) color as "#RRGGBB".
	Color string `json:"color" yaml:"color" mapstructure:"color"`

	// BackgroundColor is the quiet-zone/background color as "#RRGGBB".
	BackgroundColor string `json:"backgroundColor" yaml:"background_color" mapstructure:"background_color"`

	// Size is the marker edge length in native units.
	Size float64 `json:"size" yaml:"size" mapstructure:"size"`
}

// Default returns the stock black-on-white style.
func Default() Style {
	return Style{Color: "#000000", BackgroundColor: "#FFFFFF", Size: 100}
}

// Validate checks shape only: parseable colors and a positive size.
func (s Style) Validate() error {
	if _, err := ParseHexColor(s.Color); err != nil {
		return &FormatError{Msg: fmt.Sprintf("color: %v", err)}
	}
	if _, err := ParseHexColor(s.BackgroundColor); err != nil {
		return &FormatError{Msg: fmt.Sprintf("backgroundColor: %v", err)}
	}
	if s.Size <= 0 {
		return &FormatError{Msg: fmt.Sprintf("size must be positive, got %v", s.Size)}
	}
	return nil
}

// Foreground returns the parsed module color.
func (s Style) Foreground() color.RGBA {
	c, _ := ParseHexColor(s.Color)
	return c
}

// Background returns the parsed background color.
func (s Style) Background() color.RGBA {
	c, _ := ParseHexColor(s.BackgroundColor)
	return c
}

// ParseHexColor parses "#RRGGBB" (case-insensitive, '#' optional).
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
