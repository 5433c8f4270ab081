package model

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// StampType distinguishes the two stamp families the service renders.
type StampType string

const (
	StampTypeHospital StampType = "hospital"
	StampTypeDoctor   StampType = "doctor"
)

// ParseStampType converts the loosely-typed API value into a StampType.
func ParseStampType(s string) (StampType, error) {
	switch StampType(strings.ToLower(strings.TrimSpace(s))) {
	case StampTypeHospital:
		return StampTypeHospital, nil
	case StampTypeDoctor:
		return StampTypeDoctor, nil
	default:
		return "", fmt.Errorf("unknown stamp type %q", s)
	}
}

// StampStyle selects the overall look of a hospital stamp.
type StampStyle string

const (
	StyleClassic   StampStyle = "classic"
	StyleModern    StampStyle = "modern"
	StyleOfficial  StampStyle = "official"
	StyleEmergency StampStyle = "emergency"
)

// ParseStampStyle converts an API string into a StampStyle.
func ParseStampStyle(s string) (StampStyle, error) {
	if s == "" {
		return StyleClassic, nil
	}
	switch StampStyle(strings.ToLower(strings.TrimSpace(s))) {
	case StyleClassic, StyleModern, StyleOfficial, StyleEmergency:
		return StampStyle(strings.ToLower(strings.TrimSpace(s))), nil
	default:
		return "", fmt.Errorf("unknown stamp style %q", s)
	}
}

// BorderStyle selects how many rings a circular stamp border carries.
type BorderStyle string

const (
	BorderSingle BorderStyle = "single"
	BorderDouble BorderStyle = "double"
	BorderTriple BorderStyle = "triple"
)

// ParseBorderStyle converts an API string into a BorderStyle.
func ParseBorderStyle(s string) (BorderStyle, error) {
	if s == "" {
		return BorderDouble, nil
	}
	switch BorderStyle(strings.ToLower(strings.TrimSpace(s))) {
	case BorderSingle, BorderDouble, BorderTriple:
		return BorderStyle(strings.ToLower(strings.TrimSpace(s))), nil
	default:
		return "", fmt.Errorf("unknown border style %q", s)
	}
}

// StampColor is the closed set of ink colors.
type StampColor string

const (
	ColorBlue   StampColor = "blue"
	ColorRed    StampColor = "red"
	ColorGreen  StampColor = "green"
	ColorBlack  StampColor = "black"
	ColorNavy   StampColor = "navy"
	ColorMaroon StampColor = "maroon"
)

// ParseStampColor converts an API string into a StampColor.
func ParseStampColor(s string) (StampColor, error) {
	if s == "" {
		return ColorBlue, nil
	}
	switch StampColor(strings.ToLower(strings.TrimSpace(s))) {
	case ColorBlue, ColorRed, ColorGreen, ColorBlack, ColorNavy, ColorMaroon:
		return StampColor(strings.ToLower(strings.TrimSpace(s))), nil
	default:
		return "", fmt.Errorf("unknown stamp color %q", s)
	}
}

// GenerationParams records the inputs a stamp asset was rendered from.
// They travel with exported configs so an import can regenerate assets.
type GenerationParams struct {
	Type         StampType   `json:"type"`
	HospitalName string      `json:"hospital_name,omitempty"`
	DoctorName   string      `json:"doctor_name,omitempty"`
	Degree       string      `json:"degree,omitempty"`
	Registration string      `json:"registration,omitempty"`
	Size         int         `json:"size,omitempty"`
	Width        int         `json:"width,omitempty"`
	Height       int         `json:"height,omitempty"`
	FontSize     int         `json:"font_size,omitempty"`
	Style        StampStyle  `json:"style,omitempty"`
	Color        StampColor  `json:"color,omitempty"`
	BorderStyle  BorderStyle `json:"border_style,omitempty"`
	IncludeDate  bool        `json:"include_date,omitempty"`
	IncludeLogo  bool        `json:"include_logo,omitempty"`
}

// StampAsset is an immutable rendered stamp raster plus the parameters that
// produced it. Never mutated after creation.
type StampAsset struct {
	Type   StampType
	Image  *image.NRGBA
	PNG    []byte
	Params GenerationParams
}

// Placement limits, in pixels. Resizes clamp into this range.
const (
	MinPlacementDim = 50
	MaxPlacementDim = 800
)

// StampPlacement is a positioned stamp instance on one page of one document.
// Position is normalized [0,1] and stamp-center-relative.
type StampPlacement struct {
	ID       string    `json:"stamp_id"`
	Type     StampType `json:"stamp_type"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Rotation float64   `json:"rotation"`
	Opacity  float64   `json:"opacity"`
	ZIndex   int       `json:"z_index"`
}

// ClampPosition forces x,y into [0,1].
func (p *StampPlacement) ClampPosition(x, y float64) {
	p.X = clampFloat(x, 0, 1)
	p.Y = clampFloat(y, 0, 1)
}

// ClampSize forces width and height into the placement pixel range.
func (p *StampPlacement) ClampSize(w, h int) {
	p.Width = clampInt(w, MinPlacementDim, MaxPlacementDim)
	p.Height = clampInt(h, MinPlacementDim, MaxPlacementDim)
}

// SetRotation normalizes the angle to [0,360).
func (p *StampPlacement) SetRotation(deg float64) {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	p.Rotation = deg
}

// SetOpacity forces opacity into [0,1].
func (p *StampPlacement) SetOpacity(v float64) {
	p.Opacity = clampFloat(v, 0, 1)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
