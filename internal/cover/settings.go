package cover

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidSettings wraps every settings validation failure.
var ErrInvalidSettings = errors.New("cover: invalid settings")

const (
	ModeGrid  = "grid"
	ModeSolid = "solid"

	// RandomAccent derives the accent color from the seed.
	RandomAccent = "random"

	// MaxFontSize is the largest accepted fontSize, and so bounds every
	// size tried while fitting the author.
	MaxFontSize = 256
)

// Settings controls how covers are drawn. Field names follow the option
// keys accepted in JSON and key=value overrides.
type Settings struct {
	Mode          string `json:"mode"`
	TitleFont     string `json:"titleFont"`
	AuthorFont    string `json:"authorFont"`
	FontSize      int    `json:"fontSize"`
	MinFontSize   int    `json:"minFontSize"`
	MaxLines      int    `json:"maxLines"`
	Size          int    `json:"size"`
	WrapWidth     int    `json:"wrapWidth"`
	TopPadding    int    `json:"topPadding"`
	BottomPadding int    `json:"bottomPadding"`
	TextAlign     Align  `json:"textAlign"`

	// Saturation is on a 0-100 scale, Lightness (HSB value) on 0-255.
	Saturation int `json:"saturation"`
	Lightness  int `json:"lightness"`

	TitleFillColor    string `json:"titleFillColor"`
	TitleBorderColor  string `json:"titleBorderColor"`
	AuthorFillColor   string `json:"authorFillColor"`
	AuthorBorderColor string `json:"authorBorderColor"`
	BaseColor         string `json:"baseColor"`
	AccentColor       string `json:"accentColor"`
}

func DefaultSettings() Settings {
	return Settings{
		Mode:              ModeGrid,
		TitleFont:         "DroidSerif-Bold.ttf",
		AuthorFont:        "DroidSerif-Bold.ttf",
		FontSize:          7,
		MinFontSize:       5,
		MaxLines:          5,
		Size:              84,
		WrapWidth:         80,
		TopPadding:        19,
		BottomPadding:     3,
		TextAlign:         AlignCenter,
		Saturation:        80,
		Lightness:         220,
		TitleFillColor:    "black",
		TitleBorderColor:  "none",
		AuthorFillColor:   "white",
		AuthorBorderColor: "black",
		BaseColor:         "white",
		AccentColor:       RandomAccent,
	}
}

// Merge decodes a JSON object of overrides on top of s. Keys that are not
// settings are rejected.
func (s Settings) Merge(overrides []byte) (Settings, error) {
	if len(bytes.TrimSpace(overrides)) == 0 {
		return s, nil
	}
	out := s
	dec := json.NewDecoder(bytes.NewReader(overrides))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return out, nil
}

func (s *Settings) intFields() map[string]*int {
	return map[string]*int{
		"fontSize":      &s.FontSize,
		"minFontSize":   &s.MinFontSize,
		"maxLines":      &s.MaxLines,
		"size":          &s.Size,
		"wrapWidth":     &s.WrapWidth,
		"topPadding":    &s.TopPadding,
		"bottomPadding": &s.BottomPadding,
		"saturation":    &s.Saturation,
		"lightness":     &s.Lightness,
	}
}

func (s *Settings) stringFields() map[string]*string {
	return map[string]*string{
		"mode":              &s.Mode,
		"titleFont":         &s.TitleFont,
		"authorFont":        &s.AuthorFont,
		"titleFillColor":    &s.TitleFillColor,
		"titleBorderColor":  &s.TitleBorderColor,
		"authorFillColor":   &s.AuthorFillColor,
		"authorBorderColor": &s.AuthorBorderColor,
		"baseColor":         &s.BaseColor,
		"accentColor":       &s.AccentColor,
	}
}

// Keys lists every setting name accepted by ApplyOverrides.
func Keys() []string {
	var s Settings
	keys := []string{"textAlign"}
	for k := range s.intFields() {
		keys = append(keys, k)
	}
	for k := range s.stringFields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether name is a setting name.
func IsKey(name string) bool {
	var s Settings
	if name == "textAlign" {
		return true
	}
	if _, ok := s.intFields()[name]; ok {
		return true
	}
	_, ok := s.stringFields()[name]
	return ok
}

// ApplyOverrides sets settings from string values, as given on the command
// line or in a query string.
func (s Settings) ApplyOverrides(values map[string]string) (Settings, error) {
	out := s
	ints := out.intFields()
	strs := out.stringFields()
	for key, raw := range values {
		if key == "textAlign" {
			out.TextAlign = Align(raw)
			continue
		}
		if p, ok := strs[key]; ok {
			*p = raw
			continue
		}
		p, ok := ints[key]
		if !ok {
			return s, fmt.Errorf("%w: unknown setting %q", ErrInvalidSettings, key)
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return s, fmt.Errorf("%w: %s must be an integer (got %q)", ErrInvalidSettings, key, raw)
		}
		*p = n
	}
	return out, nil
}

// Validate checks the settings that would otherwise make layout loop or
// produce nonsense. The canvas size is checked when the canvas is created.
func (s Settings) Validate() error {
	var problems []string
	switch strings.ToLower(s.Mode) {
	case ModeGrid, ModeSolid:
	default:
		problems = append(problems, fmt.Sprintf("mode must be %q or %q", ModeGrid, ModeSolid))
	}
	switch s.TextAlign {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		problems = append(problems, "textAlign must be left, center or right")
	}
	if s.MaxLines < 1 {
		problems = append(problems, "maxLines must be at least 1")
	}
	if s.MinFontSize < 1 {
		problems = append(problems, "minFontSize must be at least 1")
	}
	if s.FontSize > MaxFontSize {
		problems = append(problems, fmt.Sprintf("fontSize must be at most %d", MaxFontSize))
	}
	if s.FontSize < s.MinFontSize {
		problems = append(problems, "fontSize must not be below minFontSize")
	}
	if s.Saturation < 0 || s.Saturation > 100 {
		problems = append(problems, "saturation must be within 0..100")
	}
	if s.Lightness < 0 || s.Lightness > 255 {
		problems = append(problems, "lightness must be within 0..255")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

func (s Settings) mode() string {
	if strings.EqualFold(s.Mode, ModeSolid) {
		return ModeSolid
	}
	return ModeGrid
}
