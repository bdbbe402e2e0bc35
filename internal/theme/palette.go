package theme

import "sort"

// palette maps named colors to hex values.
var palette = map[string]string{
	"green":             "#73bf69",
	"dark-green":        "#37872d",
	"semi-dark-green":   "#56a64b",
	"light-green":       "#96d98d",
	"super-light-green": "#c8f2c2",

	"red":             "#f2495c",
	"dark-red":        "#c4162a",
	"semi-dark-red":   "#e02f44",
	"light-red":       "#ff7383",
	"super-light-red": "#ffa6b0",

	"orange":             "#ff9830",
	"dark-orange":        "#fa6400",
	"semi-dark-orange":   "#ff780a",
	"light-orange":       "#ffb357",
	"super-light-orange": "#ffcb7d",

	"yellow":             "#fade2a",
	"dark-yellow":        "#e0b400",
	"semi-dark-yellow":   "#f2cc0c",
	"light-yellow":       "#ffee52",
	"super-light-yellow": "#fff899",

	"blue":             "#5794f2",
	"dark-blue":        "#1f60c4",
	"semi-dark-blue":   "#3274d9",
	"light-blue":       "#8ab8ff",
	"super-light-blue": "#c0d8ff",

	"purple":             "#b877d9",
	"dark-purple":        "#8f3bb8",
	"semi-dark-purple":   "#a352cc",
	"light-purple":       "#ca95e5",
	"super-light-purple": "#deb6f2",

	"white": "#ffffff",
	"black": "#000000",
}

// ramps are the continuous color schemes, listed from the low end to the high end.
var ramps = map[string][]string{
	"GrYlRd":  {"#73bf69", "#fade2a", "#f2495c"},
	"RdYlGr":  {"#f2495c", "#fade2a", "#73bf69"},
	"BlYlRd":  {"#5794f2", "#fade2a", "#f2495c"},
	"YlRd":    {"#fade2a", "#f2495c"},
	"BlPu":    {"#5794f2", "#b877d9"},
	"YlBl":    {"#fade2a", "#5794f2"},
	"blues":   {"#c0d8ff", "#5794f2", "#1f60c4"},
	"reds":    {"#ffa6b0", "#f2495c", "#c4162a"},
	"greens":  {"#c8f2c2", "#73bf69", "#37872d"},
	"purples": {"#deb6f2", "#b877d9", "#8f3bb8"},
	"viridis": {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
}

// Ramp returns a copy of the named continuous scheme, or nil when unknown.
func (t *Theme) Ramp(scheme string) []string {
	r, ok := ramps[scheme]
	if !ok {
		return nil
	}
	out := make([]string, len(r))
	copy(out, r)
	return out
}

// Schemes lists the known continuous scheme names.
func Schemes() []string {
	names := make([]string, 0, len(ramps))
	for name := range ramps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PaletteColor returns the classic palette color for a series index.
func PaletteColor(index int) string {
	classic := []string{"green", "yellow", "blue", "orange", "red", "purple"}
	if index < 0 {
		index = -index
	}
	return palette[classic[index%len(classic)]]
}
