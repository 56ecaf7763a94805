package util

import "github.com/fatih/color"

var colorsOptions = map[string]color.Attribute{
	"red":       color.FgHiRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"underline": color.Underline,
	"bold":      color.Bold,
	"faint":     color.Faint,
}

// Tone names the role a piece of terminal output plays.
type Tone string

const (
	ToneSuccess  Tone = "success"
	ToneError    Tone = "error"
	ToneWarning  Tone = "warning"
	ToneMuted    Tone = "muted"
	ToneEmphasis Tone = "emphasis"
)

var tones = map[Tone][]string{
	ToneSuccess:  {"green"},
	ToneError:    {"red", "bold"},
	ToneWarning:  {"yellow"},
	ToneMuted:    {"faint"},
	ToneEmphasis: {"bold"},
}

// ColorOutput applies the named attributes to text. Unknown names are
// ignored; nothing is applied when the output is not a terminal.
func ColorOutput(text string, colorOptions ...string) string {
	attributes := []color.Attribute{}
	for _, option := range colorOptions {
		if o, ok := colorsOptions[option]; ok {
			attributes = append(attributes, o)
		}
	}
	return color.New(attributes...).Sprint(text)
}

func Tint(text string, tone Tone) string {
	return ColorOutput(text, tones[tone]...)
}
