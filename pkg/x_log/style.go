package x_log

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

//
// ---------- Palette ----------

const (
	ColorTeal40    = "#3ddbd9"
	ColorBlue60    = "#4589ff"
	ColorBlue40    = "#78a9ff"
	ColorBlue70    = "#0043ce"
	ColorBlueBase  = "#0f62fe"
	ColorRed60     = "#da1e28"
	ColorRedStrong = "#ff0000"
	ColorOrange40  = "#ff832b"
	ColorGray60    = "#8d8d8d"
	ColorGray10    = "#f4f4f4"
)

//
// ---------- Styles ----------

// Styles holds the console styles of the root logger.
type Styles struct {
	Out               io.Writer
	Timestamp         lipgloss.Style
	Levels            map[zerolog.Level]lipgloss.Style // badge per level
	Keys              map[string]lipgloss.Style        // field names
	Values            map[string]lipgloss.Style        // field values by field name
	DefaultKeyStyle   lipgloss.Style
	DefaultValueStyle lipgloss.Style
}

// DefaultStylesByName returns a theme by name ("dark", "light").
func DefaultStylesByName(name string) *Styles {
	switch strings.ToLower(name) {
	case "light":
		return DefaultStylesLight()
	default:
		return DefaultStylesDark()
	}
}

func badge(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

func newStyles(keyColor, infoColor string) *Styles {
	key := lipgloss.NewStyle().Foreground(lipgloss.Color(keyColor))
	return &Styles{
		Timestamp:         lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)),
		DefaultKeyStyle:   key,
		DefaultValueStyle: lipgloss.NewStyle(),
		Levels: map[zerolog.Level]lipgloss.Style{
			zerolog.DebugLevel: badge(ColorTeal40),
			zerolog.InfoLevel:  badge(infoColor),
			zerolog.WarnLevel:  badge(ColorOrange40),
			zerolog.ErrorLevel: badge(ColorRed60),
			zerolog.FatalLevel: badge(ColorRedStrong),
		},
		Keys: map[string]lipgloss.Style{
			"key":    key,
			"parent": key,
			"op":     key,
			"module": key,
			"error":  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed60)),
		},
		Values: map[string]lipgloss.Style{
			"key":    lipgloss.NewStyle().Bold(true),
			"parent": lipgloss.NewStyle().Italic(true),
			"op":     lipgloss.NewStyle().Bold(true),
			"error":  lipgloss.NewStyle().Bold(true),
		},
	}
}

// DefaultStylesDark is the theme for dark terminals.
func DefaultStylesDark() *Styles { return newStyles(ColorBlue40, ColorBlue60) }

// DefaultStylesLight is the theme for light terminals.
func DefaultStylesLight() *Styles { return newStyles(ColorBlueBase, ColorBlue70) }

//
// ---------- Console Formatter ----------

// ConsoleWriterWithStyles builds a zerolog.ConsoleWriter rendering with styles.
// The field name formatter hands the current key to the value formatter, so
// writes are serialized.
func ConsoleWriterWithStyles(styles *Styles) io.Writer {
	var field string
	return zerolog.SyncWriter(zerolog.ConsoleWriter{
		Out:        styles.Out,
		TimeFormat: "01-02 15:04:05",

		FormatLevel: func(i any) string {
			s := strings.ToLower(fmt.Sprint(i))
			lvl, err := zerolog.ParseLevel(s)
			label := strings.ToUpper(s)
			if len(label) > 3 {
				label = label[:3]
			}
			if st, ok := styles.Levels[lvl]; ok && err == nil {
				return st.Render(label)
			}
			return badge(ColorGray60).Render(label)
		},

		FormatTimestamp: func(i any) string {
			return styles.Timestamp.Render(fmt.Sprint(i))
		},

		FormatFieldName: func(i any) string {
			field = fmt.Sprint(i)
			st, ok := styles.Keys[field]
			if !ok {
				st = styles.DefaultKeyStyle
			}
			return st.Render(field) + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)).Render("=")
		},

		FormatFieldValue: func(i any) string {
			st, ok := styles.Values[field]
			if !ok {
				st = styles.DefaultValueStyle
			}
			return st.Render(fmt.Sprint(i))
		},

		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray10)).Render(fmt.Sprint(i))
		},
	})
}
