package lib

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// colorTagRe matches an inline color tag: <green:"text">
var colorTagRe = regexp.MustCompile(`<(\w+):"([^"]*)">`)

var palette = map[string]lipgloss.Color{
	"red":     lipgloss.Color("9"),
	"green":   lipgloss.Color("10"),
	"yellow":  lipgloss.Color("11"),
	"blue":    lipgloss.Color("12"),
	"magenta": lipgloss.Color("13"),
	"cyan":    lipgloss.Color("14"),
	"white":   lipgloss.Color("15"),
	"gray":    lipgloss.Color("241"),
}

// Logger writes human-oriented messages. Messages may contain color tags,
// which are rendered with the writer's color profile (plain text when the
// writer is not a terminal).
type Logger struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w, renderer: lipgloss.NewRenderer(w)}
}

// Stderr is the logger the commands share.
var Stderr = NewLogger(os.Stderr)

// Colorize expands color tags. Unknown colors keep their text, uncolored.
func (l *Logger) Colorize(text string) string {
	return colorTagRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := colorTagRe.FindStringSubmatch(m)
		color, ok := palette[sub[1]]
		if !ok {
			return sub[2]
		}
		return l.renderer.NewStyle().Foreground(color).Render(sub[2])
	})
}

func (l *Logger) Print(format string, args ...any) {
	fmt.Fprintln(l.w, l.Colorize(fmt.Sprintf(format, args...)))
}

func (l *Logger) Warning(format string, args ...any) {
	prefix := l.renderer.NewStyle().Bold(true).Foreground(palette["yellow"]).Render("warning:")
	fmt.Fprintln(l.w, prefix, l.Colorize(fmt.Sprintf(format, args...)))
}

func (l *Logger) Error(format string, args ...any) {
	prefix := l.renderer.NewStyle().Bold(true).Foreground(palette["red"]).Render("error:")
	fmt.Fprintln(l.w, prefix, l.Colorize(fmt.Sprintf(format, args...)))
}
