package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atikulmunna/logdash/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes live entries to an output stream.
type Renderer interface {
	Render(entry model.LiveEntry) error
}

// New returns the renderer for format, "text" or "json".
func New(format string, w io.Writer) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleInfo     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleDebug    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleCritical = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true) // white on red
	styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	styleSource  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

// TextRenderer prints entries with severity-based colors.
type TextRenderer struct {
	w io.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(entry model.LiveEntry) error {
	ts := entry.Timestamp.Format("15:04:05")
	_, err := fmt.Fprintf(r.w, "%s %s %s %s\n",
		ts, LevelTag(entry.Level), styleSource.Render(entry.Source), entry.Message)
	return err
}

// LevelTag renders level padded to the widest level name.
func LevelTag(level model.Level) string {
	padded := fmt.Sprintf("%-8s", level)
	switch level {
	case model.LevelDebug:
		return styleDebug.Render(padded)
	case model.LevelWarn, model.LevelWarning:
		return styleWarn.Render(padded)
	case model.LevelError:
		return styleError.Render(padded)
	case model.LevelCritical:
		return styleCritical.Render(padded)
	case model.LevelUnknown:
		return styleUnknown.Render(padded)
	default:
		return styleInfo.Render(padded)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints one JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry model.LiveEntry) error {
	return r.enc.Encode(entry)
}
