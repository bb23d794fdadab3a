package cli

import (
	"io"
	"os"

	"github.com/fatih/color"

	"quantbrief/internal/model"
	"quantbrief/pkg/brief"
)

// Renderer writes user-facing console output. All diagnostics go through
// logx; this is only the happy-path presentation layer.
type Renderer struct {
	out io.Writer
}

func NewRenderer() *Renderer {
	return &Renderer{out: os.Stdout}
}

// Info prints a progress line.
func (r *Renderer) Info(format string, args ...any) {
	color.New(color.FgCyan).Fprintf(r.out, format+"\n", args...)
}

// Warn prints a soft-failure line.
func (r *Renderer) Warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(r.out, format+"\n", args...)
}

// Notice prints a workflow status line.
func (r *Renderer) Notice(format string, args ...any) {
	color.New(color.FgMagenta).Fprintf(r.out, format+"\n", args...)
}

// Outcome prints the result of one summarize workflow. A stock run that
// found no news prints only the no-news line.
func (r *Renderer) Outcome(out *brief.Outcome) {
	if out.NoNews {
		r.Warn("No news found for %s.", out.Asset)
		return
	}

	c := sentimentColor(out.Sentiment)
	c.Fprintf(r.out, "[%s] %s\n", out.Asset, out.Sentiment)
	c.Fprintf(r.out, "Summary: %s\n", out.Summary)
	c.Fprintf(r.out, "Price: $%s\n", brief.FormatPrice(out.Price))
}

// History prints all stored records, one block per record.
func (r *Renderer) History(records []*model.Summary) {
	c := color.New(color.FgCyan)
	for _, rec := range records {
		c.Fprintf(r.out, "[%s] %s\n", rec.Ticker, rec.Sentiment)
		c.Fprintf(r.out, "Summary: %s\n", rec.Summary)
		c.Fprintf(r.out, "Price: $%s\n", brief.FormatPrice(&rec.Price))
		c.Fprintf(r.out, "Timestamp: %s\n", rec.Timestamp.UTC().Format("2006-01-02 15:04:05"))
	}
}

func sentimentColor(s brief.Sentiment) *color.Color {
	switch s {
	case brief.SentimentPositive:
		return color.New(color.FgGreen)
	case brief.SentimentNegative:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
