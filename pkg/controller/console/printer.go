package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

const separator = "--------------------"

// Printer renders filtered releases as human-readable text
type Printer struct {
	w     io.Writer
	label *color.Color
}

// Option is a functional option for Printer
type Option func(*Printer)

// WithColor enables colored labels
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		if enabled {
			p.label.EnableColor()
		} else {
			p.label.DisableColor()
		}
	}
}

// NewPrinter creates a Printer writing to w. Colors are disabled unless WithColor(true) is given.
func NewPrinter(w io.Writer, opts ...Option) *Printer {
	label := color.New(color.FgCyan, color.Bold)
	label.DisableColor()

	p := &Printer{
		w:     w,
		label: label,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print writes the report header followed by one block per release, in the given order
func (p *Printer) Print(repo string, year int, releases []*model.FilteredRelease) error {
	if _, err := io.WriteString(p.w, p.Render(repo, year, releases)); err != nil {
		return goerr.Wrap(err, "failed to write report")
	}
	return nil
}

// Render returns the report text
func (p *Printer) Render(repo string, year int, releases []*model.FilteredRelease) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Releases in %d\n\n%s\n\n", repo, year, separator)

	for _, r := range releases {
		fmt.Fprintf(&b, "%s %s\n", p.label.Sprint("Created At:"), r.CreatedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "%s %s\n", p.label.Sprint("Tag:"), r.TagName)
		fmt.Fprintf(&b, "%s %s\n", p.label.Sprint("Name:"), releaseName(r))
		fmt.Fprintf(&b, "%s %s\n", p.label.Sprint("URL:"), r.HTMLURL)
		fmt.Fprintf(&b, "\n%s\n\n%s\n\n", r.Body, separator)
	}

	return b.String()
}

func releaseName(r *model.FilteredRelease) string {
	if r.Name == "" {
		return model.NoNamePlaceholder
	}
	return r.Name
}
