// Package chart renders box plots to image files with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"locplot/internal/models"
	"locplot/internal/stats"
	"locplot/pkg/log"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	ErrNoSeries          = errors.New("nothing to plot")
	ErrEmptySeries       = errors.New("series has no values")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Formats lists the file extensions Save understands.
var Formats = []string{"eps", "jpg", "jpeg", "pdf", "png", "svg", "tex", "tif", "tiff"}

const (
	DefaultTitle  = "Distribution of lines of code per file"
	DefaultXLabel = "Project"
	DefaultYLabel = "Lines of code per file"
)

// Options controls titles and the size of the rendered image. Width and
// Height are in inches.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  float64
	Height float64
}

// DefaultOptions returns the labels used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Title:  DefaultTitle,
		XLabel: DefaultXLabel,
		YLabel: DefaultYLabel,
		Width:  4,
		Height: 6,
	}
}

func (o Options) size() (vg.Length, vg.Length) {
	d := DefaultOptions()
	w, h := o.Width, o.Height
	if w <= 0 {
		w = d.Width
	}
	if h <= 0 {
		h = d.Height
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// Render builds a plot with one box per series.
func Render(series []models.Series, opts Options) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	names := make([]string, len(series))
	for i, s := range series {
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptySeries, s.Label)
		}

		box, err := newBox(s, float64(i))
		if err != nil {
			return nil, err
		}
		p.Add(box)
		names[i] = s.Label
	}
	p.NominalX(names...)

	return p, nil
}

// newBox builds the gonum box and replaces its quartiles, whiskers and
// outliers with the ones from stats.Summarize, so the image agrees with
// the printed summary.
func newBox(s models.Series, loc float64) (*plotter.BoxPlot, error) {
	box, err := plotter.NewBoxPlot(vg.Points(20), loc, plotter.Values(s.Values))
	if err != nil {
		return nil, fmt.Errorf("box for %q: %w", s.Label, err)
	}

	b, err := stats.Summarize(s.Values)
	if err != nil {
		return nil, fmt.Errorf("box for %q: %w", s.Label, err)
	}

	box.Quartile1 = b.Q1
	box.Median = b.Median
	box.Quartile3 = b.Q3
	box.AdjLow = b.LowerWhisker
	box.AdjHigh = b.UpperWhisker
	box.Outside = box.Outside[:0]
	for i, v := range s.Values {
		if v < b.LowerWhisker || v > b.UpperWhisker {
			box.Outside = append(box.Outside, i)
		}
	}

	return box, nil
}

// Save writes p to path. The image format follows the file extension.
func Save(p *plot.Plot, opts Options, path string) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}

	w, h := opts.size()
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	log.Debug("plot written", zap.String("path", path), zap.String("format", format))
	return nil
}

// Write encodes p in the given format to w.
func Write(p *plot.Plot, opts Options, format string, w io.Writer) error {
	width, height := opts.size()
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	_, err = wt.WriteTo(w)
	return err
}

func formatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats {
		if f == ext {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedFormat, filepath.Ext(path), strings.Join(Formats, ", "))
}
