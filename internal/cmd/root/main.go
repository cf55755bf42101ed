package root

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"locplot/internal/chart"
	"locplot/internal/displayer"
	"locplot/internal/models"
	"locplot/internal/report"
	"locplot/internal/stats"
	"locplot/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LanguageColumn is the cloc column used by --by-language.
const LanguageColumn = "language"

// StdoutOutput, given as --output, streams the image to stdout.
const StdoutOutput = "-"

var ErrNoRows = errors.New("report has no file rows")

// Options is everything a run needs, resolved from flags, env and config.
type Options struct {
	Report     string
	Column     string
	ByLanguage bool
	Output     string
	Format     string
	NoTUI      bool
	Chart      chart.Options
}

// OptionsFromViper resolves the run options for the given report path.
func OptionsFromViper(path string) Options {
	return Options{
		Report:     path,
		Column:     viper.GetString("column"),
		ByLanguage: viper.GetBool("by-language"),
		Output:     viper.GetString("output"),
		Format:     viper.GetString("format"),
		NoTUI:      viper.GetBool("no-tui"),
		Chart: chart.Options{
			Title:  viper.GetString("title"),
			XLabel: viper.GetString("xlabel"),
			YLabel: viper.GetString("ylabel"),
			Width:  viper.GetFloat64("width"),
			Height: viper.GetFloat64("height"),
		},
	}
}

func Run(cmd *cobra.Command, args []string) {
	opts := OptionsFromViper(args[0])
	if err := Execute(opts, cmd.OutOrStdout()); err != nil {
		log.Fatal("failed to plot report", zap.String("report", opts.Report), zap.Error(err))
	}
}

// Execute loads the report, then writes the image, prints the summary or
// opens the terminal plot as configured. An Output of "-" streams the image
// to out in opts.Format and does nothing else.
func Execute(opts Options, out io.Writer) error {
	tbl, err := report.Load(opts.Report)
	if err != nil {
		return err
	}

	series, err := buildSeries(tbl, opts)
	if err != nil {
		return err
	}

	chartOpts := chartOptions(opts)

	if opts.Output != "" {
		p, err := chart.Render(series, chartOpts)
		if err != nil {
			return err
		}

		if opts.Output == StdoutOutput {
			return chart.Write(p, chartOpts, opts.Format, out)
		}

		if err := chart.Save(p, chartOpts, opts.Output); err != nil {
			return err
		}
		fmt.Fprintf(out, "plot written to %s\n", opts.Output)
	}

	if opts.NoTUI {
		return printSummary(out, opts.Column, series)
	}

	d, err := displayer.New(series, chartOpts)
	if err != nil {
		return err
	}
	return d.Run()
}

func chartOptions(opts Options) chart.Options {
	c := opts.Chart
	if opts.ByLanguage && c.XLabel == chart.DefaultXLabel {
		c.XLabel = "Language"
	}
	return c
}

func buildSeries(tbl *report.Table, opts Options) ([]models.Series, error) {
	if tbl.Len() == 0 {
		return nil, ErrNoRows
	}

	if opts.ByLanguage {
		groups, order, err := tbl.GroupBy(LanguageColumn, opts.Column)
		if err != nil {
			return nil, err
		}

		series := make([]models.Series, 0, len(order))
		for _, lang := range order {
			series = append(series, models.Series{Label: lang, Values: groups[lang]})
		}
		log.Debug("grouped report", zap.Int("languages", len(series)))
		return series, nil
	}

	values, err := tbl.Float64s(opts.Column)
	if err != nil {
		return nil, err
	}
	return []models.Series{{Label: projectName(opts.Report), Values: values}}, nil
}

func projectName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printSummary(out io.Writer, column string, series []models.Series) error {
	fmt.Fprintf(out, "Distribution of %q per file:\n", column)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SERIES\tFILES\tMIN\tQ1\tMEDIAN\tQ3\tMAX\tMEAN\tSTDDEV\tOUTLIERS\t")
	for _, s := range series {
		b, err := stats.Summarize(s.Values)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Label, err)
		}
		fmt.Fprintf(tw, "%s\t%d\t%g\t%g\t%g\t%g\t%g\t%.1f\t%.1f\t%d\t\n",
			s.Label, b.Count, b.Min, b.Q1, b.Median, b.Q3, b.Max, b.Mean, b.StdDev, len(b.Outliers))
	}
	return tw.Flush()
}
