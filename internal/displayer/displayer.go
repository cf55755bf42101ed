package displayer

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"locplot/internal/chart"
	"locplot/internal/models"
	"locplot/internal/stats"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Displayer shows box plots in the terminal.
// It exposes methods to run the UI and to stop it from another goroutine.
type Displayer struct {
	app    *tview.Application
	layout *tview.Flex
	opts   chart.Options
	mu     sync.Mutex

	series []models.Series
	boxes  []stats.Box

	// UI elements cached for updates
	plotBox    *tview.Box
	statsTable *tview.Table
	helpText   *tview.TextView
	showStats  bool
}

// New computes the statistics of every series and prepares the UI.
func New(series []models.Series, opts chart.Options) (*Displayer, error) {
	if len(series) == 0 {
		return nil, chart.ErrNoSeries
	}

	boxes := make([]stats.Box, len(series))
	for i, s := range series {
		b, err := stats.Summarize(s.Values)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		boxes[i] = b
	}

	d := &Displayer{
		app:       tview.NewApplication(),
		opts:      opts,
		series:    series,
		boxes:     boxes,
		showStats: true,
	}
	d.build()
	return d, nil
}

// Run blocks until the user quits.
func (d *Displayer) Run() error {
	d.app.SetRoot(d.layout, true)
	d.app.SetInputCapture(d.handleKey)

	if err := d.app.Run(); err != nil {
		return err
	}
	return nil
}

func (d *Displayer) Shutdown() {
	d.app.Stop()
}

func (d *Displayer) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		d.Shutdown()
		return nil
	}

	switch event.Rune() {
	case 'q', 'Q':
		d.Shutdown()
		return nil
	case 's', 'S':
		d.toggleStats()
		return nil
	}
	return event
}

func (d *Displayer) toggleStats() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.showStats = !d.showStats
	if d.showStats {
		d.layout.ResizeItem(d.statsTable, len(d.series)+3, 0)
	} else {
		d.layout.ResizeItem(d.statsTable, 0, 0)
	}
}

func (d *Displayer) build() {
	title := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText(d.opts.Title)
	d.helpText = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("[s - Statistics] [q - Quit]")

	d.plotBox = tview.NewBox().SetBorder(true)
	d.plotBox.SetDrawFunc(d.drawPlot)

	d.statsTable = d.buildStats()

	d.layout = tview.NewFlex().SetDirection(tview.FlexRow)
	d.layout.AddItem(title, 1, 0, false)
	d.layout.AddItem(d.helpText, 1, 0, false)
	d.layout.AddItem(d.plotBox, 0, 1, true)
	d.layout.AddItem(d.statsTable, len(d.series)+3, 0, false)
}

var statsColumns = []string{"Series", "Files", "Min", "Q1", "Median", "Q3", "Max", "Mean", "StdDev", "Outliers"}

func (d *Displayer) buildStats() *tview.Table {
	tbl := tview.NewTable().SetBorders(false)
	tbl.SetBorder(true).SetTitle(" Statistics ")

	for c, name := range statsColumns {
		tbl.SetCell(0, c, tview.NewTableCell(name).SetSelectable(false).SetAlign(tview.AlignCenter).SetExpansion(1))
	}

	for i, b := range d.boxes {
		row := []string{
			d.series[i].Label,
			strconv.Itoa(b.Count),
			formatValue(b.Min),
			formatValue(b.Q1),
			formatValue(b.Median),
			formatValue(b.Q3),
			formatValue(b.Max),
			formatValue(b.Mean),
			formatValue(b.StdDev),
			strconv.Itoa(len(b.Outliers)),
		}
		for c, text := range row {
			align := tview.AlignRight
			if c == 0 {
				align = tview.AlignLeft
			}
			tbl.SetCell(i+1, c, tview.NewTableCell(tview.Escape(text)).SetAlign(align).SetExpansion(1))
		}
	}

	return tbl
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
