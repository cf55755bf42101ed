package displayer

import (
	"math"

	"locplot/internal/stats"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var (
	axisStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	boxStyle     = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	medianStyle  = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	outlierStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// scale maps data values onto terminal rows, larger values higher up.
type scale struct {
	lo, hi float64
	top    int
	rows   int
}

func (s scale) row(v float64) int {
	if s.hi == s.lo {
		return s.top + s.rows/2
	}
	f := (v - s.lo) / (s.hi - s.lo)
	f = math.Max(0, math.Min(1, f))
	return s.top + s.rows - 1 - int(math.Round(f*float64(s.rows-1)))
}

func bounds(boxes []stats.Box) (float64, float64) {
	lo, hi := boxes[0].Min, boxes[0].Max
	for _, b := range boxes[1:] {
		lo = math.Min(lo, b.Min)
		hi = math.Max(hi, b.Max)
	}
	return lo, hi
}

// drawPlot is the draw function of the bordered plot box. It returns the
// inner rectangle like tview expects.
func (d *Displayer) drawPlot(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	ix, iy, iw, ih := x+1, y+1, width-2, height-2

	if d.opts.YLabel != "" {
		tview.Print(screen, " "+tview.Escape(d.opts.YLabel)+" ", x+1, y, width-2, tview.AlignLeft, tview.Styles.TitleColor)
	}
	if d.opts.XLabel != "" {
		tview.Print(screen, " "+tview.Escape(d.opts.XLabel)+" ", x, y+height-1, width, tview.AlignCenter, tview.Styles.TitleColor)
	}

	lo, hi := bounds(d.boxes)
	ticks := []float64{hi, (lo + hi) / 2, lo}
	labelWidth := 0
	for _, t := range ticks {
		if n := len(formatValue(t)); n > labelWidth {
			labelWidth = n
		}
	}
	labelWidth++

	rows := ih - 1
	plotX := ix + labelWidth + 1
	plotW := iw - labelWidth - 1
	if rows < 3 || len(d.boxes) == 0 || plotW/len(d.boxes) < 3 {
		tview.Print(screen, "terminal too small", ix, iy, iw, tview.AlignLeft, tcell.ColorRed)
		return ix, iy, iw, ih
	}

	sc := scale{lo: lo, hi: hi, top: iy, rows: rows}

	for r := iy; r < iy+rows; r++ {
		screen.SetContent(ix+labelWidth, r, '│', nil, axisStyle)
	}
	for _, t := range ticks {
		r := sc.row(t)
		tview.Print(screen, formatValue(t), ix, r, labelWidth-1, tview.AlignRight, tcell.ColorGray)
		screen.SetContent(ix+labelWidth, r, '┤', nil, axisStyle)
	}

	slot := plotW / len(d.boxes)
	for i, b := range d.boxes {
		cx := plotX + slot*i + slot/2
		hw := max(1, min(4, slot/4))
		drawBox(screen, sc, b, cx, hw)

		label := tview.Escape(d.series[i].Label)
		tview.Print(screen, label, plotX+slot*i, iy+ih-1, slot, tview.AlignCenter, tview.Styles.PrimaryTextColor)
	}

	return ix, iy, iw, ih
}

func drawBox(screen tcell.Screen, sc scale, b stats.Box, cx, hw int) {
	rUpper := sc.row(b.UpperWhisker)
	rQ3 := sc.row(b.Q3)
	rMedian := sc.row(b.Median)
	rQ1 := sc.row(b.Q1)
	rLower := sc.row(b.LowerWhisker)

	for r := rUpper; r < rQ3; r++ {
		screen.SetContent(cx, r, '│', nil, boxStyle)
	}
	for r := rQ1 + 1; r <= rLower; r++ {
		screen.SetContent(cx, r, '│', nil, boxStyle)
	}
	for c := cx - 1; c <= cx+1; c++ {
		screen.SetContent(c, rUpper, '─', nil, boxStyle)
		screen.SetContent(c, rLower, '─', nil, boxStyle)
	}

	for r := rQ3; r <= rQ1; r++ {
		screen.SetContent(cx-hw, r, '│', nil, boxStyle)
		screen.SetContent(cx+hw, r, '│', nil, boxStyle)
	}
	for c := cx - hw; c <= cx+hw; c++ {
		screen.SetContent(c, rQ3, '─', nil, boxStyle)
		screen.SetContent(c, rQ1, '─', nil, boxStyle)
	}
	if rQ3 != rQ1 {
		screen.SetContent(cx-hw, rQ3, '┌', nil, boxStyle)
		screen.SetContent(cx+hw, rQ3, '┐', nil, boxStyle)
		screen.SetContent(cx-hw, rQ1, '└', nil, boxStyle)
		screen.SetContent(cx+hw, rQ1, '┘', nil, boxStyle)
	}

	for c := cx - hw + 1; c <= cx+hw-1; c++ {
		screen.SetContent(c, rMedian, '━', nil, medianStyle)
	}

	for _, v := range b.Outliers {
		screen.SetContent(cx, sc.row(v), 'o', nil, outlierStyle)
	}
}
