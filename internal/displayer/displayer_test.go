package displayer

import (
	"strings"
	"testing"

	"locplot/internal/chart"
	"locplot/internal/models"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func screenText(s tcell.Screen, w, h int) string {
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil, chart.DefaultOptions())
	assert.ErrorIs(t, err, chart.ErrNoSeries)

	_, err = New([]models.Series{{Label: "x"}}, chart.DefaultOptions())
	require.Error(t, err)
}

func TestScaleRow(t *testing.T) {
	sc := scale{lo: 0, hi: 100, top: 2, rows: 11}
	assert.Equal(t, 12, sc.row(0))
	assert.Equal(t, 2, sc.row(100))
	assert.Equal(t, 7, sc.row(50))
	assert.Equal(t, 2, sc.row(1000))

	flat := scale{lo: 5, hi: 5, top: 0, rows: 9}
	assert.Equal(t, 4, flat.row(5))
}

func TestDrawPlot(t *testing.T) {
	d, err := New([]models.Series{
		{Label: "Go", Values: []float64{10, 20, 30, 40, 50, 60, 500}},
		{Label: "Python", Values: []float64{5, 15, 25}},
	}, chart.DefaultOptions())
	require.NoError(t, err)

	const w, h = 60, 24
	s := newScreen(t, w, h)
	ix, iy, iw, ih := d.drawPlot(s, 0, 0, w, h)
	assert.Equal(t, []int{1, 1, w - 2, h - 2}, []int{ix, iy, iw, ih})

	text := screenText(s, w, h)
	assert.Contains(t, text, "Go")
	assert.Contains(t, text, "Python")
	assert.Contains(t, text, "500")
	assert.Contains(t, text, chart.DefaultXLabel)
	assert.Contains(t, text, "━")
	assert.Contains(t, text, "o")
	assert.NotContains(t, text, "terminal too small")
}

func TestDrawPlotTooSmall(t *testing.T) {
	d, err := New([]models.Series{{Label: "p", Values: []float64{1, 2, 3}}}, chart.Options{})
	require.NoError(t, err)

	s := newScreen(t, 30, 4)
	d.drawPlot(s, 0, 0, 30, 4)
	assert.Contains(t, screenText(s, 30, 4), "terminal too small")
}

func TestHandleKey(t *testing.T) {
	d, err := New([]models.Series{{Label: "p", Values: []float64{1, 2, 3}}}, chart.DefaultOptions())
	require.NoError(t, err)
	require.True(t, d.showStats)

	ev := d.handleKey(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	assert.Nil(t, ev)
	assert.False(t, d.showStats)

	d.handleKey(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	assert.True(t, d.showStats)

	other := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, other, d.handleKey(other))
}

func TestStatsTable(t *testing.T) {
	d, err := New([]models.Series{{Label: "proj", Values: []float64{1, 2, 3, 4}}}, chart.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, d.statsTable.GetRowCount())
	assert.Equal(t, "proj", d.statsTable.GetCell(1, 0).Text)
	assert.Equal(t, "4", d.statsTable.GetCell(1, 1).Text)
	assert.Equal(t, "2.5", d.statsTable.GetCell(1, 4).Text)
	assert.Equal(t, "StdDev", d.statsTable.GetCell(0, 8).Text)
	assert.Equal(t, "1.3", d.statsTable.GetCell(1, 8).Text)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12", formatValue(12))
	assert.Equal(t, "2.8", formatValue(2.75))
}
