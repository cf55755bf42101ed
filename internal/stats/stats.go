package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var ErrNoData = errors.New("no data")

// WhiskerRange is how far past the quartiles, in IQRs, a whisker may reach.
const WhiskerRange = 1.5

// Box holds the numbers drawn by a box plot.
type Box struct {
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64

	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64

	Mean   float64
	StdDev float64
}

// IQR returns the interquartile range.
func (b Box) IQR() float64 {
	return b.Q3 - b.Q1
}

// Summarize computes the box plot statistics of values. values is not
// modified.
func Summarize(values []float64) (Box, error) {
	if len(values) == 0 {
		return Box{}, ErrNoData
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	b := Box{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
	}

	if len(sorted) > 1 {
		b.Mean, b.StdDev = stat.MeanStdDev(sorted, nil)
	} else {
		b.Mean = sorted[0]
	}

	lo := b.Q1 - WhiskerRange*b.IQR()
	hi := b.Q3 + WhiskerRange*b.IQR()

	// Whiskers end on the most extreme data points still inside the fences.
	b.LowerWhisker = b.Q1
	for _, v := range sorted {
		if v >= lo {
			b.LowerWhisker = math.Min(v, b.Q1)
			break
		}
	}
	b.UpperWhisker = b.Q3
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= hi {
			b.UpperWhisker = math.Max(sorted[i], b.Q3)
			break
		}
	}

	for _, v := range sorted {
		if v < b.LowerWhisker || v > b.UpperWhisker {
			b.Outliers = append(b.Outliers, v)
		}
	}

	return b, nil
}

// Quantile returns the p-quantile of sorted using linear interpolation
// between the closest ranks. sorted must be in ascending order and non-empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	if lo < 0 {
		return sorted[0]
	}

	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
