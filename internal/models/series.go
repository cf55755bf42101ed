package models

// Series is one box of the plot: a label and the values it summarizes.
type Series struct {
	Label  string
	Values []float64
}
