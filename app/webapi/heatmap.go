package webapi

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/umputun/sms-spam/lib/evaluation"
)

// heatmap geometry, in svg units
const (
	hmCell   = 120 // cell side
	hmMargin = 90  // left and top margin for tick labels and axis titles
)

// greens color scale, from empty to full
var (
	hmLow, _  = colorful.Hex("#f7fcf5")
	hmHigh, _ = colorful.Hex("#00441b")
)

// heatmap is a pre-computed svg layout of the normalized confusion matrix.
// Rows are actual classes, columns are predicted classes.
type heatmap struct {
	Size   int // width and height of the svg
	Cells  []heatmapCell
	XTicks []heatmapTick // predicted, under the matrix
	YTicks []heatmapTick // actual, left of the matrix
	XTitle heatmapTick
	YTitle heatmapTick
}

type heatmapCell struct {
	X, Y      int
	Side      int
	Fill      string
	TextColor string
	TextX     int
	TextY     int
	Text      string
	Title     string
}

type heatmapTick struct {
	X, Y int
	Text string
}

// makeHeatmap lays out the matrix cells and labels. Cell color follows the greens scale by normalized value,
// cell text is the value with two decimals. Degenerate rows are shown as zeros with a hint in the cell title.
func makeHeatmap(m evaluation.ConfusionMatrix) heatmap {
	res := heatmap{Size: hmMargin + 2*hmCell + hmMargin/3}
	for row := range m.Normalized {
		for col := range m.Normalized[row] {
			v := m.Normalized[row][col]
			fill := hmLow.BlendLab(hmHigh, v).Clamped()
			textColor := "#000000"
			if l, _, _ := fill.Lab(); l < 0.55 {
				textColor = "#ffffff"
			}
			title := fmt.Sprintf("actual %s, predicted %s: %d", evaluation.ConfusionLabels[row],
				evaluation.ConfusionLabels[col], m.Counts[row][col])
			if m.Degenerate[row] {
				title = fmt.Sprintf("no %s samples in dataset", evaluation.ConfusionLabels[row])
			}
			x, y := hmMargin+col*hmCell, hmMargin/3+row*hmCell
			res.Cells = append(res.Cells, heatmapCell{
				X: x, Y: y, Side: hmCell,
				Fill: fill.Hex(), TextColor: textColor,
				TextX: x + hmCell/2, TextY: y + hmCell/2 + 6,
				Text:  fmt.Sprintf("%.2f", v),
				Title: title,
			})
		}
	}

	for i, lbl := range evaluation.ConfusionLabels {
		res.XTicks = append(res.XTicks, heatmapTick{X: hmMargin + i*hmCell + hmCell/2, Y: hmMargin/3 + 2*hmCell + 22, Text: lbl})
		res.YTicks = append(res.YTicks, heatmapTick{X: hmMargin - 10, Y: hmMargin/3 + i*hmCell + hmCell/2 + 5, Text: lbl})
	}
	res.XTitle = heatmapTick{X: hmMargin + hmCell, Y: hmMargin/3 + 2*hmCell + 50, Text: "Predicted"}
	res.YTitle = heatmapTick{X: 20, Y: hmMargin/3 + hmCell, Text: "Actual"}
	return res
}
