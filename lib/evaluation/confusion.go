package evaluation

import (
	"github.com/umputun/sms-spam/lib/verdict"
)

// matrix axes, fixed order
const (
	hamIdx  = 0
	spamIdx = 1
)

// ConfusionLabels are the axis labels of ConfusionMatrix, in index order
var ConfusionLabels = [2]string{"Ham", "Spam"}

// ConfusionMatrix is a 2x2 matrix indexed by [actual][predicted] over Ham and Spam.
// Normalized rows are P(predicted | actual) and sum to 1. A row without any actual samples
// can't be normalized, it is left as zeros and marked in Degenerate.
type ConfusionMatrix struct {
	Counts     [2][2]int     `json:"counts"`
	Normalized [2][2]float64 `json:"normalized"`
	Degenerate [2]bool       `json:"degenerate"`
}

// NewConfusionMatrix builds row-normalized matrix. Labels are mapped the same way as single verdicts:
// "spam" in any case is Spam, everything else is Ham.
func NewConfusionMatrix(truth, predicted []string) ConfusionMatrix {
	res := ConfusionMatrix{}
	for i := 0; i < min(len(truth), len(predicted)); i++ {
		res.Counts[axis(truth[i])][axis(predicted[i])]++
	}

	for row := range res.Counts {
		total := res.Counts[row][hamIdx] + res.Counts[row][spamIdx]
		if total == 0 {
			res.Degenerate[row] = true
			continue
		}
		for col := range res.Counts[row] {
			res.Normalized[row][col] = float64(res.Counts[row][col]) / float64(total)
		}
	}
	return res
}

func axis(label string) int {
	if verdict.ClassOf(label) == verdict.Spam {
		return spamIdx
	}
	return hamIdx
}
