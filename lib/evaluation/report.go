package evaluation

import (
	"fmt"
	"sort"
)

// ClassMetrics holds precision, recall, F1 and support of a single class or an average
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is a classification report comparing ground truth with predictions
type Report struct {
	Classes     []ClassMetrics  `json:"classes"` // sorted by label
	MacroAvg    ClassMetrics    `json:"macro_avg"`
	WeightedAvg ClassMetrics    `json:"weighted_avg"`
	Accuracy    float64         `json:"accuracy"` // fraction of matching rows, 0..1
	Total       int             `json:"total"`
	Confusion   ConfusionMatrix `json:"confusion"`
}

// AccuracyPercent returns accuracy as a percentage with two decimals, i.e. "97.35%"
func (r Report) AccuracyPercent() string {
	return fmt.Sprintf("%.2f%%", r.Accuracy*100)
}

// NewReport compares truth and predicted labels position by position. Labels are expected to be normalized.
// Classes are the sorted union of both label sets. Metrics with zero denominator are set to 0.
func NewReport(truth, predicted []string) Report {
	n := min(len(truth), len(predicted))
	tp, fp, fn, support := map[string]int{}, map[string]int{}, map[string]int{}, map[string]int{}
	labels := map[string]struct{}{}
	matches := 0
	for i := 0; i < n; i++ {
		t, p := truth[i], predicted[i]
		labels[t], labels[p] = struct{}{}, struct{}{}
		support[t]++
		if t == p {
			tp[t]++
			matches++
			continue
		}
		fp[p]++
		fn[t]++
	}

	sorted := make([]string, 0, len(labels))
	for l := range labels {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	res := Report{Total: n, Classes: make([]ClassMetrics, 0, len(sorted))}
	if n > 0 {
		res.Accuracy = float64(matches) / float64(n)
	}

	res.MacroAvg = ClassMetrics{Label: "macro avg", Support: n}
	res.WeightedAvg = ClassMetrics{Label: "weighted avg", Support: n}
	for _, l := range sorted {
		cm := ClassMetrics{
			Label:     l,
			Precision: ratio(tp[l], tp[l]+fp[l]),
			Recall:    ratio(tp[l], tp[l]+fn[l]),
			Support:   support[l],
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		res.Classes = append(res.Classes, cm)

		res.MacroAvg.Precision += cm.Precision
		res.MacroAvg.Recall += cm.Recall
		res.MacroAvg.F1 += cm.F1
		if n > 0 {
			w := float64(cm.Support) / float64(n)
			res.WeightedAvg.Precision += cm.Precision * w
			res.WeightedAvg.Recall += cm.Recall * w
			res.WeightedAvg.F1 += cm.F1 * w
		}
	}
	if k := float64(len(sorted)); k > 0 {
		res.MacroAvg.Precision /= k
		res.MacroAvg.Recall /= k
		res.MacroAvg.F1 /= k
	}

	res.Confusion = NewConfusionMatrix(truth[:n], predicted[:n])
	return res
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
