// Package evaluation runs the loaded classifier over a labeled dataset and builds a classification report.
//
// Dataset comes from a CSV file with at least two columns: "sms" with message text and "label" with
// the expected class. Evaluator.Evaluate validates the dataset first, so a user gets column errors even
// when the model artifact is missing, then makes a single batch prediction over all messages and
// compares predictions with the labels. Labels on both sides are trimmed and lowercased before comparison.
package evaluation

import (
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/sms-spam/lib/artifact"
)

//go:generate moq --out mocks/predictor.go --pkg mocks --skip-ensure --with-resets . Predictor

// Predictor is a loaded classifier, satisfied by artifact.Handle
type Predictor interface {
	Ready() bool
	Predict(msgs []string) ([]string, error)
}

// Row is a dataset row joined with prediction
type Row struct {
	Message   string `json:"sms"`
	Label     string `json:"label"`
	Predicted string `json:"predicted"`
}

// Result of evaluation
type Result struct {
	Rows   []Row  `json:"rows"`
	Report Report `json:"report"`
}

// Evaluator evaluates datasets with the given predictor
type Evaluator struct {
	predictor Predictor
}

// NewEvaluator makes Evaluator
func NewEvaluator(p Predictor) *Evaluator {
	return &Evaluator{predictor: p}
}

// Evaluate validates dataset, predicts all messages in one call and builds the report.
// Returns *ValidationError for missing columns and artifact.ErrArtifactMissing if the classifier is not loaded;
// in both cases no prediction is made.
func (e *Evaluator) Evaluate(ds *Dataset) (*Result, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if e.predictor == nil || !e.predictor.Ready() {
		return nil, artifact.ErrArtifactMissing
	}

	msgs := ds.Messages()
	predicted, err := e.predictor.Predict(msgs)
	if err != nil {
		return nil, fmt.Errorf("can't predict dataset: %w", err)
	}
	if len(predicted) != len(msgs) {
		return nil, fmt.Errorf("classifier returned %d labels for %d messages", len(predicted), len(msgs))
	}

	labels := ds.Labels()
	res := &Result{Rows: make([]Row, len(msgs))}
	truthNorm, predNorm := make([]string, len(msgs)), make([]string, len(msgs))
	for i := range msgs {
		res.Rows[i] = Row{Message: msgs[i], Label: labels[i], Predicted: predicted[i]}
		truthNorm[i], predNorm[i] = normalize(labels[i]), normalize(predicted[i])
	}
	res.Report = NewReport(truthNorm, predNorm)
	log.Printf("[DEBUG] evaluated %d rows, accuracy %s", len(msgs), res.Report.AccuracyPercent())
	return res, nil
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
