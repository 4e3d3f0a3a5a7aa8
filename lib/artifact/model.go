package artifact

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// the naive bayes math follows https://github.com/RadhiFadlillah/go-bayesian/blob/master/classifier.go

// currentVersion is the only artifact layout understood by Model
const currentVersion = 1

// Model is a multinomial naive bayes text classifier restored from an artifact file.
// It is produced by an external training job and only used for prediction here.
// Model is immutable after decoding and safe for concurrent use.
type Model struct {
	Version        int                       `json:"version"`
	Classes        []string                  `json:"classes"`
	Documents      map[string]int            `json:"documents"`       // number of training documents per class
	Tokens         map[string]map[string]int `json:"tokens"`          // token -> class -> documents with the token
	ExcludedTokens []string                  `json:"excluded_tokens"` // tokens ignored by tokenizer

	priors      map[string]float64 // log prior per class
	frequencies map[string]int     // number of tokens per class
	excluded    map[string]struct{}
}

// prepare validates decoded artifact and precomputes priors and token totals
func (m *Model) prepare() error {
	if m.Version != currentVersion {
		return fmt.Errorf("unsupported artifact version %d, expected %d", m.Version, currentVersion)
	}
	if len(m.Classes) == 0 {
		return errors.New("no classes in artifact")
	}

	classes := make([]string, 0, len(m.Classes))
	for _, c := range m.Classes {
		if c = strings.TrimSpace(c); c != "" {
			classes = append(classes, c)
		}
	}
	if len(classes) == 0 {
		return errors.New("all classes in artifact are empty")
	}
	sort.Strings(classes)
	m.Classes = classes

	total := 0
	for _, c := range m.Classes {
		total += m.Documents[c]
	}
	if total == 0 {
		return errors.New("no training documents in artifact")
	}

	m.priors = make(map[string]float64, len(m.Classes))
	for _, c := range m.Classes {
		// a class without documents can't win, keep it at the lowest possible prior
		if m.Documents[c] == 0 {
			m.priors[c] = math.Inf(-1)
			continue
		}
		m.priors[c] = math.Log(float64(m.Documents[c]) / float64(total))
	}

	m.frequencies = make(map[string]int, len(m.Classes))
	for _, byClass := range m.Tokens {
		for c, n := range byClass {
			m.frequencies[c] += n
		}
	}

	m.excluded = make(map[string]struct{}, len(m.ExcludedTokens))
	for _, t := range m.ExcludedTokens {
		m.excluded[strings.ToLower(t)] = struct{}{}
	}
	return nil
}

// Predict returns a label for each message, in the same order.
func (m *Model) Predict(msgs []string) ([]string, error) {
	res := make([]string, len(msgs))
	for i, msg := range msgs {
		res[i], _ = m.classify(tokenize(msg, m.excluded)...)
	}
	return res, nil
}

// classify returns the most probable class and its probability in percents.
// Ties resolve to the first class in sorted order.
func (m *Model) classify(tokens ...string) (class string, prob float64) {
	nVocabulary := len(m.Tokens)
	posterior := make(map[string]float64, len(m.Classes))
	for _, c := range m.Classes {
		posterior[c] = m.priors[c]
		for _, token := range tokens {
			nToken := m.Tokens[token][c]
			posterior[c] += math.Log(float64(nToken+1) / float64(m.frequencies[c]+nVocabulary))
		}
	}

	probs := softmax(posterior)
	bestProb := -1.0
	for _, c := range m.Classes { // classes are sorted, strict comparison keeps the first on ties
		if probs[c] > bestProb {
			class, bestProb = c, probs[c]
		}
	}
	return class, bestProb * 100
}

// softmax converts log probabilities to normalized probabilities.
// Values are shifted by the max to avoid underflow on long messages.
func softmax(logProbs map[string]float64) map[string]float64 {
	maxLog := math.Inf(-1)
	for _, lp := range logProbs {
		if lp > maxLog {
			maxLog = lp
		}
	}

	probs := make(map[string]float64, len(logProbs))
	if math.IsInf(maxLog, -1) {
		return probs
	}

	sum := 0.0
	for class, lp := range logProbs {
		probs[class] = math.Exp(lp - maxLog)
		sum += probs[class]
	}
	for class := range probs {
		probs[class] /= sum
	}
	return probs
}
