// Package verdict classifies a single message as spam or ham with the loaded classifier.
package verdict

import (
	"errors"
	"fmt"
	"strings"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/umputun/sms-spam/lib/artifact"
)

//go:generate moq --out mocks/predictor.go --pkg mocks --skip-ensure --with-resets . Predictor

// ErrEmptyInput returned for an empty or whitespace-only message
var ErrEmptyInput = errors.New("empty message")

// Class is a binary presentation of a predicted label
type Class string

// enum of classes
const (
	Spam Class = "SPAM"
	Ham  Class = "HAM"
)

// Verdict is the result of a single message classification
type Verdict struct {
	Class Class  `json:"verdict"`
	Label string `json:"label"` // raw label returned by the classifier
}

// IsSpam returns true for spam verdict
func (v Verdict) IsSpam() bool { return v.Class == Spam }

// Predictor is a loaded classifier, satisfied by artifact.Handle
type Predictor interface {
	Ready() bool
	Predict(msgs []string) ([]string, error)
}

// Checker classifies messages one by one. Thread-safe.
type Checker struct {
	predictor Predictor
	cache     cache.Cache[string, Verdict]
	ttl       time.Duration
}

// Opts defines verdict cache parameters, zero TTL disables the cache
type Opts struct {
	CacheTTL  time.Duration
	CacheSize int
}

// NewChecker makes a Checker for the given predictor
func NewChecker(p Predictor, opts Opts) *Checker {
	res := &Checker{predictor: p, ttl: opts.CacheTTL}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 1000
		}
		res.cache = cache.NewCache[string, Verdict]().WithTTL(opts.CacheTTL).WithMaxKeys(size)
	}
	return res
}

// Classify returns verdict for the message.
// Empty input is checked first and reported with ErrEmptyInput, absent classifier with artifact.ErrArtifactMissing;
// in both cases the classifier is not called. Any label other than "spam" (case-insensitive) is Ham.
func (c *Checker) Classify(text string) (Verdict, error) {
	if strings.TrimSpace(text) == "" {
		return Verdict{}, ErrEmptyInput
	}
	if c.predictor == nil || !c.predictor.Ready() {
		return Verdict{}, artifact.ErrArtifactMissing
	}

	if c.cache != nil {
		if v, ok := c.cache.Get(text); ok {
			return v, nil
		}
	}

	labels, err := c.predictor.Predict([]string{text})
	if err != nil {
		return Verdict{}, fmt.Errorf("can't classify message: %w", err)
	}
	if len(labels) == 0 {
		return Verdict{}, errors.New("classifier returned no labels")
	}

	v := Verdict{Class: ClassOf(labels[0]), Label: labels[0]}
	if c.cache != nil {
		c.cache.Set(text, v, c.ttl)
	}
	return v, nil
}

// ClassOf maps a raw label to Spam or Ham. Only "spam" in any case is Spam, everything else is Ham.
func ClassOf(label string) Class {
	if strings.EqualFold(strings.TrimSpace(label), "spam") {
		return Spam
	}
	return Ham
}
