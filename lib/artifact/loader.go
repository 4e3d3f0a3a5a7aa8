// Package artifact loads the pre-trained spam classifier from its artifact file.
//
// The artifact is produced outside of this application and loaded once per process with Load.
// A missing artifact is not an error: Load returns an absent Handle and the caller decides how to
// report it when a prediction is requested. Any other problem with the file (unreadable, corrupted,
// unknown version) is returned as an error.
//
// Optional helpers: Fetch downloads a missing artifact from a URL before loading, and Watch reports
// changes of the artifact file. Neither of them replaces an already loaded Handle.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/fileutils"
	log "github.com/go-pkgz/lgr"
)

// ErrArtifactMissing returned on prediction attempt with an absent handle
var ErrArtifactMissing = errors.New("model artifact not loaded")

// Predictor makes batch predictions, one label per message.
type Predictor interface {
	Predict(msgs []string) ([]string, error)
}

// Handle is a loaded classifier shared by all requests. The zero value is an absent handle.
type Handle struct {
	predictor Predictor
	info      Info
}

// Info describes the loaded artifact
type Info struct {
	Path     string
	Size     int64
	LoadedAt time.Time
	Classes  []string
}

// NewHandle makes a ready handle for the given predictor, used for predictors not coming from a file.
func NewHandle(p Predictor, info Info) Handle {
	if p == nil {
		return Handle{}
	}
	return Handle{predictor: p, info: info}
}

// Ready returns true if the artifact was loaded
func (h Handle) Ready() bool { return h.predictor != nil }

// Info returns artifact details, empty for an absent handle
func (h Handle) Info() Info { return h.info }

// Predict passes messages to the loaded classifier. Returns ErrArtifactMissing for an absent handle.
func (h Handle) Predict(msgs []string) ([]string, error) {
	if h.predictor == nil {
		return nil, ErrArtifactMissing
	}
	res, err := h.predictor.Predict(msgs)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}
	return res, nil
}

// Load reads and decodes the artifact file. A missing file results in an absent handle and no error.
func Load(path string) (Handle, error) {
	if !fileutils.IsFile(path) {
		_, err := os.Stat(path)
		if err == nil {
			return Handle{}, fmt.Errorf("artifact %s is not a regular file", path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Handle{}, fmt.Errorf("can't access artifact %s: %w", path, err)
		}
		log.Printf("[WARN] model artifact %s not found", path)
		return Handle{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is controlled by the app
	if err != nil {
		if errors.Is(err, os.ErrNotExist) { // removed between the check and read
			log.Printf("[WARN] model artifact %s not found", path)
			return Handle{}, nil
		}
		return Handle{}, fmt.Errorf("can't read artifact %s: %w", path, err)
	}

	model := &Model{}
	if err = json.Unmarshal(data, model); err != nil {
		return Handle{}, fmt.Errorf("can't decode artifact %s: %w", path, err)
	}
	if err = model.prepare(); err != nil {
		return Handle{}, fmt.Errorf("invalid artifact %s: %w", path, err)
	}

	info := Info{Path: path, Size: int64(len(data)), LoadedAt: time.Now(), Classes: model.Classes}
	log.Printf("[INFO] model artifact %s loaded, %d bytes, classes: %v, vocabulary: %d",
		path, info.Size, info.Classes, len(model.Tokens))
	return Handle{predictor: model, info: info}, nil
}
