package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pkgz/fileutils"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
)

//go:generate moq --out mocks/http_client.go --pkg mocks --skip-ensure --with-resets . HTTPClient

// HTTPClient is an interface for http client, satisfied by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchParams defines where to download the artifact from and where to put it
type FetchParams struct {
	URL     string        // remote artifact location
	Path    string        // local artifact path, the same one passed to Load
	Client  HTTPClient    // http client, http.DefaultClient if nil
	Repeats int           // number of download attempts, 3 if not set
	Delay   time.Duration // delay between attempts, 1s if not set
}

// Fetch downloads artifact from params.URL to params.Path if the local file doesn't exist yet.
// The file is written to a temporary name first and renamed in place, so Load never sees a partial artifact.
func Fetch(ctx context.Context, params FetchParams) error {
	if params.URL == "" {
		return errors.New("empty artifact url")
	}
	if fileutils.IsFile(params.Path) {
		log.Printf("[DEBUG] artifact %s already exists, skip download", params.Path)
		return nil
	}
	if params.Client == nil {
		params.Client = http.DefaultClient
	}
	if params.Repeats <= 0 {
		params.Repeats = 3
	}
	if params.Delay <= 0 {
		params.Delay = time.Second
	}

	dir := filepath.Dir(params.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("can't make artifact dir %s: %w", dir, err)
	}
	tmpFile, err := fileutils.TempFileName(dir, "artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("can't make temp file name in %s: %w", dir, err)
	}
	defer os.Remove(tmpFile) // no-op after successful rename

	attempt := 0
	err = repeater.NewDefault(params.Repeats, params.Delay).Do(ctx, func() error {
		attempt++
		if e := download(ctx, params.Client, params.URL, tmpFile); e != nil {
			log.Printf("[WARN] artifact download attempt %d from %s failed: %v", attempt, params.URL, e)
			return e
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("can't download artifact from %s: %w", params.URL, err)
	}

	if err = os.Rename(tmpFile, params.Path); err != nil {
		return fmt.Errorf("can't move artifact to %s: %w", params.Path, err)
	}
	log.Printf("[INFO] artifact downloaded from %s to %s", params.URL, params.Path)
	return nil
}

func download(ctx context.Context, client HTTPClient, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("can't make request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	fh, err := os.Create(dest) //nolint:gosec // dest is a temp file made by Fetch
	if err != nil {
		return fmt.Errorf("can't create %s: %w", dest, err)
	}
	if _, err = io.Copy(fh, resp.Body); err != nil {
		_ = fh.Close()
		return fmt.Errorf("can't write %s: %w", dest, err)
	}
	return fh.Close()
}
