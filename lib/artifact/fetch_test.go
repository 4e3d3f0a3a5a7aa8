package artifact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-pkgz/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sms-spam/lib/artifact/mocks"
)

func TestFetch(t *testing.T) {
	t.Run("download missing artifact after failures", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(testArtifact))
		}))
		defer ts.Close()

		path := filepath.Join(t.TempDir(), "models", "sms_spam_model.json")
		err := Fetch(context.Background(), FetchParams{URL: ts.URL + "/model.json", Path: path, Repeats: 5, Delay: 10 * time.Millisecond})
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, testArtifact, string(data))

		h, err := Load(path)
		require.NoError(t, err)
		assert.True(t, h.Ready())

		files, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, files, 1, "no temp files left")
	})

	t.Run("existing artifact not downloaded", func(t *testing.T) {
		path := testutils.WriteTestFile(t, testArtifact)
		client := &mocks.HTTPClientMock{DoFunc: func(*http.Request) (*http.Response, error) {
			return nil, errors.New("should not be called")
		}}
		err := Fetch(context.Background(), FetchParams{URL: "http://example.com/model.json", Path: path, Client: client})
		require.NoError(t, err)
		assert.Empty(t, client.DoCalls())
	})

	t.Run("all attempts failed", func(t *testing.T) {
		client := &mocks.HTTPClientMock{DoFunc: func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}}
		path := filepath.Join(t.TempDir(), "sms_spam_model.json")
		err := Fetch(context.Background(), FetchParams{URL: "http://example.com/model.json", Path: path, Client: client,
			Repeats: 2, Delay: time.Millisecond})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can't download artifact from http://example.com/model.json")
		assert.Len(t, client.DoCalls(), 2)
		assert.NoFileExists(t, path)

		h, err := Load(path)
		require.NoError(t, err)
		assert.False(t, h.Ready(), "failed download leaves the artifact absent")
	})

	t.Run("empty url", func(t *testing.T) {
		err := Fetch(context.Background(), FetchParams{Path: "some.json"})
		assert.EqualError(t, err, "empty artifact url")
	})
}
