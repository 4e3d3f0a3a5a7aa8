package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pkgz/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid artifact", func(t *testing.T) {
		path := testutils.WriteTestFile(t, testArtifact)
		h, err := Load(path)
		require.NoError(t, err)
		assert.True(t, h.Ready())
		assert.Equal(t, path, h.Info().Path)
		assert.Equal(t, []string{"ham", "spam"}, h.Info().Classes)
		assert.Equal(t, int64(len(testArtifact)), h.Info().Size)
		assert.False(t, h.Info().LoadedAt.IsZero())

		res, err := h.Predict([]string{"free prize", "lunch meeting"})
		require.NoError(t, err)
		assert.Equal(t, []string{"spam", "ham"}, res)
	})

	t.Run("missing artifact is absent, not an error", func(t *testing.T) {
		h, err := Load(filepath.Join(t.TempDir(), "sms_spam_model.json"))
		require.NoError(t, err)
		assert.False(t, h.Ready())
		assert.Equal(t, Info{}, h.Info())

		_, err = h.Predict([]string{"anything"})
		assert.ErrorIs(t, err, ErrArtifactMissing)
	})

	t.Run("directory instead of file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a regular file")
	})

	t.Run("corrupted artifact", func(t *testing.T) {
		path := testutils.WriteTestFile(t, `{"version": 1, "classes": [`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can't decode artifact")
	})

	t.Run("invalid artifact", func(t *testing.T) {
		path := testutils.WriteTestFile(t, `{"version": 7}`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported artifact version 7")
	})

	t.Run("unreadable artifact", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("root can read anything")
		}
		path := testutils.WriteTestFile(t, testArtifact)
		require.NoError(t, os.Chmod(path, 0o000))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can't read artifact")
	})
}

func TestHandle(t *testing.T) {
	t.Run("zero value is absent", func(t *testing.T) {
		var h Handle
		assert.False(t, h.Ready())
		_, err := h.Predict([]string{"msg"})
		assert.ErrorIs(t, err, ErrArtifactMissing)
	})

	t.Run("nil predictor makes absent handle", func(t *testing.T) {
		h := NewHandle(nil, Info{Path: "some"})
		assert.False(t, h.Ready())
		assert.Equal(t, Info{}, h.Info())
	})

	t.Run("predictor error wrapped", func(t *testing.T) {
		h := NewHandle(predictorFunc(func([]string) ([]string, error) { return nil, errors.New("boom") }), Info{})
		assert.True(t, h.Ready())
		_, err := h.Predict([]string{"msg"})
		require.Error(t, err)
		assert.EqualError(t, err, "prediction failed: boom")
	})
}

type predictorFunc func(msgs []string) ([]string, error)

func (f predictorFunc) Predict(msgs []string) ([]string, error) { return f(msgs) }
