package webapi

import (
	"net/http"
	"time"

	"github.com/go-pkgz/rest"

	"github.com/umputun/sms-spam/lib/artifact"
)

// ModelStatus reports state of the loaded artifact, satisfied by artifact.Handle
type ModelStatus interface {
	Ready() bool
	Info() artifact.Info
}

// modelHandler handles GET /model request. It returns the state of the model artifact loaded on startup.
// The artifact is never reloaded, so the state is the same for the whole process lifetime.
func (s *Server) modelHandler(w http.ResponseWriter, _ *http.Request) {
	if s.Model == nil || !s.Model.Ready() {
		rest.RenderJSON(w, rest.JSON{"ready": false, "path": s.ModelPath})
		return
	}

	info := s.Model.Info()
	rest.RenderJSON(w, rest.JSON{
		"ready":     true,
		"path":      info.Path,
		"size":      info.Size,
		"loaded_at": info.LoadedAt.Format(time.RFC3339),
		"classes":   info.Classes,
	})
}
