// Package webapi provides the web UI and API of the spam detector.
// UI has three independent modes: single message prediction, dataset evaluation and instructions.
package webapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/sms-spam/lib/artifact"
	"github.com/umputun/sms-spam/lib/evaluation"
	"github.com/umputun/sms-spam/lib/verdict"
)

//go:generate moq --out mocks/checker.go --pkg mocks --with-resets --skip-ensure . Checker
//go:generate moq --out mocks/evaluator.go --pkg mocks --with-resets --skip-ensure . Evaluator

//go:embed assets/*.html assets/components/*.html assets/styles.css
var templateFS embed.FS

const (
	authUser       = "sms-spam"
	previewRows    = 50              // max rows of evaluated dataset shown in UI
	defaultMaxSize = 16 * 1024 * 1024 // default max request (upload) size
)

// Server is a web UI and API server.
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version          string           // version to show in /ping
	ListenAddr       string           // listen address
	Checker          Checker          // single message classifier
	Evaluator        Evaluator        // dataset evaluator
	Model            ModelStatus      // loaded artifact state, reported by /model
	ModelPath        string           // artifact path, shown in messages and instructions
	PredictionLogger PredictionLogger // optional, called on each successful single prediction
	AuthPasswd       string           // basic auth password for user "sms-spam", disabled if empty
	MaxUploadSize    int64            // max request size, 16M if not set
	Dbg              bool             // debug mode
}

// Checker classifies a single message
type Checker interface {
	Classify(text string) (verdict.Verdict, error)
}

// Evaluator evaluates a labeled dataset
type Evaluator interface {
	Evaluate(ds *evaluation.Dataset) (*evaluation.Result, error)
}

// PredictionLogger records single predictions
type PredictionLogger interface {
	Save(msg string, v verdict.Verdict)
}

// PredictionLoggerFunc is a function adapter for PredictionLogger
type PredictionLoggerFunc func(msg string, v verdict.Verdict)

// Save calls f(msg, v)
func (f PredictionLoggerFunc) Save(msg string, v verdict.Verdict) { f(msg, v) }

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	if config.MaxUploadSize <= 0 {
		config.MaxUploadSize = defaultMaxSize
	}
	return &Server{Config: config}
}

// Run starts server and accepts requests until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(log.Default()))
	router.Use(rest.Throttle(1000))
	router.Use(rest.AppInfo("sms-spam", "umputun", s.Version), rest.Ping)

	lmt := tollbooth.NewLimiter(50, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
	router.Use(tollbooth.HTTPMiddleware(lmt))
	router.Use(rest.SizeLimit(s.MaxUploadSize))

	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}
	router.Use(s.authMiddleware(rest.BasicAuthWithPrompt(authUser, s.AuthPasswd)))

	router = s.routes(router) // setup routes

	srv := &http.Server{Addr: s.ListenAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout: 30 * time.Second, WriteTimeout: 60 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes(router *routegroup.Bundle) *routegroup.Bundle {
	// modes, each page is reachable from any other via navbar. single message prediction is the default one
	router.HandleFunc("GET /{$}", s.htmlPredictHandler)
	router.HandleFunc("GET /evaluate", s.htmlEvaluateHandler)
	router.HandleFunc("GET /instructions", s.htmlInstructionsHandler)

	// actions, html fragments for htmx and json for api calls
	router.HandleFunc("POST /predict", s.predictHandler)
	router.HandleFunc("POST /evaluate", s.evaluateHandler)
	router.HandleFunc("GET /model", s.modelHandler)

	router.HandleFunc("GET /styles.css", s.stylesHandler)
	return router
}

// predictHandler handles POST /predict request.
// It gets message text from the form (htmx) or json body {"msg": "..."} and returns the verdict.
func (s *Server) predictHandler(w http.ResponseWriter, r *http.Request) {
	isHtmxRequest := r.Header.Get("HX-Request") == "true"

	req := struct {
		Msg string `json:"msg"`
	}{}
	if isHtmxRequest {
		req.Msg = r.FormValue("msg")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		log.Printf("[WARN] can't decode request: %v", err)
		return
	}

	v, err := s.Checker.Classify(req.Msg)
	if err != nil {
		code, msg, level := s.classifyError(err)
		if !isHtmxRequest {
			w.WriteHeader(code)
			rest.RenderJSON(w, rest.JSON{"error": msg, "details": err.Error()})
			return
		}
		s.renderAlert(w, level, msg)
		return
	}

	if s.PredictionLogger != nil {
		s.PredictionLogger.Save(req.Msg, v)
	}

	if !isHtmxRequest {
		rest.RenderJSON(w, v)
		return
	}
	s.renderComponent(w, "verdict.html", v)
}

// evaluateHandler handles POST /evaluate request with multipart csv upload in "file" field.
// It returns classification report, accuracy and confusion matrix.
func (s *Server) evaluateHandler(w http.ResponseWriter, r *http.Request) {
	isHtmxRequest := r.Header.Get("HX-Request") == "true"
	fail := func(code int, level, msg string, err error) {
		log.Printf("[WARN] evaluation failed: %s, %v", msg, err)
		if !isHtmxRequest {
			w.WriteHeader(code)
			rest.RenderJSON(w, rest.JSON{"error": msg, "details": err.Error()})
			return
		}
		s.renderAlert(w, level, msg)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		fail(http.StatusBadRequest, "warning", "Please upload a CSV file with 'sms' and 'label' columns.", err)
		return
	}
	defer file.Close()

	ds, err := evaluation.ReadCSV(file)
	if err != nil {
		fail(http.StatusBadRequest, "danger", fmt.Sprintf("Can't parse CSV file %q.", header.Filename), err)
		return
	}

	res, err := s.Evaluator.Evaluate(ds)
	if err != nil {
		code, msg, level := s.classifyError(err)
		fail(code, level, msg, err)
		return
	}
	log.Printf("[INFO] evaluated %q, %d rows, accuracy %s", header.Filename, len(res.Rows), res.Report.AccuracyPercent())

	if !isHtmxRequest {
		rest.RenderJSON(w, rest.JSON{"file": header.Filename, "rows": len(res.Rows),
			"accuracy": res.Report.AccuracyPercent(), "report": res.Report})
		return
	}

	preview := res.Rows
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	tmplData := struct {
		FileName string
		Report   evaluation.Report
		Accuracy string
		Heatmap  heatmap
		Rows     []evaluation.Row
		Total    int
	}{
		FileName: header.Filename,
		Report:   res.Report,
		Accuracy: res.Report.AccuracyPercent(),
		Heatmap:  makeHeatmap(res.Report.Confusion),
		Rows:     preview,
		Total:    len(res.Rows),
	}
	s.renderComponent(w, "report.html", tmplData)
}

// classifyError maps recovered errors to http code, user message and alert level
func (s *Server) classifyError(err error) (code int, msg, level string) {
	var verr *evaluation.ValidationError
	switch {
	case errors.Is(err, verdict.ErrEmptyInput):
		return http.StatusBadRequest, "Please enter a message before predicting.", "warning"
	case errors.Is(err, artifact.ErrArtifactMissing):
		return http.StatusServiceUnavailable, fmt.Sprintf("Model file %q not found. "+
			"Put it to the app folder and restart (see Instructions).", s.ModelPath), "danger"
	case errors.As(err, &verr):
		return http.StatusBadRequest, "CSV must contain 'sms' and 'label' columns.", "danger"
	default:
		log.Printf("[WARN] unexpected error: %v", err)
		return http.StatusInternalServerError, "Unexpected error, see logs for details.", "danger"
	}
}

// htmlPredictHandler handles GET / request, single message mode
func (s *Server) htmlPredictHandler(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "predict.html", "predict")
}

// htmlEvaluateHandler handles GET /evaluate request, dataset evaluation mode
func (s *Server) htmlEvaluateHandler(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "evaluate.html", "evaluate")
}

// htmlInstructionsHandler handles GET /instructions request, static instructions
func (s *Server) htmlInstructionsHandler(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "instructions.html", "instructions")
}

// stylesHandler handles GET /styles.css request. It returns styles.css file.
func (s *Server) stylesHandler(w http.ResponseWriter, _ *http.Request) {
	body, err := templateFS.ReadFile("assets/styles.css")
	if err != nil {
		log.Printf("[WARN] can't read styles.css: %v", err)
		http.Error(w, "Error reading styles.css", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// renderPage renders a full page with navbar, mode marks the active navbar item
func (s *Server) renderPage(w http.ResponseWriter, name, mode string) {
	tmpl, err := template.New("").ParseFS(templateFS, "assets/"+name,
		"assets/components/head.html", "assets/components/navbar.html")
	if err != nil {
		log.Printf("[WARN] can't load template %s: %v", name, err)
		http.Error(w, "Error loading template", http.StatusInternalServerError)
		return
	}

	tmplData := struct {
		Version    string
		Mode       string
		ModelPath  string
		ModelReady bool
	}{
		Version:    s.Version,
		Mode:       mode,
		ModelPath:  s.ModelPath,
		ModelReady: s.Model != nil && s.Model.Ready(),
	}

	if err := tmpl.ExecuteTemplate(w, name, tmplData); err != nil {
		log.Printf("[WARN] can't execute template %s: %v", name, err)
		http.Error(w, "Error executing template", http.StatusInternalServerError)
		return
	}
}

// renderComponent renders html fragment for htmx requests
func (s *Server) renderComponent(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "assets/components/"+name)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't parse template", "details": err.Error()})
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[WARN] can't execute template %s: %v", name, err)
		http.Error(w, "Error rendering result", http.StatusInternalServerError)
		return
	}
}

// renderAlert renders alert fragment, level is one of bootstrap alert levels
func (s *Server) renderAlert(w http.ResponseWriter, level, msg string) {
	s.renderComponent(w, "alert.html", struct{ Level, Message string }{Level: level, Message: msg})
}

func (s *Server) authMiddleware(mw func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if s.AuthPasswd == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}

var templateFuncs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}
