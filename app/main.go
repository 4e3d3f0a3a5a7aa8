package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/sms-spam/app/webapi"
	"github.com/umputun/sms-spam/lib/artifact"
	"github.com/umputun/sms-spam/lib/evaluation"
	"github.com/umputun/sms-spam/lib/verdict"
)

type options struct {
	Listen     string `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
	AuthPasswd string `long:"auth" env:"AUTH" description:"basic auth password for user sms-spam"`
	MaxUpload  string `long:"max-upload" env:"MAX_UPLOAD" default:"16M" description:"max size of uploaded dataset"`

	Model struct {
		Path    string        `long:"path" env:"PATH" default:"sms_spam_model.json" description:"model artifact file"`
		URL     string        `long:"url" env:"URL" description:"download artifact from this url if the file is missing"`
		Retries int           `long:"retries" env:"RETRIES" default:"3" description:"artifact download attempts"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"1m" description:"artifact download timeout"`
		Watch   bool          `long:"watch" env:"WATCH" description:"report changes of the artifact file"`
	} `group:"model" namespace:"model" env-namespace:"MODEL"`

	Cache struct {
		TTL  time.Duration `long:"ttl" env:"TTL" default:"0s" description:"verdict cache ttl, disabled if 0"`
		Size int           `long:"size" env:"SIZE" default:"1000" description:"max number of cached verdicts"`
	} `group:"cache" namespace:"cache" env-namespace:"CACHE"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated prediction logs"`
		FileName   string `long:"file" env:"FILE"  default:"sms-spam.log" description:"location of prediction log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("sms-spam %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.AuthPasswd)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	handle, err := loadModel(ctx, opts)
	if err != nil {
		return err
	}
	if !handle.Ready() {
		log.Printf("[WARN] model %s not loaded, predictions are disabled until restart", opts.Model.Path)
	}

	if opts.Model.Watch {
		go watchModel(ctx, opts.Model.Path)
	}

	maxUpload, err := sizeParse(opts.MaxUpload)
	if err != nil {
		return fmt.Errorf("can't parse max upload size: %w", err)
	}

	predLogWr, err := makePredictionLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make prediction log writer: %w", err)
	}
	defer predLogWr.Close() // nolint

	srv := webapi.NewServer(webapi.Config{
		Version:          revision,
		ListenAddr:       opts.Listen,
		Checker:          verdict.NewChecker(handle, verdict.Opts{CacheTTL: opts.Cache.TTL, CacheSize: opts.Cache.Size}),
		Evaluator:        evaluation.NewEvaluator(handle),
		Model:            handle,
		ModelPath:        opts.Model.Path,
		PredictionLogger: makePredictionLogger(predLogWr),
		AuthPasswd:       opts.AuthPasswd,
		MaxUploadSize:    int64(maxUpload), //nolint:gosec // upload size is small
		Dbg:              opts.Dbg,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("can't run webapi server: %w", err)
	}
	return nil
}

// loadModel loads the model artifact once per process, downloading it first if url is set and the file is missing.
// A failed download is not fatal, the app starts without the model and reports it on prediction.
func loadModel(ctx context.Context, opts options) (artifact.Handle, error) {
	if opts.Model.URL != "" {
		err := artifact.Fetch(ctx, artifact.FetchParams{
			URL:     opts.Model.URL,
			Path:    opts.Model.Path,
			Client:  &http.Client{Timeout: opts.Model.Timeout},
			Repeats: opts.Model.Retries,
		})
		if err != nil {
			log.Printf("[WARN] can't fetch model: %v", err)
		}
	}

	handle, err := artifact.Load(opts.Model.Path)
	if err != nil {
		return artifact.Handle{}, fmt.Errorf("can't load model: %w", err)
	}
	return handle, nil
}

// watchModel reports changes of the artifact file. The loaded model is never replaced, restart is needed to apply.
func watchModel(ctx context.Context, path string) {
	err := artifact.Watch(ctx, path, func(op fsnotify.Op) {
		log.Printf("[WARN] model file %s changed (%s), restart to apply", path, op)
	})
	if err != nil {
		log.Printf("[WARN] can't watch model file: %v", err)
	}
}

// makePredictionLogger creates prediction logger to keep records of single message predictions
// it writes json lines to the provided writer
func makePredictionLogger(wr io.Writer) webapi.PredictionLogger {
	return webapi.PredictionLoggerFunc(func(msg string, v verdict.Verdict) {
		text := strings.ReplaceAll(msg, "\n", " ")
		text = strings.TrimSpace(text)
		log.Printf("[INFO] message predicted as %s", v.Class)
		log.Printf("[DEBUG] predicted message: %s", text)
		m := struct {
			TimeStamp string `json:"ts"`
			Verdict   string `json:"verdict"`
			Label     string `json:"label"`
			Text      string `json:"text"`
		}{
			TimeStamp: time.Now().In(time.Local).Format(time.RFC3339),
			Verdict:   string(v.Class),
			Label:     v.Label,
			Text:      text,
		}
		line, err := json.Marshal(&m)
		if err != nil {
			log.Printf("[WARN] can't marshal json, %v", err)
			return
		}
		if _, err := wr.Write(append(line, '\n')); err != nil {
			log.Printf("[WARN] can't write to log, %v", err)
		}
	})
}

// makePredictionLogWriter creates prediction log writer
// it parses options and makes lumberjack logger with rotation
func makePredictionLogWriter(opts options) (predLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] prediction logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), //nolint:gosec // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// sizeParse parses size with optional k, m, g, t suffix in any case, 1k is 1024
func sizeParse(inp string) (uint64, error) {
	if inp == "" {
		return 0, errors.New("empty value")
	}
	for i, sfx := range []string{"k", "m", "g", "t"} {
		if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
			val, err := strconv.Atoi(inp[:len(inp)-1])
			if err != nil {
				return 0, fmt.Errorf("can't parse %s: %w", inp, err)
			}
			return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
		}
	}
	return strconv.ParseUint(inp, 10, 64)
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var nonEmpty []string
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
