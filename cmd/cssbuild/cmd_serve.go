package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"css-tools/cmd/cssbuild/css"
	"css-tools/cmd/cssbuild/cssyaml"
	"css-tools/pkg/lib"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
)

var (
	flagServeAddr string
	flagServeDir  string
	serveFlags    *pipelineFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sources compiled on every request",
	Long: "Start a development server. GET /<name>.css compiles <dir>/<name>.css on\n" +
		"each request, so edits show up on reload. GET /_status reports the server's\n" +
		"own resource usage.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := serveFlags.load()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		srv := &http.Server{
			Addr:              flagServeAddr,
			Handler:           newServer(cfg, flagServeDir).routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		lib.Stderr.Print(`serving <cyan:"%s"> on <green:"http://localhost%s">`, flagServeDir, flagServeAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVarP(&flagServeDir, "dir", "d", ".", "directory holding the source files")
	serveFlags = bindPipelineFlags(serveCmd.Flags())
}

type server struct {
	cfg     cssyaml.Config
	dir     string
	started time.Time

	requests atomic.Int64
	failures atomic.Int64
}

func newServer(cfg cssyaml.Config, dir string) *server {
	return &server{cfg: cfg, dir: dir, started: time.Now()}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/_status", s.handleStatus)
	r.Get("/*", s.handleStylesheet)
	return r
}

func (s *server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if !strings.HasSuffix(name, ".css") {
		http.NotFound(w, r)
		return
	}
	// path.Clean on a rooted path cannot climb above the root.
	rel := strings.TrimPrefix(path.Clean("/"+name), "/")
	src := filepath.Join(s.dir, filepath.FromSlash(rel))

	s.requests.Add(1)
	res, err := compileFile(r.Context(), s.cfg, src)
	switch {
	case errors.Is(err, os.ErrNotExist):
		http.NotFound(w, r)
		return
	case err != nil:
		s.failures.Add(1)
		status := http.StatusInternalServerError
		if isCompileError(err) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(res.Output))
}

// isCompileError reports whether err comes from the source rather than the server.
func isCompileError(err error) bool {
	var (
		parseErr  *css.ParseError
		renderErr *css.RenderError
		pluginErr *css.PluginError
	)
	return errors.As(err, &parseErr) || errors.As(err, &renderErr) || errors.As(err, &pluginErr)
}

type statusReport struct {
	PID        int32   `json:"pid"`
	Uptime     string  `json:"uptime"`
	Requests   int64   `json:"requests"`
	Failures   int64   `json:"failures"`
	RSS        uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := statusReport{
		PID:      int32(os.Getpid()),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Requests: s.requests.Load(),
		Failures: s.failures.Load(),
	}
	if p, err := process.NewProcessWithContext(r.Context(), st.PID); err == nil {
		if mem, err := p.MemoryInfoWithContext(r.Context()); err == nil {
			st.RSS = mem.RSS
		}
		if cpu, err := p.CPUPercentWithContext(r.Context()); err == nil {
			st.CPUPercent = cpu
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}
