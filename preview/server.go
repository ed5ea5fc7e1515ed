// Package preview serves a finished conversion over HTTP so the output
// can be inspected in a browser or EPUB reading system.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tsawler/reflow/format"
)

// DefaultPort is the port the preview server prefers. When it is already
// taken the server falls back to an ephemeral port.
const DefaultPort = 8899

// ServerConfig configures the preview server.
type ServerConfig struct {
	// Port is the preferred listen port. 0 requests an ephemeral port.
	Port int
	// Logger receives server lifecycle messages. Nil means the default
	// logger.
	Logger *slog.Logger
}

// DefaultServerConfig returns the configuration used by NewServer.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{Port: DefaultPort}
}

// Server serves the files of an output directory. Responses carry CORS and
// no-cache headers and support range requests, which EPUB viewers use for
// seeking inside the archive.
type Server struct {
	dir    string
	port   int
	logger *slog.Logger
	srv    *http.Server
	ln     net.Listener
}

// NewServer returns a server for dir with the default configuration.
func NewServer(dir string) *Server {
	return NewServerWithConfig(dir, DefaultServerConfig())
}

// NewServerWithConfig returns a server for dir with the given configuration.
func NewServerWithConfig(dir string, cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{dir: dir, port: cfg.Port, logger: logger}
}

// Handler returns the HTTP handler serving the output directory.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Use(middleware.GetHead)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Range"},
		ExposedHeaders: []string{"Accept-Ranges", "Content-Length", "Content-Range"},
	}))
	r.Get("/*", s.serveFile)
	return r
}

// Start begins serving in the background. When the preferred port is taken
// the server falls back to an ephemeral one; URL reports where it actually
// listens.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", "localhost:"+strconv.Itoa(s.port))
	if err != nil && s.port != 0 {
		ln, err = net.Listen("tcp", "localhost:0")
	}
	if err != nil {
		return fmt.Errorf("preview: listen: %w", err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("preview server stopped", "error", err)
		}
	}()

	s.logger.Info("preview server started", "url", s.URL(), "dir", s.dir)
	return nil
}

// URL returns the base URL of the running server. It is only meaningful
// after Start has returned successfully.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", s.ln.Addr().(*net.TCPAddr).Port)
}

// Shutdown stops the server, waiting for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// serveFile serves one file from the output directory. The request path is
// resolved against a rooted, cleaned path, so it cannot escape the
// directory.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	full := filepath.Join(s.dir, filepath.FromSlash(name))

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	if f := format.Detect(full); f != format.Unknown {
		w.Header().Set("Content-Type", f.MediaType())
	}

	file, err := os.Open(full)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	http.ServeContent(w, r, full, info.ModTime(), file)
}
