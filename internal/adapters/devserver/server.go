// Package devserver serves the intermediate and output trees over HTTP, with
// live reload for development.
package devserver

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/browser"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

//go:embed client.js
var clientScript []byte

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var _ ports.Reloader = (*Server)(nil)

// Server runs the development server with live reload and the preview
// server for the output tree.
type Server struct {
	logger ports.Logger
	hub    *Hub
	open   func(url string) error

	mu      sync.Mutex
	running map[string]string
}

// Option configures a Server.
type Option func(*Server)

// WithOpener replaces the function used to open the browser.
func WithOpener(open func(url string) error) Option {
	return func(s *Server) {
		s.open = open
	}
}

// NewServer creates a new Server.
func NewServer(logger ports.Logger, opts ...Option) *Server {
	s := &Server{
		logger:  logger,
		hub:     NewHub(),
		open:    browser.OpenURL,
		running: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload notifies connected browsers about changed URL paths.
func (s *Server) Reload(paths []string) {
	s.hub.Reload(paths)
}

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Addr returns the listen address of the server started by the named task.
func (s *Server) Addr(task domain.TaskID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr, ok := s.running[task.String()]
	return addr, ok
}

// Dev returns the task starting the development server. The task returns as
// soon as the server listens; the server stops when the context ends.
func (s *Server) Dev() ports.Task {
	return ports.TaskFunc(func(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		handler := s.Handler(cfg.Root, cfg.DevServer, true)
		ln, err := s.listen(domain.TaskServeDev, cfg.DevServer)
		if err != nil {
			return cfg, err
		}

		srv := newHTTPServer(handler)
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error(zerr.Wrap(err, domain.ErrServerStart.Error()))
			}
		}()
		context.AfterFunc(ctx, func() {
			s.hub.Close()
			s.shutdown(domain.TaskServeDev, srv)
		})

		s.announce(out, cfg.DevServer, ln.Addr())
		return cfg, nil
	})
}

// Dist returns the task serving the output tree. It blocks until the context
// ends and then reports success.
func (s *Server) Dist() ports.Task {
	return ports.TaskFunc(func(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		handler := s.Handler(cfg.Root, cfg.Preview, false)
		ln, err := s.listen(domain.TaskServeDist, cfg.Preview)
		if err != nil {
			return cfg, err
		}

		srv := newHTTPServer(handler)
		s.announce(out, cfg.Preview, ln.Addr())

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return zerr.Wrap(err, domain.ErrServerStart.Error())
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			s.shutdown(domain.TaskServeDist, srv)
			return nil
		})
		return cfg, g.Wait()
	})
}

func newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func (s *Server) listen(task domain.TaskID, cfg domain.ServerConfig) (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.running[task.String()]; ok {
		return nil, zerr.With(domain.ErrServerAlreadyRunning, "task", task.String())
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrServerStart.Error()), "port", cfg.Port)
	}
	s.running[task.String()] = ln.Addr().String()
	return ln, nil
}

func (s *Server) shutdown(task domain.TaskID, srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, task.String())
}

func (s *Server) announce(out io.Writer, cfg domain.ServerConfig, addr net.Addr) {
	port := cfg.Port
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = tcp.Port
	}
	url := fmt.Sprintf("http://localhost:%d", port)
	_, _ = fmt.Fprintf(out, "serving %s at %s\n", cfg.BaseDir, url)

	if cfg.Open {
		if err := s.open(url); err != nil {
			s.logger.Warn("could not open browser: " + err.Error())
		}
	}
}

// Handler builds the router for cfg. Route overlays take precedence over the
// base directory. With live set, HTML responses carry the reload client.
func (s *Server) Handler(root string, cfg domain.ServerConfig, live bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	if live {
		r.Get(ReloadPath, s.hub.ServeHTTP)
		r.Get(ClientPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
			_, _ = w.Write(clientScript)
		})
	}

	for _, route := range cfg.Routes {
		prefix := "/" + strings.Trim(route.Prefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, static(filepath.Join(root, filepath.FromSlash(route.Dir)), live)))
	}
	r.Handle("/*", static(filepath.Join(root, filepath.FromSlash(cfg.BaseDir)), live))
	return r
}

func static(dir string, live bool) http.Handler {
	files := http.FileServer(http.Dir(dir))
	if !live {
		return files
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/") {
			name = path.Join(name, "index.html")
		}
		if path.Ext(name) != ".html" {
			files.ServeHTTP(w, r)
			return
		}

		page, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			files.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(InjectClient(page)))
	})
}
