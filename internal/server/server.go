package server

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/karoux/oscsync/internal/logging"
	"github.com/karoux/oscsync/internal/metrics"
	"github.com/karoux/oscsync/internal/oscquery"
)

// Config holds the query server configuration
type Config struct {
	// BindAddress is the address to listen on ("" = all interfaces).
	BindAddress string

	// Tree is this process's own namespace document, immutable after
	// construction.
	Tree *oscquery.Node

	// HostInfo is the HOST_INFO document, served verbatim.
	HostInfo *oscquery.HostInfo
}

// Server is the OSCQuery HTTP server. It serves exactly two logical
// documents — HOST_INFO and the namespace tree — plus the websocket
// parameter stream and Prometheus metrics.
type Server struct {
	cfg      *Config
	listener net.Listener
	httpSrv  *http.Server
	hub      *Hub

	closeOnce sync.Once
}

// New binds an ephemeral TCP port on the configured address and prepares
// the server. Bind failure is fatal at construction; the server never
// exists in a half-initialized state. Call Start to begin serving and
// Close to release the listener.
func New(cfg *Config) (*Server, error) {
	addr := net.JoinHostPort(cfg.BindAddress, "0")
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind query server on %s: %w", addr, err)
	}

	s := &Server{
		cfg:      cfg,
		listener: listener,
		hub:      NewHub(),
	}
	s.httpSrv = &http.Server{
		Handler: http.HandlerFunc(s.handle),
	}

	logging.Info("Query server bound",
		zap.String("addr", listener.Addr().String()),
	)
	return s, nil
}

// Port returns the bound TCP port, for the advertiser.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Hub returns the websocket hub broadcasting flat-map updates.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins serving in the background. Each connection is handled on
// its own goroutine by net/http, so a slow client never blocks the next
// accept.
func (s *Server) Start() {
	go func() {
		if err := s.httpSrv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			logging.Error("Query server stopped", zap.Error(err))
		}
	}()
}

// handle routes a request on its raw URL: any request carrying the
// HOST_INFO token gets the host-info document, the root path gets the
// namespace document, and everything else is a 404. The method is not
// consulted.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.RequestURI)

	if strings.Contains(r.RequestURI, "HOST_INFO") {
		s.writeJSON(w, s.cfg.HostInfo)
		return
	}

	switch r.URL.Path {
	case "/":
		s.writeJSON(w, s.cfg.Tree)
	case "/ws":
		s.hub.ServeWS(w, r)
	case "/metrics":
		metrics.Handler().ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// writeJSON sends a document with the JSON content type and no-cache
// directives.
func (s *Server) writeJSON(w http.ResponseWriter, doc any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Pragma", "no-cache")

	if err := json.NewEncoder(w).Encode(doc); err != nil {
		// The connection is gone; the listener keeps accepting.
		logging.Warn("Failed to write response", zap.Error(err))
	}
}

// Close shuts the listener and all websocket subscribers down. Idempotent;
// the owner invokes it exactly once on every exit path.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.hub.Close()
		err = s.httpSrv.Close()
		logging.Info("Query server closed")
	})
	return err
}
