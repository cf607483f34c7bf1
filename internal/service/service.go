// Package service assembles the discovery and synchronization pipeline:
// query server, advertiser, browser, and remote synchronizer, owned and
// torn down together.
package service

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/karoux/oscsync/internal/config"
	"github.com/karoux/oscsync/internal/discovery"
	"github.com/karoux/oscsync/internal/logging"
	"github.com/karoux/oscsync/internal/metrics"
	"github.com/karoux/oscsync/internal/oscquery"
	"github.com/karoux/oscsync/internal/server"
	"github.com/karoux/oscsync/internal/syncer"
)

// Options configures a Service beyond its file configuration.
type Options struct {
	Config *config.Config

	// OnUpdate, when set, additionally receives every flat-map update.
	// The websocket hub is always fed regardless.
	OnUpdate syncer.UpdateFunc

	// OnService, when set, is invoked for every newly registered peer
	// service.
	OnService func(discovery.ServiceRecord)
}

// Service owns one complete pipeline instance. Multiple services can
// coexist in a process; they share no state.
type Service struct {
	cfg *config.Config

	srv        *server.Server
	advertiser *discovery.Advertiser
	browser    *discovery.Browser
	sync       *syncer.Syncer

	closeOnce sync.Once
}

// New constructs the pipeline. Any startup resource failure (binding the
// query port, registering the mDNS services) is fatal here: the pipeline
// never comes up partially initialized.
func New(opts Options) (*Service, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metrics.Init()

	tree := oscquery.NewServerTree(cfg.InstanceName)
	hostInfo := oscquery.NewHostInfo(cfg.InstanceName, cfg.OSCIP, cfg.OSCPort)

	srv, err := server.New(&server.Config{
		BindAddress: cfg.BindAddress,
		Tree:        tree,
		HostInfo:    hostInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create query server: %w", err)
	}

	hub := srv.Hub()
	sy := syncer.New(func(params map[string]any) {
		hub.Broadcast(params)
		if opts.OnUpdate != nil {
			opts.OnUpdate(params)
		}
	})

	advertiser, err := discovery.NewAdvertiser(cfg.InstanceName, srv.Port(), cfg.OSCPort)
	if err != nil {
		_ = srv.Close()
		return nil, fmt.Errorf("failed to advertise services: %w", err)
	}

	registry := discovery.NewRegistry()
	registry.Seed(advertiser.ID())

	browser := discovery.NewBrowser(registry, sy, cfg.PeerPrefix)
	browser.OnService = opts.OnService

	return &Service{
		cfg:        cfg,
		srv:        srv,
		advertiser: advertiser,
		browser:    browser,
		sync:       sy,
	}, nil
}

// Start begins serving queries and browsing for peers.
func (s *Service) Start() error {
	s.srv.Start()
	if err := s.browser.Start(); err != nil {
		s.Close()
		return err
	}

	logging.Info("Pipeline started",
		zap.String("instance", s.cfg.InstanceName),
		zap.Int("query_port", s.srv.Port()),
		zap.Int("osc_port", s.cfg.OSCPort),
	)
	return nil
}

// Run starts the pipeline and blocks until SIGINT/SIGTERM, then tears it
// down.
func (s *Service) Run() error {
	if err := s.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logging.Info("Shutdown signal received, stopping...")
	s.Close()
	return nil
}

// QueryPort returns the bound HTTP port.
func (s *Service) QueryPort() int {
	return s.srv.Port()
}

// Syncer returns the remote synchronizer, for on-demand refetches.
func (s *Service) Syncer() *syncer.Syncer {
	return s.sync
}

// Close tears the pipeline down: advertisements withdrawn, browse loops
// stopped, listener released. Idempotent; invoked on every exit path.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.browser.Close()
		s.advertiser.Close()
		if err := s.srv.Close(); err != nil {
			logging.Error("Error closing query server", zap.Error(err))
		}
		logging.Info("Pipeline stopped")
	})
}
