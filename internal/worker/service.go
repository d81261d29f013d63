package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultOverdueSweepInterval = time.Hour

// Service runs the asynq server plus the periodic overdue sweep.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the worker until the context ends.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.InvoiceService != nil {
		go s.runOverdueSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the worker down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runOverdueSweepLoop(ctx context.Context) {
	interval := defaultOverdueSweepInterval
	if s.consumer.Config != nil && s.consumer.Config.Invoice.OverdueSweepMinutes > 0 {
		interval = time.Duration(s.consumer.Config.Invoice.OverdueSweepMinutes) * time.Minute
	}

	runOnce := func() {
		if _, err := s.consumer.InvoiceService.MarkOverdueInvoices(ctx, time.Now()); err != nil {
			logger.Warnw("worker_overdue_sweep_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
