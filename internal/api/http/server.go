package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	analyticsdb "crispy/internal/analytics/adapter/db"
	analyticsservices "crispy/internal/analytics/app/services"
	attendancedb "crispy/internal/attendance/adapter/db"
	attendanceservices "crispy/internal/attendance/app/services"
	brokermessage "crispy/internal/order/adapter/broker_message"
	orderdb "crispy/internal/order/adapter/db"
	"crispy/internal/order/app/core"
	orderservices "crispy/internal/order/app/services"
	"crispy/internal/xpkg/config"
	"crispy/internal/xpkg/db"
	"crispy/internal/xpkg/logger"
	"crispy/internal/xpkg/metrics"
	"crispy/internal/xpkg/rabbitmq"

	"golang.org/x/sync/errgroup"
)

type Server struct {
	cfg     *config.Config
	srv     *http.Server
	mylog   logger.Logger
	metrics *metrics.Metrics
	db      *db.DB
	mb      *rabbitmq.RabbitMQ
	ctx     context.Context
	mu      sync.Mutex
}

func NewServer(ctx context.Context, cfg *config.Config, mylog logger.Logger) *Server {
	return &Server{
		ctx:     ctx,
		cfg:     cfg,
		mylog:   mylog,
		metrics: metrics.New(),
	}
}

// Run connects to the database and broker, configures routes and serves
// until ctx is cancelled or the listener fails.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	database, err := db.Start(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	s.db = database

	if s.cfg.RMQ.Enabled {
		mb, err := rabbitmq.New(s.ctx, s.cfg.RMQ, s.mylog)
		if err != nil {
			mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
			s.closeResources()
			return err
		}
		s.mb = mb
		mylog.Action("mb_connected").Info("Successful message broker connection")
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler:           s.Configure(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.cfg.HTTP.Port, "strict_transitions", s.cfg.Tracking.StrictTransitions).Info("server is running")

	g, gctx := errgroup.WithContext(s.ctx)
	g.Go(func() error {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.Stop(context.Background())
	})
	return g.Wait()
}

// Configure builds repositories and services on the open connections and
// returns the routed handler.
func (s *Server) Configure() http.Handler {
	var publisher core.IPublisher
	if s.mb != nil {
		publisher = brokermessage.NewStatusPublisher(s.mb)
	}

	orderService := orderservices.NewOrderService(
		orderdb.NewOrderRepo(s.db),
		orderdb.NewMenuRepo(s.db),
		publisher,
		s.metrics,
		s.mylog,
		orderservices.Options{
			StrictTransitions:     s.cfg.Tracking.StrictTransitions,
			EstimatedReadyMinutes: s.cfg.Tracking.EstimatedReadyMinutes,
		},
	)
	attendanceService := attendanceservices.NewAttendanceService(attendancedb.NewClockRepo(s.db), s.metrics, s.mylog, nil)
	analyticsService := analyticsservices.NewAnalyticsService(analyticsdb.NewAnalyticsRepo(s.db), s.mylog, nil)

	return NewRouter(Deps{
		Orders:     orderService,
		Attendance: attendanceService,
		Analytics:  analyticsService,
		DB:         s.db,
		Metrics:    s.metrics,
		Logger:     s.mylog,
	})
}

// Stop drains in-flight requests within the configured timeout and closes
// the database and broker.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if err := s.closeResources(); err != nil {
		return err
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) closeResources() error {
	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Database closed")
	}
	return nil
}
