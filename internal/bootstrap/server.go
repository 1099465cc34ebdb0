package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/eventbooking/api"
	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/Domenick1991/eventbooking/internal/service/reviews"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	httpServer *http.Server
	log        zerolog.Logger
}

// Run starts the gRPC health and HTTP API servers and blocks until context is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, reviewSvc reviews.ReviewUseCase, log zerolog.Logger) error {
	s := NewServers(cfg, bookingSvc, reviewSvc, log)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	return s.Serve(ctx, lis)
}

func NewServers(cfg *config.Config, bookingSvc booking.BookingUseCase, reviewSvc reviews.ReviewUseCase, log zerolog.Logger) *Servers {
	if cfg.HTTP.GinMode != "" {
		gin.SetMode(cfg.HTTP.GinMode)
	}

	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	router := api.NewRouter(api.RouterConfig{SwaggerDir: cfg.HTTP.SwaggerDir}, bookingSvc, reviewSvc, log)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{
		grpcServer: grpcSrv,
		health:     healthSrv,
		httpServer: httpSrv,
		log:        log,
	}
}

// Serve runs both servers, gRPC on lis, until ctx is done.
func (s *Servers) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 2)

	go func() {
		if err := s.grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.log.Info().Str("http", s.httpServer.Addr).Str("grpc", lis.Addr().String()).Msg("servers started")

	select {
	case err := <-errCh:
		s.shutdown()
		return err
	case <-ctx.Done():
		s.log.Info().Msg("shutting down servers")
		return s.shutdown()
	}
}

func (s *Servers) shutdown() error {
	s.health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
