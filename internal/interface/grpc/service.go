package grpcservice

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/fluentlabs-xyz/fvmbridge/internal/config"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/application"
	interfaces "github.com/fluentlabs-xyz/fvmbridge/internal/interface"
	"github.com/fluentlabs-xyz/fvmbridge/internal/interface/grpc/handlers"
	"github.com/fluentlabs-xyz/fvmbridge/internal/interface/grpc/interceptors"
	"github.com/fluentlabs-xyz/fvmbridge/internal/telemetry"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
)

type service struct {
	config        Config
	appConfig     *config.Config
	grpcServer    *grpc.Server
	healthSvc     *health.Server
	readinessSvc  *interceptors.ReadinessService
	appSvcStarted atomic.Bool
	otelShutdown  func(context.Context) error
}

func NewService(svcConfig Config, appConfig *config.Config) (interfaces.Service, error) {
	if err := svcConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %s", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %s", err)
	}

	return &service{
		config:       svcConfig,
		appConfig:    appConfig,
		readinessSvc: interceptors.NewReadinessService(),
	}, nil
}

func (s *service) Start() error {
	appSvc, err := s.appConfig.AppService()
	if err != nil {
		return fmt.Errorf("failed to create app service: %w", err)
	}

	if s.appConfig.OtelCollectorEndpoint != "" {
		pushInterval := time.Duration(s.appConfig.OtelPushInterval) * time.Second
		otelShutdown, err := telemetry.InitOtelSDK(
			context.Background(), s.appConfig.OtelCollectorEndpoint, pushInterval,
		)
		if err != nil {
			return err
		}
		s.otelShutdown = otelShutdown
	}

	creds := insecure.NewCredentials()
	if !s.config.insecure() {
		tlsConfig, err := s.config.tlsConfig()
		if err != nil {
			return err
		}
		creds = credentials.NewTLS(tlsConfig)
	}

	if s.config.EnableFund {
		log.Warn("fund rpc enabled, any client can credit account balances")
	}
	s.grpcServer, s.healthSvc = newServer(
		appSvc, s.readinessSvc, s.config.EnableFund, grpc.Creds(creds),
	)

	lis, err := net.Listen("tcp", s.config.address())
	if err != nil {
		return fmt.Errorf("failed to listen at %s: %s", s.config.address(), err)
	}
	go func() {
		if err := s.grpcServer.Serve(lis); err != nil {
			log.WithError(err).Warn("grpc server stopped")
		}
	}()
	log.Infof("started listening at %s", s.config.address())

	return s.startAppServices(appSvc)
}

func (s *service) Stop() {
	if s.appSvcStarted.CompareAndSwap(true, false) {
		s.readinessSvc.MarkAppServiceStopped()
		if s.healthSvc != nil {
			s.healthSvc.Shutdown()
		}
		// Let in-flight calls complete before closing the stores below them.
		if s.grpcServer != nil {
			s.grpcServer.GracefulStop()
		}
		appSvc, _ := s.appConfig.AppService()
		if appSvc != nil {
			appSvc.Stop()
			log.Info("stopped app service")
		}
	} else if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.otelShutdown != nil {
		if err := s.otelShutdown(context.Background()); err != nil {
			log.Errorf("failed to shutdown otel: %s", err)
		}
	}
	log.Info("shutdown service")
}

func (s *service) startAppServices(appSvc application.Service) error {
	if !s.appSvcStarted.CompareAndSwap(false, true) {
		return nil
	}
	if err := appSvc.Start(); err != nil {
		s.appSvcStarted.Store(false)
		return fmt.Errorf("failed to start app service: %w", err)
	}
	log.Info("started app service")

	s.readinessSvc.MarkAppServiceStarted()
	s.healthSvc.SetServingStatus(handlers.BridgeServiceName, grpchealth.HealthCheckResponse_SERVING)
	log.Info("bridge service is now ready")
	return nil
}

// newServer returns the grpc server exposing the bridge and health services. The bridge service
// is reported as not serving until the app service is marked as started.
func newServer(
	appSvc application.Service, readiness *interceptors.ReadinessService, enableFund bool,
	opts ...grpc.ServerOption,
) (*grpc.Server, *health.Server) {
	otelHandler := otelgrpc.NewServerHandler(
		otelgrpc.WithTracerProvider(otel.GetTracerProvider()),
	)

	grpcConfig := append([]grpc.ServerOption{
		interceptors.UnaryInterceptor(readiness),
		interceptors.StreamInterceptor(readiness),
		grpc.StatsHandler(otelHandler),
	}, opts...)
	grpcServer := grpc.NewServer(grpcConfig...)

	handlers.RegisterBridgeServiceServer(grpcServer, handlers.NewBridgeHandler(appSvc, enableFund))

	healthSvc := health.NewServer()
	healthSvc.SetServingStatus(handlers.BridgeServiceName, grpchealth.HealthCheckResponse_NOT_SERVING)
	grpchealth.RegisterHealthServer(grpcServer, healthSvc)

	return grpcServer, healthSvc
}
