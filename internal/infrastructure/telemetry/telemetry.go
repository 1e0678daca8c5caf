package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/moka-storefront/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
)

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger

	// conn is shared by the trace and metric exporters; nil when export is off.
	conn *grpc.ClientConn
}

// NewTelemetry initializes all OpenTelemetry components. With export disabled spans
// stay in process and metrics are only scraped from /metrics.
func NewTelemetry(cfg *config.OTLPConfig, logCfg *config.LogConfig) (*Telemetry, error) {
	logger := initLogger(cfg, logCfg)
	ctx := context.Background()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var conn *grpc.ClientConn
	if cfg.Enabled {
		logger.Info("Initializing OpenTelemetry",
			slog.String("endpoint", cfg.Endpoint),
			slog.String("service_name", cfg.ServiceName),
		)
		if conn, err = newExporterConn(cfg.Endpoint); err != nil {
			return nil, err
		}
	}

	tp, err := newTracerProvider(ctx, conn, res)
	if err != nil {
		closeConn(conn)
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	mp, err := newMeterProvider(ctx, conn, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		closeConn(conn)
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Enabled {
		logger.Info("Telemetry initialized (OTLP + Prometheus exporters)")
	} else {
		logger.Info("Telemetry initialized in local mode (OTLP export disabled)")
	}

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		conn:           conn,
	}, nil
}

func closeConn(conn *grpc.ClientConn) {
	if conn != nil {
		_ = conn.Close()
	}
}

// Shutdown flushes both providers and then closes the exporter connection
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close exporter connection: %w", err))
		}
	}

	if len(errs) == 0 {
		t.Logger.Info("OpenTelemetry shutdown successfully")
	}
	return errors.Join(errs...)
}
