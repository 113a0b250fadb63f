package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitOtelSDK(t *testing.T) {
	ctx := context.Background()

	shutdown, err := InitOtelSDK(ctx, "http://127.0.0.1:4318", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)
	_, ok = otel.GetMeterProvider().(*sdkmetric.MeterProvider)
	require.True(t, ok)

	// Nothing listens at the endpoint, only make sure shutdown returns.
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	//nolint:errcheck
	shutdown(ctx)
}
