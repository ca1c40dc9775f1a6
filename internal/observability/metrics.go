package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LoaderMetrics holds custom metrics for GraphQL requests and dataloader batching
type LoaderMetrics struct {
	requestDuration metric.Float64Histogram
	requestCounter  metric.Int64Counter
	errorCounter    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	batchKeys       metric.Int64Histogram
	batchFetches    metric.Int64Counter
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
}

// InitLoaderMetrics initializes request and dataloader metrics
func InitLoaderMetrics() (*LoaderMetrics, error) {
	meter := otel.Meter("catalog-graphql")

	requestDuration, err := meter.Float64Histogram(
		"graphql.request.duration",
		metric.WithDescription("Duration of GraphQL requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	requestCounter, err := meter.Int64Counter(
		"graphql.requests.total",
		metric.WithDescription("Total number of GraphQL requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	errorCounter, err := meter.Int64Counter(
		"graphql.errors.total",
		metric.WithDescription("Total number of GraphQL errors"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"graphql.requests.active",
		metric.WithDescription("Number of active GraphQL requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active requests counter: %w", err)
	}

	batchKeys, err := meter.Int64Histogram(
		"dataloader.batch.keys",
		metric.WithDescription("Number of distinct keys collected into one batch fetch"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch keys histogram: %w", err)
	}

	batchFetches, err := meter.Int64Counter(
		"dataloader.batch.fetches",
		metric.WithDescription("Total number of batch fetch invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch fetches counter: %w", err)
	}

	cacheHits, err := meter.Int64Counter(
		"dataloader.cache.hits",
		metric.WithDescription("Number of dataloader cache hits"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache hits counter: %w", err)
	}

	cacheMisses, err := meter.Int64Counter(
		"dataloader.cache.misses",
		metric.WithDescription("Number of dataloader cache misses"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache misses counter: %w", err)
	}

	return &LoaderMetrics{
		requestDuration: requestDuration,
		requestCounter:  requestCounter,
		errorCounter:    errorCounter,
		activeRequests:  activeRequests,
		batchKeys:       batchKeys,
		batchFetches:    batchFetches,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}, nil
}

// RecordRequest records a GraphQL request with its duration and outcome
func (m *LoaderMetrics) RecordRequest(ctx context.Context, duration time.Duration, hasErrors bool, operationType string) {
	attrs := []attribute.KeyValue{
		attribute.String("operation_type", operationType),
		attribute.Bool("has_errors", hasErrors),
	}

	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	if hasErrors {
		m.errorCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation_type", operationType),
		))
	}
}

// RecordBatchFetch records one batch fetch invocation and its key count
func (m *LoaderMetrics) RecordBatchFetch(ctx context.Context, loaderName string, keyCount int64) {
	attrs := metric.WithAttributes(attribute.String("loader", loaderName))
	m.batchKeys.Record(ctx, keyCount, attrs)
	m.batchFetches.Add(ctx, 1, attrs)
}

// RecordCacheHit records a dataloader cache hit
func (m *LoaderMetrics) RecordCacheHit(ctx context.Context, loaderName string) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("loader", loaderName),
	))
}

// RecordCacheMiss records a dataloader cache miss
func (m *LoaderMetrics) RecordCacheMiss(ctx context.Context, loaderName string) {
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("loader", loaderName),
	))
}

// IncrementActiveRequests increments the active requests counter
func (m *LoaderMetrics) IncrementActiveRequests(ctx context.Context) {
	m.activeRequests.Add(ctx, 1)
}

// DecrementActiveRequests decrements the active requests counter
func (m *LoaderMetrics) DecrementActiveRequests(ctx context.Context) {
	m.activeRequests.Add(ctx, -1)
}

// InitMetrics initializes all custom metrics and returns the LoaderMetrics instance
func InitMetrics(logger *slog.Logger) (*LoaderMetrics, error) {
	metrics, err := InitLoaderMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loader metrics: %w", err)
	}

	logger.Info("custom loader metrics initialized")
	return metrics, nil
}

type loaderMetricsContextKey struct{}

// ContextWithLoaderMetrics stores loader metrics in the provided context.
func ContextWithLoaderMetrics(ctx context.Context, metrics *LoaderMetrics) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loaderMetricsContextKey{}, metrics)
}

// LoaderMetricsFromContext retrieves loader metrics from the context.
func LoaderMetricsFromContext(ctx context.Context) *LoaderMetrics {
	if ctx == nil {
		return nil
	}
	metrics, _ := ctx.Value(loaderMetricsContextKey{}).(*LoaderMetrics)
	return metrics
}
