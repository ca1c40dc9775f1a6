package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-graphql/internal/dataloader"
	"catalog-graphql/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddlewarePropagatesMetricsContext(t *testing.T) {
	metrics, err := observability.InitLoaderMetrics()
	require.NoError(t, err)

	var seen *observability.LoaderMetrics
	handler := MetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.LoaderMetricsFromContext(r.Context())
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ __typename }"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Same(t, metrics, seen)
}

func TestMetricsMiddlewareSkipsNonPost(t *testing.T) {
	metrics, err := observability.InitLoaderMetrics()
	require.NoError(t, err)

	var seen *observability.LoaderMetrics
	handler := MetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.LoaderMetricsFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/graphql", nil))

	assert.Nil(t, seen)
}

func TestLoaderScopeMiddleware(t *testing.T) {
	var first, second *dataloader.Registry
	handler := LoaderScopeMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		registry, ok := dataloader.FromContext(r.Context())
		require.True(t, ok)
		if first == nil {
			first = registry
		} else {
			second = registry
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotSame(t, first, second, "each request gets its own loader registry")
}

func TestResponseHasGraphQLErrors(t *testing.T) {
	assert.False(t, responseHasGraphQLErrors(nil))
	assert.False(t, responseHasGraphQLErrors([]byte(`{"data":{}}`)))
	assert.False(t, responseHasGraphQLErrors([]byte(`{"errors":null}`)))
	assert.False(t, responseHasGraphQLErrors([]byte(`{"errors":[]}`)))
	assert.False(t, responseHasGraphQLErrors([]byte(`not json`)))
	assert.True(t, responseHasGraphQLErrors([]byte(`{"errors":[{"message":"boom"}]}`)))
}
